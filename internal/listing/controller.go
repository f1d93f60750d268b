// Package listing keeps the query, selection and per-row state of the
// evaluation dashboard: debounced search, filters, pagination, status
// transitions and the buffered recipient toggles.
package listing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/submit"
)

// PageSizes is the fixed choice set for the page-size selector.
var PageSizes = []int{10, 25, 50}

// Backend is the slice of the API client the controller needs.
type Backend interface {
	ListEvaluations(ctx context.Context, p api.ListParams) (models.EvaluationPage, error)
	UpdateEvaluationStatus(ctx context.Context, id int64, status models.EvaluationStatus) error
	MongoDetails(ctx context.Context, id int64) (models.MongoDetails, error)
	UpdateShouldSend(ctx context.Context, id int64, changes []models.ShouldSendChange) error
}

type sendKey struct {
	role models.ActorRole
	leg  int64
}

type Controller struct {
	api      Backend
	log      *zap.SugaredLogger
	debounce time.Duration

	mu sync.Mutex

	page             int
	pageSize         int
	periodFilter     int64
	surveyTypeFilter int64
	search           string // effective, post-debounce
	searchInput      string

	timer *time.Timer // single-slot: a keystroke cancels and reschedules

	seq uint64 // monotonic fetch sequence; stale responses are dropped

	rows       []models.Evaluation
	total      int
	totalPages int

	selected map[int64]struct{}

	details     *models.MongoDetails
	pendingSend map[sendKey]bool
}

func New(backend Backend, log *zap.SugaredLogger, debounce time.Duration) *Controller {
	return &Controller{
		api:         backend,
		log:         log,
		debounce:    debounce,
		page:        1,
		pageSize:    PageSizes[0],
		selected:    make(map[int64]struct{}),
		pendingSend: make(map[sendKey]bool),
	}
}

// Refresh issues a fetch for the current query. Each fetch carries a sequence
// number; a response is merged only while it is still the newest issued, so a
// stale reply for a superseded query can never overwrite fresher rows.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	params := api.ListParams{
		Page:       c.page,
		Limit:      c.pageSize,
		Period:     c.periodFilter,
		TypeSurvey: c.surveyTypeFilter,
		Search:     c.search,
	}
	c.mu.Unlock()

	page, err := c.api.ListEvaluations(ctx, params)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		// superseded while in flight
		return nil
	}
	if err != nil {
		c.log.Warnw("no se pudo cargar el listado", "err", err)
		return err
	}
	c.rows = page.Data
	c.total = page.Pagination.Total
	c.totalPages = page.Pagination.TotalPages
	c.pruneSelection()
	return nil
}

// SetSearchInput feeds the search box. The effective filter only changes
// after a quiet period: each keystroke cancels the pending fire, so exactly
// one query runs per burst, using the final text, reset to page 1.
func (c *Controller) SetSearchInput(ctx context.Context, text string) {
	// the deferred fetch outlives the request that typed the keystroke
	ctx = context.WithoutCancel(ctx)
	c.mu.Lock()
	c.searchInput = text
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, func() {
		c.mu.Lock()
		c.search = text
		c.page = 1
		c.mu.Unlock()
		if err := c.Refresh(ctx); err != nil {
			c.log.Debugw("búsqueda fallida", "search", text, "err", err)
		}
	})
	c.mu.Unlock()
}

func (c *Controller) SetPeriodFilter(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.periodFilter = id
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Controller) SetSurveyTypeFilter(ctx context.Context, id int64) error {
	c.mu.Lock()
	c.surveyTypeFilter = id
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Controller) SetPageSize(ctx context.Context, n int) error {
	valid := false
	for _, s := range PageSizes {
		if s == n {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("tamaño de página no permitido: %d", n)
	}
	c.mu.Lock()
	c.pageSize = n
	c.page = 1
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Controller) SetPage(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	c.page = n
	c.mu.Unlock()
	return c.Refresh(ctx)
}

func (c *Controller) Rows() []models.Evaluation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Evaluation(nil), c.rows...)
}

func (c *Controller) Page() int { c.mu.Lock(); defer c.mu.Unlock(); return c.page }

func (c *Controller) Total() int { c.mu.Lock(); defer c.mu.Unlock(); return c.total }

func (c *Controller) TotalPages() int { c.mu.Lock(); defer c.mu.Unlock(); return c.totalPages }

func (c *Controller) Search() string { c.mu.Lock(); defer c.mu.Unlock(); return c.search }

func (c *Controller) SearchInput() string { c.mu.Lock(); defer c.mu.Unlock(); return c.searchInput }

func (c *Controller) PageSize() int { c.mu.Lock(); defer c.mu.Unlock(); return c.pageSize }

func (c *Controller) PeriodFilter() int64 { c.mu.Lock(); defer c.mu.Unlock(); return c.periodFilter }

func (c *Controller) SurveyTypeFilter() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surveyTypeFilter
}

// ToggleRow flips one row's checkbox.
func (c *Controller) ToggleRow(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return
	}
	c.selected[id] = struct{}{}
}

func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.rows {
		c.selected[ev.ID] = struct{}{}
	}
}

func (c *Controller) SelectNone() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int64]struct{})
}

func (c *Controller) Selected() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int64, 0, len(c.selected))
	for _, ev := range c.rows {
		if _, ok := c.selected[ev.ID]; ok {
			out = append(out, ev.ID)
		}
	}
	return out
}

// pruneSelection drops ids that are no longer rendered, so the set can never
// silently hold invisible rows. Caller holds the lock.
func (c *Controller) pruneSelection() {
	visible := make(map[int64]struct{}, len(c.rows))
	for _, ev := range c.rows {
		visible[ev.ID] = struct{}{}
	}
	for id := range c.selected {
		if _, ok := visible[id]; !ok {
			delete(c.selected, id)
		}
	}
}

// ChangeStatus runs the row-scoped submission variant. Selecting the current
// status is a no-op; the local row only updates after the call resolves,
// never optimistically.
func (c *Controller) ChangeStatus(ctx context.Context, orch *submit.Orchestrator, id int64, newStatus models.EvaluationStatus, notify submit.Observer) error {
	c.mu.Lock()
	var current models.EvaluationStatus
	found := false
	for _, ev := range c.rows {
		if ev.ID == id {
			current = ev.Status
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return fmt.Errorf("evaluación %d no está en el listado", id)
	}
	if current == newStatus {
		return nil
	}

	plan := submit.StatusPlan(fmt.Sprintf("%d", id), newStatus)
	return orch.Run(ctx, plan, func(ctx context.Context) error {
		if err := c.api.UpdateEvaluationStatus(ctx, id, newStatus); err != nil {
			return err
		}
		c.mu.Lock()
		for i := range c.rows {
			if c.rows[i].ID == id {
				c.rows[i].Status = newStatus
			}
		}
		c.mu.Unlock()
		return nil
	}, notify)
}

// LoadDetails fetches the per-evaluation recipient document and resets the
// pending toggle buffer.
func (c *Controller) LoadDetails(ctx context.Context, id int64) (models.MongoDetails, error) {
	det, err := c.api.MongoDetails(ctx, id)
	if err != nil {
		return models.MongoDetails{}, err
	}
	c.mu.Lock()
	c.details = &det
	c.pendingSend = make(map[sendKey]bool)
	c.mu.Unlock()
	return det, nil
}

// SetShouldSend buffers one recipient toggle locally; nothing reaches the
// backend until SaveShouldSend.
func (c *Controller) SetShouldSend(role models.ActorRole, legalizationID int64, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingSend[sendKey{role, legalizationID}] = v
}

// ShouldSendValue resolves the displayed value: the pending change wins over
// the stored one.
func (c *Controller) ShouldSendValue(role models.ActorRole, legalizationID int64, stored bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.pendingSend[sendKey{role, legalizationID}]; ok {
		return v
	}
	return stored
}

func (c *Controller) PendingSendCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pendingSend)
}

// SaveShouldSend commits only the changed entries, merges the confirmed
// values back into the displayed document and clears the buffer.
func (c *Controller) SaveShouldSend(ctx context.Context) error {
	c.mu.Lock()
	if c.details == nil {
		c.mu.Unlock()
		return fmt.Errorf("no hay detalle de evaluación cargado")
	}
	id := c.details.EvaluationID
	changes := make([]models.ShouldSendChange, 0, len(c.pendingSend))
	for k, v := range c.pendingSend {
		changes = append(changes, models.ShouldSendChange{
			LegalizationID: k.leg,
			ActorType:      k.role,
			ShouldSend:     v,
		})
	}
	c.mu.Unlock()

	if len(changes) == 0 {
		return nil
	}
	if err := c.api.UpdateShouldSend(ctx, id, changes); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.details != nil && c.details.EvaluationID == id {
		mergeShouldSend(c.details.StudentEmails, models.RoleStudent, c.pendingSend)
		mergeShouldSend(c.details.BossEmails, models.RoleBoss, c.pendingSend)
		mergeShouldSend(c.details.MonitorEmails, models.RoleMonitor, c.pendingSend)
	}
	c.pendingSend = make(map[sendKey]bool)
	return nil
}

func mergeShouldSend(emails []models.TokenEmail, role models.ActorRole, pending map[sendKey]bool) {
	for i := range emails {
		if v, ok := pending[sendKey{role, emails[i].LegalizationID}]; ok {
			emails[i].ShouldSend = v
		}
	}
}
