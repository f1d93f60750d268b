// Package draft holds the authoring state machines for evaluations and
// forms: field values, dependent selections, create/edit/duplicate modes and
// pre-submit validation. Everything here is pure state; no network calls.
package draft

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
	ModeDuplicate
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeDuplicate:
		return "duplicate"
	default:
		return "create"
	}
}

// copyMarker is appended exactly once when entering duplicate mode.
const copyMarker = " (Copia)"

const dateLayout = "2006-01-02"

var ErrNotEditing = errors.New("solo se puede duplicar una evaluación cargada para edición")

// EvaluationDraft is the authoring state of one evaluation. In EDIT mode the
// backend identity is retained; entering DUPLICATE drops it from the payload
// so resubmission always issues a create.
type EvaluationDraft struct {
	mode Mode
	id   int64

	Name         string
	Period       int64
	PracticeType int64 // 0 = not selected
	TypeSurvey   int64
	programIDs   []int64
	StartDate    time.Time // calendar day, zero = unset
	FinishDate   time.Time
	AlertValue   int
	AlertUnit    models.AlertUnit
	AlertWhen    models.AlertWhen
}

func NewEvaluationDraft() *EvaluationDraft {
	return &EvaluationDraft{
		mode:      ModeCreate,
		AlertUnit: models.AlertDays,
		AlertWhen: models.AfterStartPractice,
	}
}

// LoadEvaluation seeds an EDIT draft from a fetched evaluation, narrowing the
// backend timestamps to calendar days for the editable fields.
func LoadEvaluation(ev models.Evaluation) *EvaluationDraft {
	d := &EvaluationDraft{
		mode:       ModeEdit,
		id:         ev.ID,
		Name:       ev.Name,
		Period:     ev.Period,
		programIDs: append([]int64(nil), ev.ProgramIDs...),
		StartDate:  parseDay(ev.StartDate),
		FinishDate: parseDay(ev.FinishDate),
		AlertValue: ev.AlertValue,
		AlertUnit:  ev.AlertUnit,
		AlertWhen:  ev.AlertWhen,
	}
	if ev.PracticeType != nil {
		d.PracticeType = *ev.PracticeType
	}
	if ev.TypeSurvey != nil {
		d.TypeSurvey = *ev.TypeSurvey
	}
	if d.AlertUnit == "" {
		d.AlertUnit = models.AlertDays
	}
	if d.AlertWhen == "" {
		d.AlertWhen = models.AfterStartPractice
	}
	return d
}

func (d *EvaluationDraft) Mode() Mode { return d.mode }

func (d *EvaluationDraft) ID() int64 { return d.id }

// IsUpdate reports whether submission should issue an update call; duplicate
// drafts always create.
func (d *EvaluationDraft) IsUpdate() bool { return d.mode == ModeEdit }

// NeedsFetch is the structural replacement for the old "suppress the edit
// re-fetch while duplicating" flag: only an untouched EDIT draft loads.
func (d *EvaluationDraft) NeedsFetch() bool { return d.mode == ModeEdit }

// Duplicate transitions EDIT→DUPLICATE, one way. Any existing trailing copy
// marker is stripped before appending a fresh one, so re-entering never
// stacks markers.
func (d *EvaluationDraft) Duplicate() error {
	switch d.mode {
	case ModeCreate:
		return ErrNotEditing
	case ModeDuplicate:
		return nil
	}
	name := strings.TrimSpace(d.Name)
	if name == "" {
		name = "Nueva Evaluación"
	}
	name = strings.TrimSpace(strings.TrimSuffix(name, strings.TrimSpace(copyMarker)))
	d.Name = name + copyMarker
	d.mode = ModeDuplicate
	return nil
}

// ToggleProgram adds the id to the associated-program set, or removes it if
// already present. The set never holds duplicates.
func (d *EvaluationDraft) ToggleProgram(id int64) {
	for i, cur := range d.programIDs {
		if cur == id {
			d.programIDs = append(d.programIDs[:i], d.programIDs[i+1:]...)
			return
		}
	}
	d.programIDs = append(d.programIDs, id)
}

func (d *EvaluationDraft) RemoveProgram(id int64) {
	for i, cur := range d.programIDs {
		if cur == id {
			d.programIDs = append(d.programIDs[:i], d.programIDs[i+1:]...)
			return
		}
	}
}

func (d *EvaluationDraft) Programs() []int64 {
	return append([]int64(nil), d.programIDs...)
}

func (d *EvaluationDraft) HasProgram(id int64) bool {
	for _, cur := range d.programIDs {
		if cur == id {
			return true
		}
	}
	return false
}

// AvailablePrograms filters the candidate dropdown so an already-selected id
// can never be offered again.
func (d *EvaluationDraft) AvailablePrograms(all []models.ReferenceItem) []models.ReferenceItem {
	out := make([]models.ReferenceItem, 0, len(all))
	for _, p := range all {
		if !d.HasProgram(p.ID) {
			out = append(out, p)
		}
	}
	return out
}

// SelectedPrograms resolves the selected ids for display, in selection order.
func (d *EvaluationDraft) SelectedPrograms(all []models.ReferenceItem) []models.ReferenceItem {
	byID := make(map[int64]models.ReferenceItem, len(all))
	for _, p := range all {
		byID[p.ID] = p
	}
	out := make([]models.ReferenceItem, 0, len(d.programIDs))
	for _, id := range d.programIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (d *EvaluationDraft) SetDates(start, finish time.Time) {
	d.StartDate = day(start)
	d.FinishDate = day(finish)
}

// Validate runs before any network call; every rejection is locally
// recoverable.
func (d *EvaluationDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New("El nombre de la evaluación es requerido")
	}
	if d.Period == 0 {
		return errors.New("Debe seleccionar un período académico")
	}
	if d.TypeSurvey == 0 {
		return errors.New("Debe seleccionar un tipo de encuesta")
	}
	if d.StartDate.IsZero() || d.FinishDate.IsZero() {
		return errors.New("Debe indicar las fechas de inicio y finalización")
	}
	if d.FinishDate.Before(d.StartDate) {
		return errors.New("La fecha de finalización no puede ser anterior a la de inicio")
	}
	if d.AlertValue < 0 {
		return errors.New("El valor de la alerta no puede ser negativo")
	}
	return nil
}

// Payload builds the submission body. Dates go back out at calendar-day
// granularity; the retained id never travels in the body.
func (d *EvaluationDraft) Payload() models.EvaluationPayload {
	p := models.EvaluationPayload{
		Name:       d.Name,
		Period:     d.Period,
		ProgramIDs: d.Programs(),
		StartDate:  d.StartDate.Format(dateLayout),
		FinishDate: d.FinishDate.Format(dateLayout),
		AlertValue: d.AlertValue,
		AlertUnit:  d.AlertUnit,
		AlertWhen:  d.AlertWhen,
	}
	if d.PracticeType != 0 {
		v := d.PracticeType
		p.PracticeType = &v
	}
	if d.TypeSurvey != 0 {
		v := d.TypeSurvey
		p.TypeSurvey = &v
	}
	return p
}

// Key identifies the draft for single-flight submission purposes.
func (d *EvaluationDraft) Key() string {
	if d.mode == ModeEdit {
		return fmt.Sprintf("evaluation:%d", d.id)
	}
	return "evaluation:new"
}

func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate narrows a wire date to calendar-day granularity, accepting both
// plain dates and full backend timestamps.
func ParseDate(s string) time.Time { return parseDay(s) }

// parseDay accepts both plain dates and full backend timestamps.
func parseDay(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return day(t)
	}
	return time.Time{}
}
