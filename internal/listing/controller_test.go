package listing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/submit"
)

type fakeBackend struct {
	mu       sync.Mutex
	calls    []api.ListParams
	pages    map[string]models.EvaluationPage // keyed by search text
	fallback models.EvaluationPage
	listGate chan struct{} // when set, ListEvaluations blocks until closed

	statusErr   error
	statusCalls int

	details models.MongoDetails

	sendCalls [][]models.ShouldSendChange
}

func (f *fakeBackend) ListEvaluations(ctx context.Context, p api.ListParams) (models.EvaluationPage, error) {
	if err := ctx.Err(); err != nil {
		return models.EvaluationPage{}, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, p)
	gate := f.listGate
	page, ok := f.pages[p.Search]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if ok {
		return page, nil
	}
	return f.fallback, nil
}

func (f *fakeBackend) UpdateEvaluationStatus(context.Context, int64, models.EvaluationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	return f.statusErr
}

func (f *fakeBackend) MongoDetails(context.Context, int64) (models.MongoDetails, error) {
	return f.details, nil
}

func (f *fakeBackend) UpdateShouldSend(_ context.Context, _ int64, changes []models.ShouldSendChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendCalls = append(f.sendCalls, changes)
	return nil
}

func (f *fakeBackend) listCalls() []api.ListParams {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]api.ListParams(nil), f.calls...)
}

func pageOf(ids ...int64) models.EvaluationPage {
	var p models.EvaluationPage
	for _, id := range ids {
		p.Data = append(p.Data, models.Evaluation{ID: id, Status: models.StatusCreated})
	}
	p.Pagination.Total = len(ids)
	p.Pagination.TotalPages = 1
	return p
}

func newTestController(b Backend, debounce time.Duration) *Controller {
	return New(b, zap.NewNop().Sugar(), debounce)
}

func TestSearchDebounce(t *testing.T) {
	fb := &fakeBackend{fallback: pageOf(1)}
	c := newTestController(fb, 30*time.Millisecond)
	ctx := context.Background()

	// tres pulsaciones dentro de la ventana: una sola consulta con el texto final
	c.SetSearchInput(ctx, "a")
	time.Sleep(5 * time.Millisecond)
	c.SetSearchInput(ctx, "ab")
	time.Sleep(5 * time.Millisecond)
	_ = c.SetPage(ctx, 3)
	c.SetSearchInput(ctx, "abc")

	time.Sleep(80 * time.Millisecond)

	var searches []string
	for _, p := range fb.listCalls() {
		if p.Search != "" {
			searches = append(searches, p.Search)
		}
	}
	if len(searches) != 1 || searches[0] != "abc" {
		t.Fatalf("esperaba una sola consulta con el texto final, obtuve %v", searches)
	}
	if c.Page() != 1 {
		t.Fatalf("la búsqueda debe volver a la página 1, quedó en %d", c.Page())
	}
	if c.SearchInput() != "abc" || c.Search() != "abc" {
		t.Fatalf("texto inconsistente: input=%q efectivo=%q", c.SearchInput(), c.Search())
	}
}

func TestSearchSurvivesCallerCancel(t *testing.T) {
	fb := &fakeBackend{pages: map[string]models.EvaluationPage{"abc": pageOf(8)}}
	c := newTestController(fb, 20*time.Millisecond)

	// the caller's context dies before the quiet period ends, like a request
	// handler returning; the deferred query must still run
	ctx, cancel := context.WithCancel(context.Background())
	c.SetSearchInput(ctx, "abc")
	cancel()

	time.Sleep(80 * time.Millisecond)

	rows := c.Rows()
	if len(rows) != 1 || rows[0].ID != 8 {
		t.Fatalf("la consulta diferida no debe morir con el contexto del llamador: %+v", rows)
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	gate := make(chan struct{})
	fb := &fakeBackend{
		fallback: pageOf(99),
		pages: map[string]models.EvaluationPage{
			"vieja": pageOf(1, 2),
			"nueva": pageOf(3),
		},
		listGate: gate,
	}
	c := newTestController(fb, time.Millisecond)
	ctx := context.Background()

	// la primera consulta queda en vuelo, bloqueada en el gate
	done := make(chan struct{})
	c.mu.Lock()
	c.search = "vieja"
	c.mu.Unlock()
	go func() {
		_ = c.Refresh(ctx)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)

	// una segunda consulta la supera y resuelve primero
	fb.mu.Lock()
	fb.listGate = nil
	fb.mu.Unlock()
	c.mu.Lock()
	c.search = "nueva"
	c.mu.Unlock()
	if err := c.Refresh(ctx); err != nil {
		t.Fatal(err)
	}

	close(gate)
	<-done

	rows := c.Rows()
	if len(rows) != 1 || rows[0].ID != 3 {
		t.Fatalf("la respuesta obsoleta no debe pisar la fresca: %+v", rows)
	}
}

func TestFiltersResetPage(t *testing.T) {
	fb := &fakeBackend{fallback: pageOf(1)}
	c := newTestController(fb, time.Millisecond)
	ctx := context.Background()

	cases := []struct {
		name  string
		apply func() error
	}{
		{"period", func() error { return c.SetPeriodFilter(ctx, 7) }},
		{"survey_type", func() error { return c.SetSurveyTypeFilter(ctx, 2) }},
		{"page_size", func() error { return c.SetPageSize(ctx, 25) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := c.SetPage(ctx, 4); err != nil {
				t.Fatal(err)
			}
			if err := tc.apply(); err != nil {
				t.Fatal(err)
			}
			if c.Page() != 1 {
				t.Fatalf("el cambio de filtro debe volver a la página 1, quedó en %d", c.Page())
			}
		})
	}

	t.Run("invalid_page_size", func(t *testing.T) {
		if err := c.SetPageSize(ctx, 17); err == nil {
			t.Fatal("17 no es un tamaño permitido")
		}
	})
}

func TestSelectionPruned(t *testing.T) {
	fb := &fakeBackend{fallback: pageOf(1, 2, 3)}
	c := newTestController(fb, time.Millisecond)
	ctx := context.Background()

	if err := c.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	c.SelectAll()
	if got := c.Selected(); len(got) != 3 {
		t.Fatalf("esperaba 3 seleccionadas, obtuve %v", got)
	}

	fb.mu.Lock()
	fb.fallback = pageOf(2)
	fb.mu.Unlock()
	if err := c.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	got := c.Selected()
	if len(got) != 1 || got[0] != 2 {
		t.Fatalf("la selección debe quedar sólo con filas visibles: %v", got)
	}

	c.ToggleRow(2)
	if len(c.Selected()) != 0 {
		t.Fatal("toggle debe deseleccionar")
	}
	c.SelectNone()
}

func TestChangeStatus(t *testing.T) {
	orch := submit.New(zap.NewNop().Sugar(), submit.NopDweller{}, time.Millisecond, time.Millisecond)
	ctx := context.Background()

	t.Run("same_status_is_noop", func(t *testing.T) {
		fb := &fakeBackend{fallback: pageOf(1)}
		c := newTestController(fb, time.Millisecond)
		if err := c.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
		if err := c.ChangeStatus(ctx, orch, 1, models.StatusCreated, nil); err != nil {
			t.Fatal(err)
		}
		if fb.statusCalls != 0 {
			t.Fatal("seleccionar el estado actual no debe llamar al backend")
		}
	})

	t.Run("row_updates_after_backend_ok", func(t *testing.T) {
		fb := &fakeBackend{fallback: pageOf(1)}
		c := newTestController(fb, time.Millisecond)
		if err := c.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
		if err := c.ChangeStatus(ctx, orch, 1, models.StatusSent, nil); err != nil {
			t.Fatal(err)
		}
		if c.Rows()[0].Status != models.StatusSent {
			t.Fatal("la fila debe reflejar el nuevo estado")
		}
	})

	t.Run("no_optimistic_update", func(t *testing.T) {
		fb := &fakeBackend{fallback: pageOf(1), statusErr: errors.New("boom")}
		c := newTestController(fb, time.Millisecond)
		if err := c.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
		if err := c.ChangeStatus(ctx, orch, 1, models.StatusSent, nil); err == nil {
			t.Fatal("esperaba el error del backend")
		}
		if c.Rows()[0].Status != models.StatusCreated {
			t.Fatal("ante un rechazo la fila no debe cambiar")
		}
	})

	t.Run("unknown_row", func(t *testing.T) {
		fb := &fakeBackend{fallback: pageOf(1)}
		c := newTestController(fb, time.Millisecond)
		if err := c.Refresh(ctx); err != nil {
			t.Fatal(err)
		}
		if err := c.ChangeStatus(ctx, orch, 42, models.StatusSent, nil); err == nil {
			t.Fatal("una fila ausente debe rechazarse")
		}
	})
}

func TestShouldSendBuffer(t *testing.T) {
	ctx := context.Background()
	det := models.MongoDetails{
		EvaluationID: 5,
		StudentEmails: []models.TokenEmail{
			{LegalizationID: 10, ShouldSend: true},
			{LegalizationID: 11, ShouldSend: true},
		},
		BossEmails: []models.TokenEmail{
			{LegalizationID: 10, ShouldSend: false},
		},
	}

	t.Run("pending_wins_over_stored", func(t *testing.T) {
		fb := &fakeBackend{details: det}
		c := newTestController(fb, time.Millisecond)
		if _, err := c.LoadDetails(ctx, 5); err != nil {
			t.Fatal(err)
		}
		c.SetShouldSend(models.RoleStudent, 10, false)
		if c.ShouldSendValue(models.RoleStudent, 10, true) {
			t.Fatal("el valor pendiente debe ganar")
		}
		// mismo legalization_id en otro rol no se ve afectado
		if c.ShouldSendValue(models.RoleBoss, 10, false) {
			t.Fatal("el buffer se indexa por rol y legalización")
		}
		if c.PendingSendCount() != 1 {
			t.Fatalf("esperaba 1 pendiente, hay %d", c.PendingSendCount())
		}
	})

	t.Run("save_commits_only_buffered", func(t *testing.T) {
		fb := &fakeBackend{details: det}
		c := newTestController(fb, time.Millisecond)
		if _, err := c.LoadDetails(ctx, 5); err != nil {
			t.Fatal(err)
		}
		c.SetShouldSend(models.RoleStudent, 10, false)
		c.SetShouldSend(models.RoleBoss, 10, true)
		if err := c.SaveShouldSend(ctx); err != nil {
			t.Fatal(err)
		}
		if len(fb.sendCalls) != 1 || len(fb.sendCalls[0]) != 2 {
			t.Fatalf("esperaba un solo envío con 2 cambios: %v", fb.sendCalls)
		}
		if c.PendingSendCount() != 0 {
			t.Fatal("guardar debe vaciar el buffer")
		}
		// sin pendientes, no hay segundo viaje
		if err := c.SaveShouldSend(ctx); err != nil {
			t.Fatal(err)
		}
		if len(fb.sendCalls) != 1 {
			t.Fatal("un guardado sin cambios no debe llamar al backend")
		}
	})

	t.Run("reload_resets_buffer", func(t *testing.T) {
		fb := &fakeBackend{details: det}
		c := newTestController(fb, time.Millisecond)
		if _, err := c.LoadDetails(ctx, 5); err != nil {
			t.Fatal(err)
		}
		c.SetShouldSend(models.RoleStudent, 11, false)
		if _, err := c.LoadDetails(ctx, 5); err != nil {
			t.Fatal(err)
		}
		if c.PendingSendCount() != 0 {
			t.Fatal("recargar el detalle debe descartar los toggles pendientes")
		}
	})

	t.Run("save_without_details", func(t *testing.T) {
		fb := &fakeBackend{}
		c := newTestController(fb, time.Millisecond)
		if err := c.SaveShouldSend(ctx); err == nil {
			t.Fatal("guardar sin detalle cargado debe fallar")
		}
	})
}
