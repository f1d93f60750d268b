// Package submit drives the multi-stage feedback sequence around a draft
// submission: one backend call, then a fixed run of user-facing progress
// stages standing in for server-side work that exposes no progress events.
package submit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/draft"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/metrics"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSubmitting
	PhaseSuccess
	PhaseFailure
)

// State is what the view renders. Stages advance strictly forward and never
// roll back; the terminal phase is Success or Failure.
type State struct {
	Phase   Phase
	Stage   string
	Message string
	Details []string
}

// Observer receives every state transition of one run.
type Observer func(State)

// Call is the single backend call a run wraps.
type Call func(ctx context.Context) error

// Dweller is the replaceable stand-in for backend progress events. Production
// sleeps a fixed dwell per stage; tests pass NopDweller. If the backend ever
// exposes real progress this is the seam to swap.
type Dweller interface {
	Dwell(ctx context.Context, d time.Duration)
}

type SleepDweller struct{}

func (SleepDweller) Dwell(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

type NopDweller struct{}

func (NopDweller) Dwell(context.Context, time.Duration) {}

var ErrInFlight = errors.New("Ya hay un envío en curso para este borrador")

// Plan names what one run says to the user.
type Plan struct {
	Key      string   // single-flight key
	Saving   string   // stage shown while the call is outstanding
	Stages   []string // post-call dwelled stages
	Success  string
	Fallback string // failure message when the backend supplied none
}

// EvaluationPlan phrases a create/update/duplicate evaluation run.
func EvaluationPlan(mode draft.Mode, key string) Plan {
	p := Plan{
		Key:    key,
		Saving: "Guardando información...",
		Stages: []string{
			"Calculando totales de estudiantes y jefes...",
			"Generando links de acceso únicos...",
			"Finalizando...",
		},
	}
	switch mode {
	case draft.ModeEdit:
		p.Success = "Evaluación actualizada correctamente"
		p.Fallback = "No se pudo actualizar la evaluación"
	case draft.ModeDuplicate:
		p.Success = "Evaluación duplicada y creada correctamente"
		p.Fallback = "No se pudo crear la evaluación"
	default:
		p.Success = "Evaluación creada correctamente"
		p.Fallback = "No se pudo crear la evaluación"
	}
	return p
}

// SurveyPlan phrases a create/update form run; no token work happens for
// surveys, so there are no extra stages.
func SurveyPlan(mode draft.Mode, key string) Plan {
	p := Plan{Key: key, Saving: "Guardando formulario..."}
	if mode == draft.ModeEdit {
		p.Success = "Formulario actualizado exitosamente"
		p.Fallback = "No se pudo actualizar el formulario"
	} else {
		p.Success = "Formulario creado exitosamente"
		p.Fallback = "No se pudo crear el formulario"
	}
	return p
}

// StatusPlan phrases a row-level status change. Moving to SENT inserts the
// email-dispatch stage before completing.
func StatusPlan(id string, newStatus models.EvaluationStatus) Plan {
	p := Plan{
		Key:      "status:" + id,
		Saving:   "Actualizando estado de la evaluación...",
		Fallback: "No se pudo actualizar el estado de la evaluación",
		Success:  "Estado de la evaluación actualizado correctamente",
	}
	if newStatus == models.StatusSent {
		p.Stages = []string{"Enviando correos..."}
		p.Success = "Estado actualizado correctamente. Los correos se están enviando."
	}
	return p
}

// Orchestrator runs submission plans. One run per key at a time; the caller
// keeps the submit control disabled while its run is in flight.
type Orchestrator struct {
	log     *zap.SugaredLogger
	dweller Dweller
	dwell   time.Duration
	clear   time.Duration

	mu      sync.Mutex
	pending map[string]struct{}
}

func New(log *zap.SugaredLogger, dweller Dweller, dwell, clear time.Duration) *Orchestrator {
	return &Orchestrator{
		log:     log,
		dweller: dweller,
		dwell:   dwell,
		clear:   clear,
		pending: make(map[string]struct{}),
	}
}

// InFlight reports whether a run holds the key right now.
func (o *Orchestrator) InFlight(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.pending[key]
	return ok
}

// Run executes one submission: enter Submitting immediately, issue the call,
// then walk the fixed stage sequence. Any rejection short-circuits to Failure
// with the backend's detail and advances no further stages. A nil return
// means the run reached Success and, after the clear delay, went back to
// Idle — the signal to navigate away.
func (o *Orchestrator) Run(ctx context.Context, plan Plan, call Call, notify Observer) error {
	if notify == nil {
		notify = func(State) {}
	}
	if !o.begin(plan.Key) {
		return ErrInFlight
	}
	defer o.end(plan.Key)

	notify(State{Phase: PhaseSubmitting, Stage: plan.Saving})
	if err := call(ctx); err != nil {
		metrics.Submissions.WithLabelValues("failure").Inc()
		o.log.Warnw("envío rechazado", "key", plan.Key, "err", err)
		notify(State{
			Phase:   PhaseFailure,
			Message: api.Message(err, plan.Fallback),
			Details: api.Details(err),
		})
		return err
	}

	for _, stage := range plan.Stages {
		notify(State{Phase: PhaseSubmitting, Stage: stage})
		o.dweller.Dwell(ctx, o.dwell)
	}

	metrics.Submissions.WithLabelValues("success").Inc()
	notify(State{Phase: PhaseSuccess, Message: plan.Success})

	// Success clears itself; Failure waits for an explicit dismissal.
	o.dweller.Dwell(ctx, o.clear)
	notify(State{Phase: PhaseIdle})
	return nil
}

func (o *Orchestrator) begin(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.pending[key]; ok {
		return false
	}
	o.pending[key] = struct{}{}
	return true
}

func (o *Orchestrator) end(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.pending, key)
}
