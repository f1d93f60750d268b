package app

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/metrics"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/respond"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/submit"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody matches the shape the backend itself uses, so the two error
// sources look the same to the caller.
type errorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string, details []string) {
	metrics.HandlerErrors.Inc()
	writeJSON(w, status, errorBody{Error: msg, Details: details})
}

func readJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	return json.NewDecoder(r.Body).Decode(v)
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// stageRecorder collects the orchestrator's transitions so the response can
// replay the full progress sequence.
type stageRecorder struct {
	mu     sync.Mutex
	stages []string
	final  submit.State
}

func (rec *stageRecorder) observe(st submit.State) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if st.Phase == submit.PhaseSubmitting {
		rec.stages = append(rec.stages, st.Stage)
		return
	}
	if st.Phase != submit.PhaseIdle {
		rec.final = st
	}
}

type submitResponse struct {
	Stages   []string `json:"stages"`
	Message  string   `json:"message"`
	Navigate string   `json:"navigate,omitempty"`
}

// flowRegistry keeps one respondent flow per token so the one-shot guard
// holds across requests. Completed flows are evicted; only the token
// survives as a tombstone, so a resubmit is still rejected without holding
// the whole flow in memory.
type flowRegistry struct {
	mu    sync.Mutex
	flows map[string]*respond.Flow
	done  map[string]struct{}
}

func newFlowRegistry() *flowRegistry {
	return &flowRegistry{
		flows: make(map[string]*respond.Flow),
		done:  make(map[string]struct{}),
	}
}

func (fr *flowRegistry) get(token string, make func() *respond.Flow) *respond.Flow {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	if f, ok := fr.flows[token]; ok {
		return f
	}
	f := make()
	fr.flows[token] = f
	return f
}

func (fr *flowRegistry) finished(token string) bool {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	_, ok := fr.done[token]
	return ok
}

func (fr *flowRegistry) finish(token string) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	delete(fr.flows, token)
	fr.done[token] = struct{}{}
}
