package app

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/respond"
)

// handleRespondGet resolves a respondent token. The route is deliberately
// outside the session guard: respondents are external and unauthenticated.
func (s *Server) handleRespondGet(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if s.flows.finished(token) {
		writeJSON(w, http.StatusOK, map[string]any{
			"done":    true,
			"message": "Evaluación enviada correctamente. Gracias por tu participación.",
		})
		return
	}
	flow := s.flows.get(token, func() *respond.Flow {
		return respond.New(s.api, token)
	})
	if err := flow.Load(r.Context()); err != nil {
		s.fail(w, http.StatusNotFound, err.Error(), nil)
		return
	}
	data, _ := flow.Data()
	writeJSON(w, http.StatusOK, map[string]any{"done": false, "evaluation": data.Evaluation, "questions": data.Questions})
}

func (s *Server) handleRespondSubmit(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var body struct {
		Answers map[string]any `json:"answers"`
	}
	if err := readJSON(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}
	if s.flows.finished(token) {
		s.fail(w, http.StatusConflict, respond.ErrAlreadySubmitted.Error(), nil)
		return
	}
	flow := s.flows.get(token, func() *respond.Flow {
		return respond.New(s.api, token)
	})
	if _, ok := flow.Data(); !ok {
		if err := flow.Load(r.Context()); err != nil {
			s.fail(w, http.StatusNotFound, err.Error(), nil)
			return
		}
	}
	for id, v := range body.Answers {
		flow.SetAnswer(id, v)
	}
	if err := flow.Submit(r.Context()); err != nil {
		if errors.Is(err, respond.ErrAlreadySubmitted) {
			s.fail(w, http.StatusConflict, err.Error(), nil)
			return
		}
		s.fail(w, http.StatusBadGateway, err.Error(), nil)
		return
	}
	s.flows.finish(token)
	writeJSON(w, http.StatusOK, map[string]any{
		"done":    true,
		"message": "Evaluación enviada correctamente. Gracias por tu participación.",
	})
}
