package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/export"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/submit"
)

// handleDashboard maps the query string onto the listing controller. Filter
// and page-size changes apply immediately; search text goes through the
// debounce, so a burst of keystroke requests collapses into one backend
// query.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n != s.listing.PageSize() {
			if err := s.listing.SetPageSize(ctx, n); err != nil {
				s.fail(w, http.StatusBadRequest, err.Error(), nil)
				return
			}
		}
	}
	if v := q.Get("period"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id != s.listing.PeriodFilter() {
			_ = s.listing.SetPeriodFilter(ctx, id)
		}
	}
	if v := q.Get("type_survey"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id != s.listing.SurveyTypeFilter() {
			_ = s.listing.SetSurveyTypeFilter(ctx, id)
		}
	}
	if search := q.Get("search"); search != s.listing.SearchInput() {
		s.listing.SetSearchInput(ctx, search)
	}

	page := 1
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if err := s.listing.SetPage(ctx, page); err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudo cargar el listado"), api.Details(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": s.listing.Rows(),
		"pagination": models.Pagination{
			TotalPages: s.listing.TotalPages(),
			Total:      s.listing.Total(),
		},
		"filters": map[string]any{
			"periodos":       s.refdata.Periods(),
			"tipos_encuesta": s.refdata.SurveyTypes(),
		},
	})
}

func (s *Server) handleDashboardExport(w http.ResponseWriter, r *http.Request) {
	f, err := export.ListingWorkbook(s.listing.Rows())
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "No se pudo generar el archivo", nil)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluaciones.xlsx"`)
	_ = f.Write(w)
}

func (s *Server) handleStatusChange(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	var body struct {
		Status models.EvaluationStatus `json:"status"`
	}
	if err := readJSON(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}

	rec := &stageRecorder{}
	err := s.listing.ChangeStatus(r.Context(), s.orch, id, body.Status, rec.observe)
	if errors.Is(err, submit.ErrInFlight) {
		s.fail(w, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		// a rejection before the run starts leaves the recorder empty
		msg := rec.final.Message
		if msg == "" {
			msg = err.Error()
		}
		s.fail(w, http.StatusBadGateway, msg, rec.final.Details)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Stages: rec.stages, Message: rec.final.Message})
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	det, err := s.listing.LoadDetails(r.Context(), id)
	if err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudo cargar el detalle"), api.Details(err))
		return
	}
	writeJSON(w, http.StatusOK, det)
}

func (s *Server) handleShouldSend(w http.ResponseWriter, r *http.Request) {
	if _, ok := pathID(r); !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	var body struct {
		Changes []models.ShouldSendChange `json:"changes"`
	}
	if err := readJSON(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}
	for _, ch := range body.Changes {
		s.listing.SetShouldSend(ch.ActorType, ch.LegalizationID, ch.ShouldSend)
	}
	if err := s.listing.SaveShouldSend(r.Context()); err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudieron guardar los cambios"), api.Details(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cambios guardados correctamente"})
}

func (s *Server) handleResponseDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	leg, err := strconv.ParseInt(r.URL.Query().Get("legalization_id"), 10, 64)
	if err != nil {
		s.fail(w, http.StatusBadRequest, "legalization_id inválido", nil)
		return
	}
	actor := models.ActorRole(r.URL.Query().Get("actor_type"))
	det, err := s.api.EvaluationResponse(r.Context(), id, leg, actor)
	if err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudo cargar la respuesta"), api.Details(err))
		return
	}
	writeJSON(w, http.StatusOK, det)
}

func (s *Server) handleSurveys(w http.ResponseWriter, r *http.Request) {
	if err := s.surveys.Load(r.Context()); err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudieron cargar los formularios"), api.Details(err))
		return
	}
	writeJSON(w, http.StatusOK, s.surveys.Rows())
}

func (s *Server) handleSurveyDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	if err := s.surveys.Delete(r.Context(), id); err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudo eliminar el formulario"), api.Details(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Formulario eliminado correctamente"})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	res, err := s.api.Resultados(r.Context(), id)
	if err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudieron cargar los resultados"), api.Details(err))
		return
	}
	if r.URL.Query().Get("format") == "xlsx" {
		f, err := export.ResultsWorkbook(res)
		if err != nil {
			s.fail(w, http.StatusInternalServerError, "No se pudo generar el archivo", nil)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="resultados.xlsx"`)
		_ = f.Write(w)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
