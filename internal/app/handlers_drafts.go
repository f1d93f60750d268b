package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/draft"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/submit"
)

// evaluationRequest is the editable field set of the evaluation form.
type evaluationRequest struct {
	Name         string           `json:"name"`
	Period       int64            `json:"period"`
	PracticeType int64            `json:"practice_type"`
	TypeSurvey   int64            `json:"type_survey"`
	ProgramIDs   []int64          `json:"program_faculty_ids"`
	StartDate    string           `json:"start_date"`
	FinishDate   string           `json:"finish_date"`
	AlertValue   int              `json:"alert_value"`
	AlertUnit    models.AlertUnit `json:"alert_unit"`
	AlertWhen    models.AlertWhen `json:"alert_when"`
}

// apply copies the request onto the draft. Programs go through the toggle
// set, so duplicated ids in the request collapse instead of accumulating.
func (req evaluationRequest) apply(d *draft.EvaluationDraft) {
	d.Name = req.Name
	d.Period = req.Period
	d.PracticeType = req.PracticeType
	d.TypeSurvey = req.TypeSurvey
	for _, id := range d.Programs() {
		d.RemoveProgram(id)
	}
	for _, id := range req.ProgramIDs {
		if !d.HasProgram(id) {
			d.ToggleProgram(id)
		}
	}
	d.SetDates(draft.ParseDate(req.StartDate), draft.ParseDate(req.FinishDate))
	d.AlertValue = req.AlertValue
	if req.AlertUnit != "" {
		d.AlertUnit = req.AlertUnit
	}
	if req.AlertWhen != "" {
		d.AlertWhen = req.AlertWhen
	}
}

type evaluationView struct {
	Mode       string                            `json:"mode"`
	Draft      evaluationRequest                 `json:"draft"`
	Selected   []models.ReferenceItem            `json:"selected_programs"`
	Candidates []models.ReferenceItem            `json:"available_programs"`
	Refdata    map[string][]models.ReferenceItem `json:"refdata"`
}

func (s *Server) evaluationView(d *draft.EvaluationDraft) evaluationView {
	req := evaluationRequest{
		Name:         d.Name,
		Period:       d.Period,
		PracticeType: d.PracticeType,
		TypeSurvey:   d.TypeSurvey,
		ProgramIDs:   d.Programs(),
		AlertValue:   d.AlertValue,
		AlertUnit:    d.AlertUnit,
		AlertWhen:    d.AlertWhen,
	}
	if !d.StartDate.IsZero() {
		req.StartDate = d.StartDate.Format("2006-01-02")
	}
	if !d.FinishDate.IsZero() {
		req.FinishDate = d.FinishDate.Format("2006-01-02")
	}
	programs := s.refdata.Programs()
	return evaluationView{
		Mode:       d.Mode().String(),
		Draft:      req,
		Selected:   d.SelectedPrograms(programs),
		Candidates: d.AvailablePrograms(programs),
		Refdata: map[string][]models.ReferenceItem{
			"periodos":       s.refdata.Periods(),
			"tipos_practica": s.refdata.PracticeTypes(),
			"tipos_encuesta": s.refdata.SurveyTypes(),
			"programas":      programs,
		},
	}
}

func (s *Server) handleEvaluationBlank(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.evaluationView(draft.NewEvaluationDraft()))
}

func (s *Server) handleEvaluationLoad(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	ev, err := s.api.GetEvaluation(r.Context(), id)
	if err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudo cargar la evaluación para edición"), api.Details(err))
		return
	}
	writeJSON(w, http.StatusOK, s.evaluationView(draft.LoadEvaluation(ev)))
}

func (s *Server) handleEvaluationCreate(w http.ResponseWriter, r *http.Request) {
	s.submitEvaluation(w, r, draft.NewEvaluationDraft())
}

func (s *Server) handleEvaluationUpdate(w http.ResponseWriter, r *http.Request) {
	d, ok := s.loadEvaluationDraft(w, r)
	if !ok {
		return
	}
	s.submitEvaluation(w, r, d)
}

// handleEvaluationDuplicate runs the explicit EDIT→DUPLICATE transition and
// then submits: the backend identity is dropped and a create is issued.
func (s *Server) handleEvaluationDuplicate(w http.ResponseWriter, r *http.Request) {
	d, ok := s.loadEvaluationDraft(w, r)
	if !ok {
		return
	}
	if err := d.Duplicate(); err != nil {
		s.fail(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	s.submitEvaluation(w, r, d)
}

func (s *Server) loadEvaluationDraft(w http.ResponseWriter, r *http.Request) (*draft.EvaluationDraft, bool) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return nil, false
	}
	ev, err := s.api.GetEvaluation(r.Context(), id)
	if err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudo cargar la evaluación para edición"), api.Details(err))
		return nil, false
	}
	return draft.LoadEvaluation(ev), true
}

// submitEvaluation is the shared tail of create/update/duplicate: apply the
// request to the draft, validate locally, then hand the payload to the
// orchestrator. Validation failures never reach the backend.
func (s *Server) submitEvaluation(w http.ResponseWriter, r *http.Request, d *draft.EvaluationDraft) {
	var req evaluationRequest
	if err := readJSON(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}
	// The duplicate transition already renamed the draft; keep that name
	// unless the caller edited it afterwards.
	if d.Mode() == draft.ModeDuplicate && req.Name == "" {
		req.Name = d.Name
	}
	req.apply(d)

	if err := d.Validate(); err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	plan := submit.EvaluationPlan(d.Mode(), d.Key())
	payload := d.Payload()
	rec := &stageRecorder{}
	err := s.orch.Run(r.Context(), plan, func(ctx context.Context) error {
		if d.IsUpdate() {
			_, err := s.api.UpdateEvaluation(ctx, d.ID(), payload)
			return err
		}
		_, err := s.api.CreateEvaluation(ctx, payload)
		return err
	}, rec.observe)
	if errors.Is(err, submit.ErrInFlight) {
		s.fail(w, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		s.fail(w, http.StatusBadGateway, rec.final.Message, rec.final.Details)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Stages:   rec.stages,
		Message:  rec.final.Message,
		Navigate: "/dashboard",
	})
}

// formRequest is the editable field set of the survey form.
type formRequest struct {
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	StudentQuestions []models.Question `json:"student_questions"`
	TutorQuestions   []models.Question `json:"tutor_questions"`
}

type formView struct {
	Mode             string            `json:"mode"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	StudentQuestions []models.Question `json:"student_questions"`
	TutorQuestions   []models.Question `json:"tutor_questions"`
}

func newFormView(d *draft.FormDraft) formView {
	student, _ := d.List(models.RoleStudent)
	tutor, _ := d.List(models.RoleTutor)
	return formView{
		Mode:             d.Mode().String(),
		Name:             d.Name,
		Description:      d.Description,
		StudentQuestions: student.Questions(),
		TutorQuestions:   tutor.Questions(),
	}
}

func (s *Server) handleFormBlank(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newFormView(draft.NewFormDraft()))
}

func (s *Server) handleFormLoad(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	sv, err := s.api.GetSurvey(r.Context(), id)
	if err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudo cargar el formulario"), api.Details(err))
		return
	}
	writeJSON(w, http.StatusOK, newFormView(draft.LoadSurvey(sv)))
}

func (s *Server) handleFormCreate(w http.ResponseWriter, r *http.Request) {
	s.submitForm(w, r, draft.NewFormDraft())
}

func (s *Server) handleFormUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		s.fail(w, http.StatusBadRequest, "identificador inválido", nil)
		return
	}
	sv, err := s.api.GetSurvey(r.Context(), id)
	if err != nil {
		s.fail(w, http.StatusBadGateway, api.Message(err, "No se pudo cargar el formulario"), api.Details(err))
		return
	}
	s.submitForm(w, r, draft.LoadSurvey(sv))
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request, d *draft.FormDraft) {
	var req formRequest
	if err := readJSON(r, &req); err != nil {
		s.fail(w, http.StatusBadRequest, "cuerpo inválido", nil)
		return
	}
	d.Name = req.Name
	d.Description = req.Description
	_ = d.ReplaceQuestions(models.RoleStudent, req.StudentQuestions)
	_ = d.ReplaceQuestions(models.RoleTutor, req.TutorQuestions)

	if err := d.Validate(); err != nil {
		s.fail(w, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	plan := submit.SurveyPlan(d.Mode(), d.Key())
	payload := d.Payload()
	rec := &stageRecorder{}
	err := s.orch.Run(r.Context(), plan, func(ctx context.Context) error {
		if d.IsUpdate() {
			_, err := s.api.UpdateSurvey(ctx, d.ID(), payload)
			return err
		}
		_, err := s.api.CreateSurvey(ctx, payload)
		return err
	}, rec.observe)
	if errors.Is(err, submit.ErrInFlight) {
		s.fail(w, http.StatusConflict, err.Error(), nil)
		return
	}
	if err != nil {
		s.fail(w, http.StatusBadGateway, rec.final.Message, rec.final.Details)
		return
	}

	student, _ := d.List(models.RoleStudent)
	tutor, _ := d.List(models.RoleTutor)
	writeJSON(w, http.StatusOK, submitResponse{
		Stages:   rec.stages,
		Message:  rec.final.Message,
		Navigate: "/formularios",
	})
	s.log.Infow("formulario guardado",
		"student_questions", student.Len(), "tutor_questions", tutor.Len())
}
