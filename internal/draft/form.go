package draft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

// Distinct pre-submit rejections; each aborts before any network call.
var (
	ErrNameRequired  = errors.New("El nombre del formulario es requerido")
	ErrNoQuestions   = errors.New("Debe agregar al menos una pregunta en alguno de los formularios")
	ErrBlankQuestion = errors.New("Todas las preguntas deben tener un texto")
)

// FormDraft is the authoring state of one survey: a name, a description and
// one independent question list per respondent role.
type FormDraft struct {
	mode Mode
	id   int64

	Name        string
	Description string

	student *QuestionList
	tutor   *QuestionList
}

func NewFormDraft() *FormDraft {
	return &FormDraft{
		mode:    ModeCreate,
		student: NewQuestionList(models.RoleStudent),
		tutor:   NewQuestionList(models.RoleTutor),
	}
}

// LoadSurvey seeds an EDIT draft from a fetched survey.
func LoadSurvey(s models.Survey) *FormDraft {
	d := &FormDraft{
		mode:        ModeEdit,
		id:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		student:     NewQuestionList(models.RoleStudent),
		tutor:       NewQuestionList(models.RoleTutor),
	}
	if s.StudentForm != nil {
		d.student = loadQuestionList(models.RoleStudent, s.StudentForm.Questions)
	}
	if s.TutorForm != nil {
		d.tutor = loadQuestionList(models.RoleTutor, s.TutorForm.Questions)
	}
	return d
}

func (d *FormDraft) Mode() Mode { return d.mode }

func (d *FormDraft) ID() int64 { return d.id }

func (d *FormDraft) IsUpdate() bool { return d.mode == ModeEdit }

// List selects the question list for a respondent role. Both lists share one
// implementation, so their invariants cannot drift apart.
func (d *FormDraft) List(role models.ActorRole) (*QuestionList, error) {
	switch role {
	case models.RoleStudent:
		return d.student, nil
	case models.RoleTutor:
		return d.tutor, nil
	default:
		return nil, fmt.Errorf("rol sin formulario: %s", role)
	}
}

// ReplaceQuestions bulk-loads one role's list, re-deriving the order fields.
func (d *FormDraft) ReplaceQuestions(role models.ActorRole, qs []models.Question) error {
	switch role {
	case models.RoleStudent:
		d.student = loadQuestionList(models.RoleStudent, qs)
	case models.RoleTutor:
		d.tutor = loadQuestionList(models.RoleTutor, qs)
	default:
		return fmt.Errorf("rol sin formulario: %s", role)
	}
	return nil
}

func (d *FormDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrNameRequired
	}
	if d.student.Len() == 0 && d.tutor.Len() == 0 {
		return ErrNoQuestions
	}
	if d.student.hasBlankPrompt() || d.tutor.hasBlankPrompt() {
		return ErrBlankQuestion
	}
	return nil
}

func (d *FormDraft) Payload() models.SurveyPayload {
	return models.SurveyPayload{
		Name:             d.Name,
		Description:      d.Description,
		SurveyType:       "PRACTICE",
		StudentQuestions: d.student.payload(),
		TutorQuestions:   d.tutor.payload(),
	}
}

func (d *FormDraft) Key() string {
	if d.mode == ModeEdit {
		return fmt.Sprintf("survey:%d", d.id)
	}
	return "survey:new"
}
