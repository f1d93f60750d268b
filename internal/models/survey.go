package models

type QuestionType string

const (
	QuestionText     QuestionType = "text"
	QuestionTextarea QuestionType = "textarea"
	QuestionChoice   QuestionType = "multiple_choice"
	QuestionCheckbox QuestionType = "checkbox"
	QuestionScale    QuestionType = "scale"
	QuestionDate     QuestionType = "date"
	QuestionNumber   QuestionType = "number"
)

// HasOptions reports whether the type carries an option list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionChoice || t == QuestionCheckbox
}

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type ScaleLabels struct {
	MinLabel string `json:"min_label"`
	MaxLabel string `json:"max_label"`
}

// Question belongs to exactly one respondent-role list. Order is 1-based and
// contiguous within that list.
type Question struct {
	Type        QuestionType `json:"type"`
	Prompt      string       `json:"question"`
	Required    bool         `json:"required"`
	Order       int          `json:"order"`
	Options     []Option     `json:"options,omitempty"`
	ScaleMin    int          `json:"scale_min,omitempty"`
	ScaleMax    int          `json:"scale_max,omitempty"`
	ScaleLabels *ScaleLabels `json:"scale_labels,omitempty"`
}

type QuestionForm struct {
	Questions []Question `json:"questions"`
}

// Survey is a named pair of independent question sets, one per role.
type Survey struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	SurveyType  string        `json:"survey_type"`
	StudentForm *QuestionForm `json:"student_form"`
	TutorForm   *QuestionForm `json:"tutor_form"`
}

// SurveyPayload is the body for POST/PUT /surveys.
type SurveyPayload struct {
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	SurveyType       string     `json:"survey_type"`
	StudentQuestions []Question `json:"student_questions"`
	TutorQuestions   []Question `json:"tutor_questions"`
}
