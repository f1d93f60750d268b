package models

// Status lifecycle of an evaluation as the backend exposes it.
type EvaluationStatus string

const (
	StatusCreated   EvaluationStatus = "CREATED"
	StatusSent      EvaluationStatus = "SENT"
	StatusFinalized EvaluationStatus = "FINALIZED"
	StatusCancelled EvaluationStatus = "CANCELLED"
)

// StatusOptions is the discrete progression offered in the listing menu.
var StatusOptions = []EvaluationStatus{StatusCreated, StatusSent, StatusFinalized}

type AlertUnit string

const (
	AlertDays   AlertUnit = "DAYS"
	AlertWeeks  AlertUnit = "WEEKS"
	AlertMonths AlertUnit = "MONTHS"
)

type AlertWhen string

const (
	AfterStartPractice AlertWhen = "AFTER_START_PRACTICE"
	BeforeEndPractice  AlertWhen = "BEFORE_END_PRACTICE"
)

// Evaluation is the campaign record returned by GET /evaluations.
// Dates travel as backend timestamps; the draft layer narrows them to
// calendar days.
type Evaluation struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	Period       int64            `json:"period"`
	PracticeType *int64           `json:"practice_type"`
	TypeSurvey   *int64           `json:"type_survey"`
	ProgramIDs   []int64          `json:"program_faculty_ids"`
	StartDate    string           `json:"start_date"`
	FinishDate   string           `json:"finish_date"`
	AlertValue   int              `json:"alert_value"`
	AlertUnit    AlertUnit        `json:"alert_unit"`
	AlertWhen    AlertWhen        `json:"alert_when"`
	Status       EvaluationStatus `json:"status"`
}

// EvaluationPayload is the body for POST/PUT /evaluations.
type EvaluationPayload struct {
	Name         string    `json:"name"`
	Period       int64     `json:"period"`
	PracticeType *int64    `json:"practice_type"`
	TypeSurvey   *int64    `json:"type_survey"`
	ProgramIDs   []int64   `json:"program_faculty_ids"`
	StartDate    string    `json:"start_date"`
	FinishDate   string    `json:"finish_date"`
	AlertValue   int       `json:"alert_value"`
	AlertUnit    AlertUnit `json:"alert_unit"`
	AlertWhen    AlertWhen `json:"alert_when"`
}

type Pagination struct {
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
}

type EvaluationPage struct {
	Data       []Evaluation `json:"data"`
	Pagination Pagination   `json:"pagination"`
}
