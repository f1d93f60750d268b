package models

// TokenEmail is one recipient entry inside the evaluation's Mongo detail
// document, keyed by the legalization that ties the token to a participant.
type TokenEmail struct {
	LegalizationID int64  `json:"legalization_id"`
	Email          string `json:"email"`
	Token          string `json:"token"`
	ShouldSend     bool   `json:"should_send"`
	Answered       bool   `json:"answered"`
}

// MongoDetails is the per-evaluation document behind GET /evaluations/:id/mongo.
type MongoDetails struct {
	EvaluationID  int64        `json:"evaluation_id_mysql"`
	TotalStudents int          `json:"total_students"`
	TotalBosses   int          `json:"total_bosses"`
	StudentEmails []TokenEmail `json:"student_emails"`
	BossEmails    []TokenEmail `json:"boss_emails"`
	MonitorEmails []TokenEmail `json:"monitor_emails"`
}

// ShouldSendChange is one buffered recipient toggle; only changed entries are
// sent on save.
type ShouldSendChange struct {
	LegalizationID int64     `json:"legalization_id"`
	ActorType      ActorRole `json:"actor_type"`
	ShouldSend     bool      `json:"should_send"`
}

// RespondQuestion is a question as served to an unauthenticated respondent.
// Mongo ids are strings.
type RespondQuestion struct {
	ID          string       `json:"_id"`
	Type        QuestionType `json:"type"`
	Prompt      string       `json:"question"`
	Required    bool         `json:"required"`
	Order       int          `json:"order"`
	Options     []Option     `json:"options,omitempty"`
	ScaleMin    int          `json:"scale_min,omitempty"`
	ScaleMax    int          `json:"scale_max,omitempty"`
	ScaleLabels *ScaleLabels `json:"scale_labels,omitempty"`
}

// AccessTokenData is the resolution of a single-use respondent token.
type AccessTokenData struct {
	Evaluation struct {
		Name      string `json:"name"`
		ActorType string `json:"actor_type"`
	} `json:"evaluation"`
	Questions []RespondQuestion `json:"questions"`
}

// AnswerItem keeps the backend's Spanish wire names.
type AnswerItem struct {
	QuestionID string `json:"pregunta_id"`
	Answer     string `json:"respuesta"`
}

// ActorResults aggregates answers for one respondent role in the results view.
type ActorResults struct {
	Actor     ActorRole        `json:"actor"`
	Responses int              `json:"responses"`
	Questions []QuestionResult `json:"questions"`
}

type QuestionResult struct {
	Prompt  string   `json:"question"`
	Answers []string `json:"answers"`
	Average float64  `json:"average,omitempty"`
}

// ResultSummary is the body of GET /evaluations/:id/resultados.
type ResultSummary struct {
	Evaluation     Evaluation     `json:"evaluation"`
	TotalResponses int            `json:"total_responses"`
	ByActor        []ActorResults `json:"by_actor"`
}

// ResponseDetail is one participant's submitted answers.
type ResponseDetail struct {
	LegalizationID int64        `json:"legalization_id"`
	ActorType      ActorRole    `json:"actor_type"`
	Answers        []AnswerItem `json:"answers"`
}
