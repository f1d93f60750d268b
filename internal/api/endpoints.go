package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out)
	return out, err
}

func (c *Client) ChangePassword(ctx context.Context, current, newPassword string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := map[string]string{"current_password": current, "new_password": newPassword}
	err := c.do(ctx, http.MethodPut, "/auth/change-password", nil, body, &out)
	return out.Message, err
}

func (c *Client) Periodos(ctx context.Context) ([]models.ReferenceItem, error) {
	return c.reference(ctx, "/academics/periodos")
}

func (c *Client) TiposPractica(ctx context.Context) ([]models.ReferenceItem, error) {
	return c.reference(ctx, "/academics/tipos-practica")
}

func (c *Client) TiposEncuesta(ctx context.Context) ([]models.ReferenceItem, error) {
	return c.reference(ctx, "/academics/tipos-encuesta")
}

func (c *Client) Programas(ctx context.Context) ([]models.ReferenceItem, error) {
	return c.reference(ctx, "/academics/programas")
}

func (c *Client) reference(ctx context.Context, path string) ([]models.ReferenceItem, error) {
	var out []models.ReferenceItem
	err := c.do(ctx, http.MethodGet, path, nil, nil, &out)
	return out, err
}

// ListParams mirrors the query surface of GET /evaluations. Zero values mean
// "not filtered".
type ListParams struct {
	Page       int
	Limit      int
	Period     int64
	TypeSurvey int64
	Search     string
}

func (c *Client) ListEvaluations(ctx context.Context, p ListParams) (models.EvaluationPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Period != 0 {
		q.Set("period", strconv.FormatInt(p.Period, 10))
	}
	if p.TypeSurvey != 0 {
		q.Set("type_survey", strconv.FormatInt(p.TypeSurvey, 10))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	var out models.EvaluationPage
	err := c.do(ctx, http.MethodGet, "/evaluations", q, nil, &out)
	return out, err
}

func (c *Client) GetEvaluation(ctx context.Context, id int64) (models.Evaluation, error) {
	var out models.Evaluation
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/evaluations/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateEvaluation(ctx context.Context, p models.EvaluationPayload) (models.Evaluation, error) {
	var out models.Evaluation
	err := c.do(ctx, http.MethodPost, "/evaluations", nil, p, &out)
	return out, err
}

func (c *Client) UpdateEvaluation(ctx context.Context, id int64, p models.EvaluationPayload) (models.Evaluation, error) {
	var out models.Evaluation
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/evaluations/%d", id), nil, p, &out)
	return out, err
}

func (c *Client) UpdateEvaluationStatus(ctx context.Context, id int64, status models.EvaluationStatus) error {
	body := map[string]models.EvaluationStatus{"status": status}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/evaluations/%d", id), nil, body, nil)
}

func (c *Client) MongoDetails(ctx context.Context, id int64) (models.MongoDetails, error) {
	var out models.MongoDetails
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/evaluations/%d/mongo", id), nil, nil, &out)
	return out, err
}

func (c *Client) EvaluationResponse(ctx context.Context, id, legalizationID int64, actor models.ActorRole) (models.ResponseDetail, error) {
	q := url.Values{}
	q.Set("legalization_id", strconv.FormatInt(legalizationID, 10))
	q.Set("actor_type", string(actor))
	var out models.ResponseDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/evaluations/%d/response", id), q, nil, &out)
	return out, err
}

func (c *Client) UpdateShouldSend(ctx context.Context, id int64, changes []models.ShouldSendChange) error {
	body := map[string][]models.ShouldSendChange{"tokens": changes}
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/evaluations/%d/tokens/should-send", id), nil, body, nil)
}

func (c *Client) Resultados(ctx context.Context, id int64) (models.ResultSummary, error) {
	var out models.ResultSummary
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/evaluations/%d/resultados", id), nil, nil, &out)
	return out, err
}

func (c *Client) ResolveAccessToken(ctx context.Context, token string) (models.AccessTokenData, error) {
	var out models.AccessTokenData
	err := c.do(ctx, http.MethodGet, "/evaluations/access-token/"+url.PathEscape(token), nil, nil, &out)
	return out, err
}

func (c *Client) SubmitAccessToken(ctx context.Context, token string, answers []models.AnswerItem) error {
	body := struct {
		Token   string              `json:"token"`
		Answers []models.AnswerItem `json:"answers"`
	}{Token: token, Answers: answers}
	return c.do(ctx, http.MethodPost, "/evaluations/access-token/submit", nil, body, nil)
}

func (c *Client) ListSurveys(ctx context.Context) ([]models.Survey, error) {
	var out []models.Survey
	err := c.do(ctx, http.MethodGet, "/surveys", nil, nil, &out)
	return out, err
}

func (c *Client) GetSurvey(ctx context.Context, id int64) (models.Survey, error) {
	var out models.Survey
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/surveys/%d", id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateSurvey(ctx context.Context, p models.SurveyPayload) (models.Survey, error) {
	var out models.Survey
	err := c.do(ctx, http.MethodPost, "/surveys", nil, p, &out)
	return out, err
}

func (c *Client) UpdateSurvey(ctx context.Context, id int64, p models.SurveyPayload) (models.Survey, error) {
	var out models.Survey
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/surveys/%d", id), nil, p, &out)
	return out, err
}

func (c *Client) DeleteSurvey(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/surveys/%d", id), nil, nil, nil)
}
