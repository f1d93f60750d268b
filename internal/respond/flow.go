// Package respond is the unauthenticated, token-addressed answering flow.
// The token is single-use at the backend, so the flow submits exactly once
// and then shows a terminal done state.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/api"
	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

type Backend interface {
	ResolveAccessToken(ctx context.Context, token string) (models.AccessTokenData, error)
	SubmitAccessToken(ctx context.Context, token string, answers []models.AnswerItem) error
}

var ErrAlreadySubmitted = errors.New("Esta evaluación ya fue enviada")

type Flow struct {
	api   Backend
	token string

	mu         sync.Mutex
	data       *models.AccessTokenData
	answers    map[string]string
	order      map[string]int
	submitting bool
	done       bool
}

func New(api Backend, token string) *Flow {
	return &Flow{api: api, token: token, answers: make(map[string]string), order: make(map[string]int)}
}

// Load resolves the token into the evaluation metadata and its ordered
// question list, and seeds every answer empty.
func (f *Flow) Load(ctx context.Context) error {
	data, err := f.api.ResolveAccessToken(ctx, f.token)
	if err != nil {
		return errors.New(api.Message(err, "Token inválido o evaluación no encontrada"))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = &data
	f.answers = make(map[string]string, len(data.Questions))
	f.order = make(map[string]int, len(data.Questions))
	for _, q := range data.Questions {
		f.answers[q.ID] = ""
		f.order[q.ID] = q.Order
	}
	return nil
}

func (f *Flow) Data() (models.AccessTokenData, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.data == nil {
		return models.AccessTokenData{}, false
	}
	return *f.data, true
}

// SetAnswer records one answer keyed by question id. Non-string values are
// serialized to text the way the browser did: numbers via formatting,
// anything structured via JSON.
func (f *Flow) SetAnswer(questionID string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers[questionID] = stringify(value)
}

// Answers flattens the non-blank entries in question order.
func (f *Flow) Answers() []models.AnswerItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.answersLocked()
}

func (f *Flow) answersLocked() []models.AnswerItem {
	out := make([]models.AnswerItem, 0, len(f.answers))
	for id, v := range f.answers {
		if v == "" {
			continue
		}
		out = append(out, models.AnswerItem{QuestionID: id, Answer: v})
	}
	sort.Slice(out, func(i, j int) bool {
		return f.order[out[i].QuestionID] < f.order[out[j].QuestionID]
	})
	return out
}

func (f *Flow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

// Submit sends the answers once. There is no retry path: a success is
// terminal, and a second call is rejected locally.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.done || f.submitting {
		f.mu.Unlock()
		return ErrAlreadySubmitted
	}
	f.submitting = true
	answers := f.answersLocked()
	f.mu.Unlock()

	err := f.api.SubmitAccessToken(ctx, f.token, answers)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if err != nil {
		return errors.New(api.Message(err, "No se pudieron enviar las respuestas"))
	}
	f.done = true
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	case int, int64, float64, bool:
		return fmt.Sprintf("%v", t)
	default:
		raw, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(raw)
	}
}
