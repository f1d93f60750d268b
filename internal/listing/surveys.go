package listing

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

type SurveyBackend interface {
	ListSurveys(ctx context.Context) ([]models.Survey, error)
	DeleteSurvey(ctx context.Context, id int64) error
}

// Surveys is the formularios listing: unpaginated, with per-row delete.
type Surveys struct {
	api SurveyBackend
	log *zap.SugaredLogger

	mu   sync.Mutex
	rows []models.Survey
}

func NewSurveys(api SurveyBackend, log *zap.SugaredLogger) *Surveys {
	return &Surveys{api: api, log: log}
}

func (s *Surveys) Load(ctx context.Context) error {
	rows, err := s.api.ListSurveys(ctx)
	if err != nil {
		s.log.Warnw("no se pudieron cargar los formularios", "err", err)
		return err
	}
	s.mu.Lock()
	s.rows = rows
	s.mu.Unlock()
	return nil
}

func (s *Surveys) Rows() []models.Survey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Survey(nil), s.rows...)
}

// Delete removes the survey from the backend and, only then, from the local
// slice.
func (s *Surveys) Delete(ctx context.Context, id int64) error {
	if err := s.api.DeleteSurvey(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sv := range s.rows {
		if sv.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			break
		}
	}
	return nil
}
