// Package refdata caches the academics reference lists the forms depend on:
// periods, practice types, survey types and programs.
package refdata

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

type Backend interface {
	Periodos(ctx context.Context) ([]models.ReferenceItem, error)
	TiposPractica(ctx context.Context) ([]models.ReferenceItem, error)
	TiposEncuesta(ctx context.Context) ([]models.ReferenceItem, error)
	Programas(ctx context.Context) ([]models.ReferenceItem, error)
}

type Cache struct {
	api Backend
	log *zap.SugaredLogger

	mu            sync.RWMutex
	periods       []models.ReferenceItem
	practiceTypes []models.ReferenceItem
	surveyTypes   []models.ReferenceItem
	programs      []models.ReferenceItem
}

func New(api Backend, log *zap.SugaredLogger) *Cache {
	return &Cache{api: api, log: log}
}

// Refresh loads the four lists in parallel. A partial failure keeps the
// previous snapshot for the lists that failed.
func (c *Cache) Refresh(ctx context.Context) error {
	type result struct {
		name string
		set  func([]models.ReferenceItem)
		fn   func(context.Context) ([]models.ReferenceItem, error)
	}
	fetches := []result{
		{"periodos", func(v []models.ReferenceItem) { c.periods = v }, c.api.Periodos},
		{"tipos-practica", func(v []models.ReferenceItem) { c.practiceTypes = v }, c.api.TiposPractica},
		{"tipos-encuesta", func(v []models.ReferenceItem) { c.surveyTypes = v }, c.api.TiposEncuesta},
		{"programas", func(v []models.ReferenceItem) { c.programs = v }, c.api.Programas},
	}

	var wg sync.WaitGroup
	errs := make([]error, len(fetches))
	values := make([][]models.ReferenceItem, len(fetches))
	for i, f := range fetches {
		wg.Add(1)
		go func(i int, f result) {
			defer wg.Done()
			values[i], errs[i] = f.fn(ctx)
		}(i, f)
	}
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for i, f := range fetches {
		if errs[i] != nil {
			c.log.Warnw("no se pudo cargar referencia", "list", f.name, "err", errs[i])
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		f.set(values[i])
	}
	return firstErr
}

func (c *Cache) Periods() []models.ReferenceItem { return c.copyOf(&c.periods) }

func (c *Cache) PracticeTypes() []models.ReferenceItem { return c.copyOf(&c.practiceTypes) }

func (c *Cache) SurveyTypes() []models.ReferenceItem { return c.copyOf(&c.surveyTypes) }

func (c *Cache) Programs() []models.ReferenceItem { return c.copyOf(&c.programs) }

func (c *Cache) copyOf(src *[]models.ReferenceItem) []models.ReferenceItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.ReferenceItem(nil), *src...)
}
