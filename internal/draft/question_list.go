package draft

import (
	"fmt"
	"strings"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

type Direction int

const (
	MoveUp Direction = iota
	MoveDown
)

// QuestionList is one role's ordered question set. Both respondent lists are
// instances of this type, so the ordering invariant cannot diverge between
// them: after every structural change the Order fields are re-derived as a
// contiguous 1..N sequence matching array position.
type QuestionList struct {
	role  models.ActorRole
	items []models.Question
}

func NewQuestionList(role models.ActorRole) *QuestionList {
	return &QuestionList{role: role}
}

func loadQuestionList(role models.ActorRole, qs []models.Question) *QuestionList {
	l := &QuestionList{role: role, items: append([]models.Question(nil), qs...)}
	l.resequence()
	return l
}

func (l *QuestionList) Role() models.ActorRole { return l.role }

func (l *QuestionList) Len() int { return len(l.items) }

// Questions returns a copy; mutations go through the list methods.
func (l *QuestionList) Questions() []models.Question {
	return append([]models.Question(nil), l.items...)
}

// Add appends a blank short-text question with the default scale bounds.
func (l *QuestionList) Add() {
	l.items = append(l.items, models.Question{
		Type:        models.QuestionText,
		Required:    false,
		ScaleMin:    1,
		ScaleMax:    5,
		ScaleLabels: &models.ScaleLabels{},
	})
	l.resequence()
}

// Update applies a field mutation to the question at i. Order stays derived
// from position regardless of what the mutation wrote.
func (l *QuestionList) Update(i int, mutate func(*models.Question)) error {
	if err := l.check(i); err != nil {
		return err
	}
	mutate(&l.items[i])
	l.resequence()
	return nil
}

func (l *QuestionList) Remove(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.resequence()
	return nil
}

// Move swaps the question with its neighbor. Moving the first up or the last
// down is a no-op, not an error.
func (l *QuestionList) Move(i int, dir Direction) error {
	if err := l.check(i); err != nil {
		return err
	}
	j := i - 1
	if dir == MoveDown {
		j = i + 1
	}
	if j < 0 || j >= len(l.items) {
		return nil
	}
	l.items[i], l.items[j] = l.items[j], l.items[i]
	l.resequence()
	return nil
}

func (l *QuestionList) AddOption(i int) error {
	if err := l.check(i); err != nil {
		return err
	}
	l.items[i].Options = append(l.items[i].Options, models.Option{})
	return nil
}

// UpdateOption sets label and value together, the way the original form did.
func (l *QuestionList) UpdateOption(i, j int, label string) error {
	if err := l.checkOption(i, j); err != nil {
		return err
	}
	l.items[i].Options[j] = models.Option{Label: label, Value: label}
	return nil
}

func (l *QuestionList) RemoveOption(i, j int) error {
	if err := l.checkOption(i, j); err != nil {
		return err
	}
	opts := l.items[i].Options
	l.items[i].Options = append(opts[:j], opts[j+1:]...)
	return nil
}

func (l *QuestionList) check(i int) error {
	if i < 0 || i >= len(l.items) {
		return fmt.Errorf("pregunta %d fuera de rango (%s)", i, l.role)
	}
	return nil
}

func (l *QuestionList) checkOption(i, j int) error {
	if err := l.check(i); err != nil {
		return err
	}
	if j < 0 || j >= len(l.items[i].Options) {
		return fmt.Errorf("opción %d fuera de rango en pregunta %d", j, i)
	}
	return nil
}

func (l *QuestionList) resequence() {
	for i := range l.items {
		l.items[i].Order = i + 1
	}
}

func (l *QuestionList) hasBlankPrompt() bool {
	for _, q := range l.items {
		if strings.TrimSpace(q.Prompt) == "" {
			return true
		}
	}
	return false
}

// payload strips per-type extras that do not apply: options only survive on
// choice types (and only non-blank ones), scale fields only on scales.
func (l *QuestionList) payload() []models.Question {
	out := make([]models.Question, 0, len(l.items))
	for _, q := range l.items {
		p := models.Question{
			Type:     q.Type,
			Prompt:   q.Prompt,
			Required: q.Required,
			Order:    q.Order,
		}
		if q.Type.HasOptions() {
			for _, opt := range q.Options {
				if strings.TrimSpace(opt.Label) != "" {
					p.Options = append(p.Options, opt)
				}
			}
		}
		if q.Type == models.QuestionScale {
			p.ScaleMin = q.ScaleMin
			p.ScaleMax = q.ScaleMax
			p.ScaleLabels = q.ScaleLabels
		}
		out = append(out, p)
	}
	return out
}
