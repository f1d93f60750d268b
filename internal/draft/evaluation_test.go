package draft

import (
	"strings"
	"testing"
	"time"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

func TestProgramToggle(t *testing.T) {
	d := NewEvaluationDraft()

	t.Run("toggle_adds_then_removes", func(t *testing.T) {
		d.ToggleProgram(3)
		d.ToggleProgram(5)
		if got := d.Programs(); len(got) != 2 || got[0] != 3 || got[1] != 5 {
			t.Fatalf("esperaba [3 5], obtuve %v", got)
		}
		d.ToggleProgram(3)
		if got := d.Programs(); len(got) != 1 || got[0] != 5 {
			t.Fatalf("esperaba [5], obtuve %v", got)
		}
	})

	t.Run("never_duplicates", func(t *testing.T) {
		d := NewEvaluationDraft()
		seq := []int64{1, 2, 1, 1, 2, 3, 3, 1}
		for _, id := range seq {
			d.ToggleProgram(id)
		}
		seen := map[int64]bool{}
		for _, id := range d.Programs() {
			if seen[id] {
				t.Fatalf("id %d duplicado en %v", id, d.Programs())
			}
			seen[id] = true
		}
	})

	t.Run("dropdown_excludes_selected", func(t *testing.T) {
		d := NewEvaluationDraft()
		all := []models.ReferenceItem{{ID: 1}, {ID: 2}, {ID: 3}}
		d.ToggleProgram(2)
		for _, p := range d.AvailablePrograms(all) {
			if p.ID == 2 {
				t.Fatal("el dropdown ofreció un programa ya seleccionado")
			}
		}
		if got := len(d.AvailablePrograms(all)); got != 2 {
			t.Fatalf("esperaba 2 candidatos, obtuve %d", got)
		}
	})

	t.Run("remove_absent_is_noop", func(t *testing.T) {
		d := NewEvaluationDraft()
		d.ToggleProgram(7)
		d.RemoveProgram(99)
		if got := d.Programs(); len(got) != 1 || got[0] != 7 {
			t.Fatalf("esperaba [7], obtuve %v", got)
		}
	})
}

func TestDuplicate(t *testing.T) {
	base := models.Evaluation{ID: 42, Name: "Eval Final", Period: 1, StartDate: "2026-03-01", FinishDate: "2026-06-01"}

	t.Run("from_create_rejected", func(t *testing.T) {
		d := NewEvaluationDraft()
		if err := d.Duplicate(); err == nil {
			t.Fatal("esperaba error al duplicar un borrador nuevo")
		}
	})

	t.Run("appends_marker_once", func(t *testing.T) {
		d := LoadEvaluation(base)
		if err := d.Duplicate(); err != nil {
			t.Fatalf("no esperaba error: %v", err)
		}
		if d.Name != "Eval Final (Copia)" {
			t.Fatalf("nombre inesperado: %q", d.Name)
		}
		if d.Mode() != ModeDuplicate {
			t.Fatalf("esperaba modo duplicate, obtuve %v", d.Mode())
		}
	})

	t.Run("existing_marker_not_stacked", func(t *testing.T) {
		ev := base
		ev.Name = "Eval Final (Copia)"
		d := LoadEvaluation(ev)
		if err := d.Duplicate(); err != nil {
			t.Fatalf("no esperaba error: %v", err)
		}
		if got := strings.Count(d.Name, "(Copia)"); got != 1 {
			t.Fatalf("esperaba exactamente un marcador, obtuve %d en %q", got, d.Name)
		}
	})

	t.Run("reentry_is_noop", func(t *testing.T) {
		d := LoadEvaluation(base)
		_ = d.Duplicate()
		name := d.Name
		_ = d.Duplicate()
		if d.Name != name {
			t.Fatalf("reentrar duplicado cambió el nombre: %q -> %q", name, d.Name)
		}
	})

	t.Run("duplicate_submits_as_create", func(t *testing.T) {
		d := LoadEvaluation(base)
		if !d.IsUpdate() {
			t.Fatal("un borrador en edición debe actualizar")
		}
		_ = d.Duplicate()
		if d.IsUpdate() {
			t.Fatal("un borrador duplicado debe crear, no actualizar")
		}
		if d.NeedsFetch() {
			t.Fatal("el fetch de edición debe quedar deshabilitado al duplicar")
		}
	})
}

func TestDates(t *testing.T) {
	t.Run("timestamps_narrow_to_days", func(t *testing.T) {
		d := LoadEvaluation(models.Evaluation{
			ID:         1,
			Name:       "x",
			StartDate:  "2026-03-01T05:00:00Z",
			FinishDate: "2026-06-01T23:30:00Z",
		})
		want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		if !d.StartDate.Equal(want) {
			t.Fatalf("inicio: esperaba %v, obtuve %v", want, d.StartDate)
		}
		if h, m, sec := d.FinishDate.Clock(); h != 0 || m != 0 || sec != 0 {
			t.Fatalf("fin debe ser solo fecha, obtuve %v", d.FinishDate)
		}
	})

	t.Run("payload_round_trips_date_only", func(t *testing.T) {
		d := NewEvaluationDraft()
		d.Name = "Final Eval"
		d.Period = 1
		d.TypeSurvey = 2
		d.SetDates(
			time.Date(2026, 3, 1, 14, 30, 0, 0, time.Local),
			time.Date(2026, 6, 1, 9, 0, 0, 0, time.Local),
		)
		p := d.Payload()
		if p.StartDate != "2026-03-01" || p.FinishDate != "2026-06-01" {
			t.Fatalf("fechas inesperadas: %q %q", p.StartDate, p.FinishDate)
		}
	})
}

func TestEvaluationValidate(t *testing.T) {
	valid := func() *EvaluationDraft {
		d := NewEvaluationDraft()
		d.Name = "Final Eval"
		d.Period = 1
		d.TypeSurvey = 2
		d.ToggleProgram(3)
		d.ToggleProgram(5)
		d.SetDates(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
		d.AlertValue = 5
		return d
	}

	t.Run("valid_draft_passes", func(t *testing.T) {
		if err := valid().Validate(); err != nil {
			t.Fatalf("no esperaba error: %v", err)
		}
	})

	t.Run("blank_name", func(t *testing.T) {
		d := valid()
		d.Name = "   "
		if err := d.Validate(); err == nil {
			t.Fatal("esperaba rechazo por nombre en blanco")
		}
	})

	t.Run("finish_before_start", func(t *testing.T) {
		d := valid()
		d.SetDates(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		if err := d.Validate(); err == nil {
			t.Fatal("esperaba rechazo por fechas invertidas")
		}
	})

	t.Run("negative_alert", func(t *testing.T) {
		d := valid()
		d.AlertValue = -1
		if err := d.Validate(); err == nil {
			t.Fatal("esperaba rechazo por alerta negativa")
		}
	})
}

func TestEvaluationPayload(t *testing.T) {
	t.Run("optional_ids_omitted_when_unset", func(t *testing.T) {
		d := NewEvaluationDraft()
		d.Name = "x"
		p := d.Payload()
		if p.PracticeType != nil || p.TypeSurvey != nil {
			t.Fatal("los ids opcionales deben viajar como null cuando no hay selección")
		}
	})

	t.Run("selected_ids_travel", func(t *testing.T) {
		d := NewEvaluationDraft()
		d.PracticeType = 4
		d.TypeSurvey = 2
		p := d.Payload()
		if p.PracticeType == nil || *p.PracticeType != 4 {
			t.Fatalf("practice_type inesperado: %v", p.PracticeType)
		}
		if p.TypeSurvey == nil || *p.TypeSurvey != 2 {
			t.Fatalf("type_survey inesperado: %v", p.TypeSurvey)
		}
	})
}
