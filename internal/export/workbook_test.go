package export

import (
	"testing"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

func TestColName(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{1, "A"},
		{2, "B"},
		{26, "Z"},
		{27, "AA"},
		{52, "AZ"},
		{53, "BA"},
		{702, "ZZ"},
		{703, "AAA"},
	}
	for _, c := range cases {
		if got := colName(c.n); got != c.want {
			t.Fatalf("colName(%d): esperaba %s, obtuve %s", c.n, c.want, got)
		}
	}
}

func TestNewWorkbook(t *testing.T) {
	t.Run("no_sheets", func(t *testing.T) {
		if _, err := NewWorkbook(nil); err == nil {
			t.Fatal("un libro sin hojas debe rechazarse")
		}
	})

	t.Run("header_and_rows", func(t *testing.T) {
		f, err := NewWorkbook([]SheetSpec{{
			Title:  "Evaluaciones",
			Header: []string{"ID", "Nombre"},
			Rows:   [][]string{{"1", "Práctica 2026-1"}, {"2", "Práctica 2026-2"}},
		}})
		if err != nil {
			t.Fatal(err)
		}
		if got := f.GetSheetName(0); got != "Evaluaciones" {
			t.Fatalf("la primera hoja debe renombrarse: %q", got)
		}
		if v, _ := f.GetCellValue("Evaluaciones", "B1"); v != "Nombre" {
			t.Fatalf("encabezado B1: %q", v)
		}
		if v, _ := f.GetCellValue("Evaluaciones", "B3"); v != "Práctica 2026-2" {
			t.Fatalf("dato B3: %q", v)
		}
	})
}

func TestResultsWorkbook(t *testing.T) {
	res := models.ResultSummary{
		ByActor: []models.ActorResults{
			{
				Actor:     models.RoleStudent,
				Responses: 2,
				Questions: []models.QuestionResult{
					{Prompt: "Califique su tutor", Answers: []string{"4", "5"}, Average: 4.5},
					{Prompt: "¿Comentarios?", Answers: []string{"bien"}},
				},
			},
			{Actor: models.RoleBoss, Responses: 0},
		},
	}
	f, err := ResultsWorkbook(res)
	if err != nil {
		t.Fatal(err)
	}
	if f.GetSheetName(0) != "Estudiantes" {
		t.Fatalf("hoja 0: %q", f.GetSheetName(0))
	}
	if idx, _ := f.GetSheetIndex("Jefes"); idx < 0 {
		t.Fatal("cada rol con resultados tiene su hoja")
	}
	if v, _ := f.GetCellValue("Estudiantes", "C2"); v != "4.50" {
		t.Fatalf("promedio mal formateado: %q", v)
	}
	// las preguntas abiertas no llevan promedio
	if v, _ := f.GetCellValue("Estudiantes", "C3"); v != "" {
		t.Fatalf("pregunta abierta con promedio: %q", v)
	}
}

func TestResultsWorkbookEmpty(t *testing.T) {
	f, err := ResultsWorkbook(models.ResultSummary{})
	if err != nil {
		t.Fatal(err)
	}
	if f.GetSheetName(0) != "Resultados" {
		t.Fatal("sin resultados igual sale un libro válido")
	}
}

func TestListingWorkbook(t *testing.T) {
	f, err := ListingWorkbook([]models.Evaluation{
		{ID: 7, Name: "Práctica 2026-1", Period: 3, StartDate: "2026-01-15", FinishDate: "2026-06-15", Status: models.StatusSent},
	})
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := f.GetCellValue("Evaluaciones", "A2"); v != "7" {
		t.Fatalf("fila mal escrita: %q", v)
	}
	if v, _ := f.GetCellValue("Evaluaciones", "F2"); v != "SENT" {
		t.Fatalf("estado: %q", v)
	}
}
