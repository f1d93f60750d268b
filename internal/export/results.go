package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/JoinupRosario/evaluacionesUAOfront/internal/models"
)

var actorTitles = map[models.ActorRole]string{
	models.RoleStudent: "Estudiantes",
	models.RoleBoss:    "Jefes",
	models.RoleMonitor: "Tutores",
	models.RoleTutor:   "Tutores",
}

// ResultsWorkbook renders a results summary, one sheet per respondent role.
func ResultsWorkbook(res models.ResultSummary) (*excelize.File, error) {
	sheets := make([]SheetSpec, 0, len(res.ByActor))
	for _, actor := range res.ByActor {
		title := actorTitles[actor.Actor]
		if title == "" {
			title = string(actor.Actor)
		}
		spec := SheetSpec{
			Title:  title,
			Header: []string{"Pregunta", "Respuestas", "Promedio"},
		}
		for _, q := range actor.Questions {
			avg := ""
			if q.Average != 0 {
				avg = strconv.FormatFloat(q.Average, 'f', 2, 64)
			}
			spec.Rows = append(spec.Rows, []string{
				q.Prompt,
				strconv.Itoa(len(q.Answers)),
				avg,
			})
		}
		sheets = append(sheets, spec)
	}
	if len(sheets) == 0 {
		sheets = append(sheets, SheetSpec{
			Title:  "Resultados",
			Header: []string{"Pregunta", "Respuestas", "Promedio"},
		})
	}
	return NewWorkbook(sheets)
}

// ListingWorkbook renders the dashboard rows as a single sheet.
func ListingWorkbook(rows []models.Evaluation) (*excelize.File, error) {
	spec := SheetSpec{
		Title:  "Evaluaciones",
		Header: []string{"ID", "Nombre", "Período", "Inicio", "Fin", "Estado"},
	}
	for _, ev := range rows {
		spec.Rows = append(spec.Rows, []string{
			fmt.Sprintf("%d", ev.ID),
			ev.Name,
			fmt.Sprintf("%d", ev.Period),
			ev.StartDate,
			ev.FinishDate,
			string(ev.Status),
		})
	}
	return NewWorkbook([]SheetSpec{spec})
}
