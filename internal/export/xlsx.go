package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

const sheetName = "Questions"

var xlsxHeader = []any{"#", "Question", "Context", "Answer", "Type", "Language", "Interview"}

func writeXLSX(w io.Writer, opts Options, questions []model.Question) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   opts.title(),
		Creator: "app-interviews",
	}); err != nil {
		return fmt.Errorf("failed to set document properties: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "G1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, q := range questions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{i + 1, q.Question, q.Context, q.Answer, string(q.Type), string(q.ProgrammingLanguage), q.InterviewID}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write question %s: %w", q.ID, err)
		}
	}

	widths := map[string]float64{"A": 5, "B": 50, "C": 40, "D": 60, "E": 15, "F": 12, "G": 38}
	for col, width := range widths {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to render xlsx: %w", err)
	}
	return nil
}
