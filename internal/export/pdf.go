package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

func writePDF(w io.Writer, opts Options, questions []model.Question) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(opts.title(), true)
	pdf.SetCreator("app-interviews", true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, tr(opts.title()), "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(110, 110, 110)
	pdf.MultiCell(0, 5, tr(opts.subtitle(len(questions))), "", "L", false)
	pdf.SetTextColor(0, 0, 0)

	section := func(label, text string) {
		if text == "" {
			return
		}
		pdf.Ln(1)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.MultiCell(0, 5, label, "", "L", false)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(text), "", "L", false)
	}

	for i, q := range questions {
		pdf.Ln(5)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, tr(fmt.Sprintf("%d. %s", i+1, q.Question)), "", "L", false)
		if m := meta(q); m != "" {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.MultiCell(0, 5, tr(m), "", "L", false)
		}
		section("Context", q.Context)
		section("Answer", q.Answer)

		if pdf.Err() {
			break
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
