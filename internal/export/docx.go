package export

import (
	"bytes"
	"fmt"
	"io"

	docx "github.com/fumiama/go-docx"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

func writeDOCX(w io.Writer, opts Options, questions []model.Question) error {
	doc := docx.New().WithDefaultTheme()

	doc.AddParagraph().AddText(opts.title()).Size("36").Bold()
	doc.AddParagraph().AddText(opts.subtitle(len(questions))).Size("18").Color("6E6E6E")

	for i, q := range questions {
		doc.AddParagraph()
		doc.AddParagraph().AddText(fmt.Sprintf("%d. %s", i+1, q.Question)).Size("26").Bold()
		if m := meta(q); m != "" {
			doc.AddParagraph().AddText(m).Size("18").Italic()
		}
		if q.Context != "" {
			p := doc.AddParagraph()
			p.AddText("Context: ").Bold()
			p.AddText(q.Context)
		}
		if q.Answer != "" {
			p := doc.AddParagraph()
			p.AddText("Answer: ").Bold()
			p.AddText(q.Answer)
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render docx: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
