// Package export renders question sets as PDF, XLSX or DOCX documents.
package export

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

type Format string

const (
	PDF  Format = "pdf"
	XLSX Format = "xlsx"
	DOCX Format = "docx"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

const defaultTitle = "Interview Questions"

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case PDF, XLSX, DOCX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	switch f {
	case PDF:
		return "application/pdf"
	case XLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case DOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

type Options struct {
	Filename    string
	Title       string
	GeneratedAt time.Time
}

func (o Options) title() string {
	if t := strings.TrimSpace(o.Title); t != "" {
		return t
	}
	return defaultTitle
}

func (o Options) subtitle(n int) string {
	s := fmt.Sprintf("%d questions", n)
	if n == 1 {
		s = "1 question"
	}
	if !o.GeneratedAt.IsZero() {
		s += ", exported " + o.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")
	}
	return s
}

// Filename returns a safe download name ending in the format's extension.
func Filename(name string, f Format) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '.' || r == '-' || r == '_':
			return r
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case unicode.IsSpace(r):
			return '_'
		}
		return -1
	}, name)

	ext := "." + string(f)
	name = strings.TrimSuffix(name, ext)
	name = strings.Trim(name, "._")
	if name == "" {
		name = "questions"
	}
	return truncate(name, maxNameBytes) + ext
}

const maxNameBytes = 100

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	end := 0
	for end < len(s) {
		_, size := utf8.DecodeRuneInString(s[end:])
		if end+size > n {
			break
		}
		end += size
	}
	return s[:end]
}

// Write renders questions in the given format to w. Nothing is written
// when building the document fails.
func Write(w io.Writer, f Format, opts Options, questions []model.Question) error {
	switch f {
	case PDF:
		return writePDF(w, opts, questions)
	case XLSX:
		return writeXLSX(w, opts, questions)
	case DOCX:
		return writeDOCX(w, opts, questions)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
}

func meta(q model.Question) string {
	var parts []string
	if q.Type != "" {
		parts = append(parts, "Type: "+string(q.Type))
	}
	if q.ProgrammingLanguage != "" {
		parts = append(parts, "Language: "+string(q.ProgrammingLanguage))
	}
	return strings.Join(parts, "  |  ")
}
