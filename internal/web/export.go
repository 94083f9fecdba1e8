package web

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/JFernando12/app-interviews-sub000/internal/export"
	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

type exportRequest struct {
	Format      string   `json:"format" validate:"required"`
	Filename    string   `json:"filename" validate:"max=200"`
	Title       string   `json:"title" validate:"max=200"`
	InterviewID string   `json:"interview_id"`
	QuestionIDs []string `json:"question_ids" validate:"max=500"`
}

// exportSelection picks the questions to export: an interview's questions,
// an explicit id list, or everything visible to the user.
func (s *server) exportSelection(ctx context.Context, user *model.User, req exportRequest) ([]model.Question, error) {
	switch {
	case req.InterviewID != "":
		if _, err := s.ownedInterview(ctx, user, req.InterviewID); err != nil {
			return nil, err
		}
		return s.store.ListQuestions(ctx, store.QuestionFilter{InterviewID: req.InterviewID})
	case len(req.QuestionIDs) > 0:
		qs := make([]model.Question, 0, len(req.QuestionIDs))
		for _, id := range req.QuestionIDs {
			q, err := s.visibleQuestion(ctx, user, id)
			if err != nil {
				return nil, err
			}
			qs = append(qs, *q)
		}
		return qs, nil
	default:
		return s.store.ListQuestions(ctx, store.QuestionFilter{VisibleTo: user.ID})
	}
}

// handleExportQuestions renders the selected questions and sends them as a
// download. The document is built fully before any byte is written.
func (s *server) handleExportQuestions(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req exportRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	qs, err := s.exportSelection(r.Context(), user, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	opts := export.Options{Filename: req.Filename, Title: req.Title, GeneratedAt: s.now()}
	if err := export.Write(&buf, format, opts, qs); err != nil {
		s.writeError(w, r, fmt.Errorf("export %d questions as %s: %w", len(qs), format, err))
		return
	}

	filename := export.Filename(req.Filename, format)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)

	logger(r).Info("questions exported", "format", format, "count", len(qs))
}
