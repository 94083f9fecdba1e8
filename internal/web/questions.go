package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

type createQuestionRequest struct {
	Question            string         `json:"question" validate:"required,max=2000"`
	Context             string         `json:"context" validate:"max=10000"`
	Answer              string         `json:"answer" validate:"max=20000"`
	Type                model.Category `json:"type" validate:"required,category"`
	ProgrammingLanguage model.Language `json:"programming_language" validate:"language"`
	InterviewID         string         `json:"interview_id" validate:"max=64"`
}

type updateQuestionRequest struct {
	Question            *string         `json:"question" validate:"omitempty,min=1,max=2000"`
	Context             *string         `json:"context" validate:"omitempty,max=10000"`
	Answer              *string         `json:"answer" validate:"omitempty,max=20000"`
	Type                *model.Category `json:"type" validate:"omitempty,category"`
	ProgrammingLanguage *model.Language `json:"programming_language" validate:"omitempty,language"`
	InterviewID         *string         `json:"interview_id" validate:"omitempty,max=64"`
}

func (req updateQuestionRequest) patch() model.QuestionPatch {
	return model.QuestionPatch{
		Question:            req.Question,
		Context:             req.Context,
		Answer:              req.Answer,
		Type:                req.Type,
		ProgrammingLanguage: req.ProgrammingLanguage,
		InterviewID:         req.InterviewID,
	}
}

// visibleQuestion loads a question the user may read: their own or a
// global one.
func (s *server) visibleQuestion(ctx context.Context, user *model.User, id string) (*model.Question, error) {
	q, err := s.store.GetQuestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.VisibleTo(user.ID) {
		return nil, errNotOwner
	}
	return q, nil
}

// editableQuestion loads a question the user may change. Global questions
// are read-only here.
func (s *server) editableQuestion(ctx context.Context, user *model.User, id string) (*model.Question, error) {
	q, err := s.visibleQuestion(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if !q.EditableBy(user.ID) {
		return nil, errNotOwner
	}
	return q, nil
}

func (s *server) handleListQuestions(w http.ResponseWriter, r *http.Request, user *model.User) {
	filter := store.QuestionFilter{
		VisibleTo:   user.ID,
		InterviewID: r.URL.Query().Get("interview_id"),
		Type:        model.Category(r.URL.Query().Get("type")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		s.writeError(w, r, invalid("type must be one of %s", join(model.Categories)))
		return
	}

	qs, err := s.store.ListQuestions(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list questions: %w", err))
		return
	}
	s.sendJSON(w, map[string]any{"questions": qs, "count": len(qs)}, http.StatusOK)
}

func (s *server) handleCreateQuestion(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req createQuestionRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.InterviewID != "" {
		if _, err := s.ownedInterview(r.Context(), user, req.InterviewID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	now := s.now().UTC()
	q := &model.Question{
		ID:                  uuid.NewString(),
		Question:            req.Question,
		Context:             req.Context,
		Answer:              req.Answer,
		Type:                req.Type,
		ProgrammingLanguage: req.ProgrammingLanguage,
		InterviewID:         req.InterviewID,
		UserID:              user.ID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.CreateQuestion(r.Context(), q); err != nil {
		s.writeError(w, r, fmt.Errorf("create question: %w", err))
		return
	}
	s.bumpStats(r, user.ID, 0, 1)

	s.sendJSON(w, q, http.StatusCreated)
}

func (s *server) handleGetQuestion(w http.ResponseWriter, r *http.Request, user *model.User) {
	q, err := s.visibleQuestion(r.Context(), user, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sendJSON(w, q, http.StatusOK)
}

func (s *server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request, user *model.User) {
	id := r.PathValue("id")
	if _, err := s.editableQuestion(r.Context(), user, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateQuestionRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := req.patch()
	if patch.Empty() {
		s.writeError(w, r, invalid("no fields to update"))
		return
	}

	if req.InterviewID != nil && *req.InterviewID != "" {
		if _, err := s.ownedInterview(r.Context(), user, *req.InterviewID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	q, err := s.store.UpdateQuestion(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("update question %s: %w", id, err))
		return
	}
	s.sendJSON(w, q, http.StatusOK)
}

func (s *server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request, user *model.User) {
	q, err := s.editableQuestion(r.Context(), user, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteQuestion(r.Context(), q.ID); err != nil {
		s.writeError(w, r, fmt.Errorf("delete question %s: %w", q.ID, err))
		return
	}
	s.bumpStats(r, user.ID, 0, -1)

	s.sendJSON(w, map[string]any{"success": true, "id": q.ID}, http.StatusOK)
}
