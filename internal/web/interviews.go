package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

type createInterviewRequest struct {
	Company             string         `json:"company" validate:"required,max=200"`
	Type                model.Category `json:"type" validate:"omitempty,category"`
	ProgrammingLanguage model.Language `json:"programming_language" validate:"language"`
	Public              bool           `json:"public"`
	Anonymous           bool           `json:"anonymous"`
}

type updateInterviewRequest struct {
	Company             *string         `json:"company" validate:"omitempty,min=1,max=200"`
	Type                *model.Category `json:"type" validate:"omitempty,category"`
	ProgrammingLanguage *model.Language `json:"programming_language" validate:"omitempty,language"`
	State               *model.State    `json:"state" validate:"omitempty,state"`
	Public              *bool           `json:"public"`
	Anonymous           *bool           `json:"anonymous"`
}

func (req updateInterviewRequest) patch() model.InterviewPatch {
	return model.InterviewPatch{
		Company:             req.Company,
		Type:                req.Type,
		ProgrammingLanguage: req.ProgrammingLanguage,
		State:               req.State,
		Public:              req.Public,
		Anonymous:           req.Anonymous,
	}
}

// ownedInterview loads an interview and checks that user owns it.
func (s *server) ownedInterview(ctx context.Context, user *model.User, id string) (*model.Interview, error) {
	iv, err := s.store.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !iv.OwnedBy(user.ID) {
		return nil, errNotOwner
	}
	return iv, nil
}

// bumpStats keeps the profile counters in step. Failures are only logged.
func (s *server) bumpStats(r *http.Request, userID string, interviews, questions int64) {
	if _, err := s.store.IncrementStats(r.Context(), userID, interviews, questions); err != nil {
		logger(r).Warn("failed to update profile stats", "error", err)
	}
}

// handleListInterviews handles GET /api/interviews - the caller's interviews
func (s *server) handleListInterviews(w http.ResponseWriter, r *http.Request, user *model.User) {
	ivs, err := s.store.ListInterviews(r.Context(), store.InterviewFilter{UserID: user.ID})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list interviews: %w", err))
		return
	}
	s.sendJSON(w, map[string]any{"interviews": ivs, "count": len(ivs)}, http.StatusOK)
}

func (s *server) handleCreateInterview(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req createInterviewRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	now := s.now().UTC()
	iv := &model.Interview{
		ID:                  uuid.NewString(),
		Company:             req.Company,
		Type:                req.Type,
		ProgrammingLanguage: req.ProgrammingLanguage,
		State:               model.StateNotStarted,
		UserID:              user.ID,
		Public:              req.Public,
		Anonymous:           req.Anonymous,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.CreateInterview(r.Context(), iv); err != nil {
		s.writeError(w, r, fmt.Errorf("create interview: %w", err))
		return
	}
	s.bumpStats(r, user.ID, 1, 0)

	logger(r).Info("interview created", "interview_id", iv.ID)
	s.sendJSON(w, iv, http.StatusCreated)
}

func (s *server) handleGetInterview(w http.ResponseWriter, r *http.Request, user *model.User) {
	iv, err := s.ownedInterview(r.Context(), user, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sendJSON(w, iv, http.StatusOK)
}

func (s *server) handleUpdateInterview(w http.ResponseWriter, r *http.Request, user *model.User) {
	id := r.PathValue("id")
	if _, err := s.ownedInterview(r.Context(), user, id); err != nil {
		s.writeError(w, r, err)
		return
	}

	var req updateInterviewRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := req.patch()
	if patch.Empty() {
		s.writeError(w, r, invalid("no fields to update"))
		return
	}

	iv, err := s.store.UpdateInterview(r.Context(), id, patch)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("update interview %s: %w", id, err))
		return
	}
	s.sendJSON(w, iv, http.StatusOK)
}

// handleDeleteInterview removes the interview's questions, then the
// interview. Every delete is attempted; any failure is reported as
// success false and may leave a partial cascade behind.
func (s *server) handleDeleteInterview(w http.ResponseWriter, r *http.Request, user *model.User) {
	iv, err := s.ownedInterview(r.Context(), user, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res := s.deleteInterview(r.Context(), iv)
	if res.questions > 0 || res.interview {
		s.bumpStats(r, user.ID, boolDelta(res.interview), -int64(res.questions))
	}
	if res.err != nil {
		logger(r).Error("failed to delete interview", "interview_id", iv.ID, "questions_deleted", res.questions, "interview_deleted", res.interview, "error", res.err)
		s.sendJSON(w, map[string]any{
			"success": false,
			"message": "failed to delete interview",
			"id":      iv.ID,
		}, http.StatusInternalServerError)
		return
	}

	logger(r).Info("interview deleted", "interview_id", iv.ID, "questions_deleted", res.questions)
	s.sendJSON(w, map[string]any{
		"success":           true,
		"id":                iv.ID,
		"questions_deleted": res.questions,
	}, http.StatusOK)
}

func boolDelta(deleted bool) int64 {
	if deleted {
		return -1
	}
	return 0
}

type cascadeResult struct {
	questions int
	interview bool
	err       error
}

// deleteInterview deletes the interview's questions, the interview itself
// and its uploaded videos. Failures do not stop the remaining deletes.
func (s *server) deleteInterview(ctx context.Context, iv *model.Interview) cascadeResult {
	var (
		res  cascadeResult
		errs []error
	)

	qs, err := s.store.ListQuestions(ctx, store.QuestionFilter{InterviewID: iv.ID})
	if err != nil {
		errs = append(errs, fmt.Errorf("list questions of interview %s: %w", iv.ID, err))
	}
	for _, q := range qs {
		if err := s.store.DeleteQuestion(ctx, q.ID); err != nil {
			errs = append(errs, fmt.Errorf("delete question %s: %w", q.ID, err))
			continue
		}
		res.questions++
	}

	if err := s.store.DeleteInterview(ctx, iv.ID); err != nil {
		errs = append(errs, fmt.Errorf("delete interview %s: %w", iv.ID, err))
	} else {
		res.interview = true
	}

	if iv.VideoPath != "" {
		if err := s.uploads.DeleteVideos(ctx, iv); err != nil {
			logFromContext(ctx).Warn("failed to delete uploaded videos", "interview_id", iv.ID, "error", err)
		}
	}

	res.err = errors.Join(errs...)
	return res
}

func (s *server) handleInterviewQuestions(w http.ResponseWriter, r *http.Request, user *model.User) {
	iv, err := s.ownedInterview(r.Context(), user, r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qs, err := s.store.ListQuestions(r.Context(), store.QuestionFilter{InterviewID: iv.ID})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list questions: %w", err))
		return
	}
	s.sendJSON(w, map[string]any{"questions": qs, "count": len(qs)}, http.StatusOK)
}
