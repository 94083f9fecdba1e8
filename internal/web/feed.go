package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

// profileLookups bounds the concurrent profile reads of one feed request.
const profileLookups = 8

type feedAuthor struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

type feedInterview struct {
	ID                  string         `json:"id"`
	Company             string         `json:"company"`
	Type                model.Category `json:"type,omitempty"`
	ProgrammingLanguage model.Language `json:"programming_language,omitempty"`
	State               model.State    `json:"state"`
	HasVideo            bool           `json:"has_video"`
	Anonymous           bool           `json:"anonymous"`
	Author              *feedAuthor    `json:"author,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func newFeedInterview(iv model.Interview, names map[string]string) feedInterview {
	item := feedInterview{
		ID:                  iv.ID,
		Company:             iv.Company,
		Type:                iv.Type,
		ProgrammingLanguage: iv.ProgrammingLanguage,
		State:               iv.State,
		HasVideo:            iv.VideoPath != "",
		Anonymous:           iv.Anonymous,
		CreatedAt:           iv.CreatedAt,
		UpdatedAt:           iv.UpdatedAt,
	}
	if !iv.Anonymous {
		item.Author = &feedAuthor{UserID: iv.UserID, DisplayName: names[iv.UserID]}
	}
	return item
}

// displayNames looks up the profiles of the non-anonymous owners
// concurrently. Any failed lookup fails the whole call; a missing profile
// leaves the name empty.
func (s *server) displayNames(ctx context.Context, ivs []model.Interview) (map[string]string, error) {
	var (
		mu    sync.Mutex
		names = make(map[string]string)
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(profileLookups)

	seen := make(map[string]bool)
	for _, iv := range ivs {
		if iv.Anonymous || seen[iv.UserID] {
			continue
		}
		seen[iv.UserID] = true
		userID := iv.UserID

		g.Go(func() error {
			p, err := s.store.GetProfile(ctx, userID)
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load profile of %s: %w", userID, err)
			}
			mu.Lock()
			names[userID] = p.DisplayName
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}

// handleFeed handles GET /api/feed - public interviews, newest first
func (s *server) handleFeed(w http.ResponseWriter, r *http.Request) {
	ivs, err := s.store.ListInterviews(r.Context(), store.InterviewFilter{Public: model.Ptr(true)})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list public interviews: %w", err))
		return
	}

	names, err := s.displayNames(r.Context(), ivs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	items := make([]feedInterview, len(ivs))
	for i, iv := range ivs {
		items[i] = newFeedInterview(iv, names)
	}
	s.sendJSON(w, map[string]any{"interviews": items, "count": len(items)}, http.StatusOK)
}

// handleFeedInterview handles GET /api/feed/{id} - one public interview
// with its questions. Private interviews are reported as missing.
func (s *server) handleFeedInterview(w http.ResponseWriter, r *http.Request) {
	iv, err := s.store.GetInterview(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !iv.Public {
		s.writeError(w, r, store.ErrNotFound)
		return
	}

	names, err := s.displayNames(r.Context(), []model.Interview{*iv})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	qs, err := s.store.ListQuestions(r.Context(), store.QuestionFilter{InterviewID: iv.ID})
	if err != nil {
		s.writeError(w, r, fmt.Errorf("list questions: %w", err))
		return
	}

	s.sendJSON(w, map[string]any{
		"interview": newFeedInterview(*iv, names),
		"questions": qs,
	}, http.StatusOK)
}
