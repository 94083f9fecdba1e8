package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

type updateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=100"`
	Bio         *string `json:"bio" validate:"omitempty,max=1000"`
	Settings    *struct {
		Theme              *string         `json:"theme" validate:"omitempty,oneof=light dark system"`
		EmailNotifications *bool           `json:"email_notifications"`
		DefaultLanguage    *model.Language `json:"default_language" validate:"omitempty,language"`
	} `json:"settings"`
}

func (req updateProfileRequest) patch() model.ProfilePatch {
	p := model.ProfilePatch{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	}
	if req.Settings != nil {
		p.Theme = req.Settings.Theme
		p.EmailNotifications = req.Settings.EmailNotifications
		p.DefaultLanguage = req.Settings.DefaultLanguage
	}
	return p
}

// profile returns the user's profile, creating the default one for users
// that predate profiles.
func (s *server) profile(r *http.Request, user *model.User) (*model.Profile, error) {
	p, err := s.store.GetProfile(r.Context(), user.ID)
	if errors.Is(err, store.ErrNotFound) {
		p = model.NewProfile(user.ID, user.Name, s.now().UTC())
		if err := s.store.PutProfile(r.Context(), p); err != nil {
			return nil, fmt.Errorf("create profile: %w", err)
		}
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (s *server) handleGetProfile(w http.ResponseWriter, r *http.Request, user *model.User) {
	p, err := s.profile(r, user)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sendJSON(w, map[string]any{"user": user, "profile": p}, http.StatusOK)
}

// handleUpdateProfile patches display name, bio and settings. Subscription
// fields are not writable here.
func (s *server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req updateProfileRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	patch := req.patch()
	if patch.Empty() {
		s.writeError(w, r, invalid("no fields to update"))
		return
	}

	if _, err := s.profile(r, user); err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := s.store.UpdateProfile(r.Context(), user.ID, patch)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("update profile: %w", err))
		return
	}
	s.sendJSON(w, map[string]any{"user": user, "profile": p}, http.StatusOK)
}
