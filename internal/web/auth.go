package web

import (
	"net/http"
)

func (s *server) handleProviders(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]any{"providers": s.auth.Providers()}, http.StatusOK)
}

// handleLogin redirects the browser to the provider's consent page.
func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	url, err := s.auth.BeginLogin(w, r.PathValue("provider"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *server) handleCallback(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	user, err := s.auth.CompleteLogin(w, r, provider)
	if err != nil {
		logger(r).Warn("sign-in failed", "provider", provider, "error", err)
		s.writeError(w, r, err)
		return
	}

	logger(r).Info("user signed in", "user_id", user.ID, "provider", provider)
	http.Redirect(w, r, s.auth.FrontendURL(), http.StatusFound)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.Logout(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sendJSON(w, map[string]any{"success": true}, http.StatusOK)
}

func (s *server) handleSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.auth.Session(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	user, err := s.auth.CurrentUser(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.sendJSON(w, map[string]any{
		"user":       user,
		"expires_at": sess.ExpiresAt,
	}, http.StatusOK)
}
