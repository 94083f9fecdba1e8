package web

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

type Options struct {
	// CORSOrigins lists the allowed browser origins. "*" allows any.
	CORSOrigins []string
	// DirectUploads serves PUT /uploads/{key...} when uploads go to the
	// local filesystem.
	DirectUploads http.Handler
}

type server struct {
	store   store.Store
	auth    Authenticator
	uploads VideoUploads

	directUploads http.Handler
	corsOrigins   []string

	validate *validator.Validate
	mux      *http.ServeMux
	now      func() time.Time
}

func NewServer(
	st store.Store,
	authn Authenticator,
	uploads VideoUploads,
	opts Options,
) *server {
	s := &server{
		store:         st,
		auth:          authn,
		uploads:       uploads,
		directUploads: opts.DirectUploads,
		corsOrigins:   opts.CORSOrigins,
		validate:      newValidator(),
		now:           time.Now,
	}
	s.routes()
	return s
}

func (s *server) routes() {
	s.mux = http.NewServeMux()

	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	// Sign-in
	s.mux.HandleFunc("GET /auth/providers", s.handleProviders)
	s.mux.HandleFunc("GET /auth/{provider}/login", s.handleLogin)
	s.mux.HandleFunc("GET /auth/{provider}/callback", s.handleCallback)
	s.mux.HandleFunc("POST /auth/logout", s.handleLogout)
	s.mux.HandleFunc("GET /auth/session", s.handleSession)

	// Interviews
	s.mux.HandleFunc("GET /api/interviews", s.authenticated(s.handleListInterviews))
	s.mux.HandleFunc("POST /api/interviews", s.authenticated(s.handleCreateInterview))
	s.mux.HandleFunc("GET /api/interviews/{id}", s.authenticated(s.handleGetInterview))
	s.mux.HandleFunc("PUT /api/interviews/{id}", s.authenticated(s.handleUpdateInterview))
	s.mux.HandleFunc("DELETE /api/interviews/{id}", s.authenticated(s.handleDeleteInterview))
	s.mux.HandleFunc("GET /api/interviews/{id}/questions", s.authenticated(s.handleInterviewQuestions))

	// Video hand-off
	s.mux.HandleFunc("POST /api/interviews/{id}/upload-video", s.authenticated(s.handleUploadVideo))
	s.mux.HandleFunc("POST /api/interviews/process-video", s.authenticated(s.handleProcessVideo))
	if s.directUploads != nil {
		s.mux.Handle("PUT /uploads/{key...}", s.directUploads)
	}

	// Questions
	s.mux.HandleFunc("GET /api/questions", s.authenticated(s.handleListQuestions))
	s.mux.HandleFunc("POST /api/questions", s.authenticated(s.handleCreateQuestion))
	s.mux.HandleFunc("POST /api/questions/export", s.authenticated(s.handleExportQuestions))
	s.mux.HandleFunc("GET /api/questions/{id}", s.authenticated(s.handleGetQuestion))
	s.mux.HandleFunc("PUT /api/questions/{id}", s.authenticated(s.handleUpdateQuestion))
	s.mux.HandleFunc("DELETE /api/questions/{id}", s.authenticated(s.handleDeleteQuestion))

	// Public feed
	s.mux.HandleFunc("GET /api/feed", s.handleFeed)
	s.mux.HandleFunc("GET /api/feed/{id}", s.handleFeedInterview)

	// Profile
	s.mux.HandleFunc("GET /api/profile", s.authenticated(s.handleGetProfile))
	s.mux.HandleFunc("PUT /api/profile", s.authenticated(s.handleUpdateProfile))
}

// Handler returns the routes wrapped with the middleware chain.
func (s *server) Handler() http.Handler {
	return s.requestLogger(s.recoverer(s.corsMiddleware(s.mux)))
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, map[string]any{"status": "ok"}, http.StatusOK)
}

func (s *server) allowedOrigin(origin string) bool {
	return slices.Contains(s.corsOrigins, "*") || slices.Contains(s.corsOrigins, origin)
}
