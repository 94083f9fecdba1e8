package web

import (
	"context"
	"net/http"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/upload"
)

// Authenticator resolves the signed-in user and drives the OAuth flow.
type Authenticator interface {
	CurrentUser(r *http.Request) (*model.User, error)
	Session(r *http.Request) (*model.Session, error)
	BeginLogin(w http.ResponseWriter, provider string) (string, error)
	CompleteLogin(w http.ResponseWriter, r *http.Request, provider string) (*model.User, error)
	Logout(w http.ResponseWriter, r *http.Request) error
	Providers() []string
	FrontendURL() string
}

// VideoUploads is the upload hand-off used by the interview endpoints.
type VideoUploads interface {
	RequestUpload(ctx context.Context, userID, interviewID, filename, contentType string) (*upload.Ticket, error)
	CompleteUpload(ctx context.Context, userID, interviewID, videoPath string) (*model.Interview, error)
	DeleteVideos(ctx context.Context, iv *model.Interview) error
}
