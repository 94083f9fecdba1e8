package web

import (
	"errors"
	"net/http"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/upload"
)

type uploadVideoRequest struct {
	FileName    string `json:"file_name" validate:"required,max=255"`
	ContentType string `json:"content_type" validate:"required,max=255"`
}

type processVideoRequest struct {
	InterviewID string `json:"interview_id" validate:"required"`
	VideoPath   string `json:"video_path" validate:"required,max=1024"`
}

// handleUploadVideo returns a presigned PUT URL for direct upload.
// Request: POST { "file_name": "answer.mp4", "content_type": "video/mp4" }
// Response: { "upload_url": "https://...", "video_path": "videos/...", "expires_in": 3600 }
func (s *server) handleUploadVideo(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req uploadVideoRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	interviewID := r.PathValue("id")
	ticket, err := s.uploads.RequestUpload(r.Context(), user.ID, interviewID, req.FileName, req.ContentType)
	if err != nil {
		if errors.Is(err, upload.ErrInvalidFormat) {
			logger(r).Info("upload rejected", "interview_id", interviewID, "file_name", req.FileName, "content_type", req.ContentType, "reason", err)
		}
		s.writeError(w, r, err)
		return
	}

	logger(r).Info("upload url issued", "interview_id", interviewID, "video_path", ticket.VideoPath)
	s.sendJSON(w, ticket, http.StatusOK)
}

// handleProcessVideo records an uploaded video on the interview and queues
// it for processing.
// Request: POST { "interview_id": "...", "video_path": "videos/..." }
func (s *server) handleProcessVideo(w http.ResponseWriter, r *http.Request, user *model.User) {
	var req processVideoRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	iv, err := s.uploads.CompleteUpload(r.Context(), user.ID, req.InterviewID, req.VideoPath)
	if errors.Is(err, upload.ErrPublish) {
		// The path is stored; only the queue hand-off failed.
		logger(r).Error("video stored but not queued", "interview_id", req.InterviewID, "video_path", req.VideoPath, "error", err)
		s.sendJSON(w, map[string]any{
			"success": false,
			"message": "video saved but could not be queued for processing",
		}, http.StatusInternalServerError)
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	logger(r).Info("video queued for processing", "interview_id", iv.ID, "video_path", iv.VideoPath)
	s.sendJSON(w, map[string]any{"success": true, "interview": iv}, http.StatusOK)
}
