package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

var (
	ErrForbidden     = errors.New("interview belongs to another user")
	ErrMissingFields = errors.New("missing required fields")
	ErrForeignKey    = errors.New("video path does not belong to this interview")
	ErrNoVideo       = errors.New("interview has no uploaded video")
	ErrPublish       = errors.New("failed to publish upload descriptor")
)

// Ticket is what a client needs to upload a video directly to object storage.
type Ticket struct {
	UploadURL string            `json:"upload_url"`
	VideoPath string            `json:"video_path"`
	ExpiresIn int               `json:"expires_in"`
	Method    string            `json:"method,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
}

// Service runs the two-call hand-off: issue an upload credential, then
// record the uploaded key and notify the processing queue.
type Service struct {
	interviews store.InterviewStore
	gateway    Gateway
	publisher  Publisher
	ttl        time.Duration
	now        func() time.Time
}

func NewService(interviews store.InterviewStore, gateway Gateway, publisher Publisher, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultURLTTL
	}
	return &Service{
		interviews: interviews,
		gateway:    gateway,
		publisher:  publisher,
		ttl:        ttl,
		now:        time.Now,
	}
}

func (s *Service) ownedInterview(ctx context.Context, userID, interviewID string) (*model.Interview, error) {
	iv, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if !iv.OwnedBy(userID) {
		return nil, ErrForbidden
	}
	return iv, nil
}

// RequestUpload validates the file against the allow-list and returns a
// presigned PUT for a fresh key. No record is changed.
func (s *Service) RequestUpload(ctx context.Context, userID, interviewID, filename, contentType string) (*Ticket, error) {
	if interviewID == "" || filename == "" || contentType == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.ownedInterview(ctx, userID, interviewID); err != nil {
		return nil, err
	}
	if err := ValidateVideo(filename, contentType); err != nil {
		return nil, err
	}

	key := VideoKey(userID, interviewID, s.now(), filename)
	cred, err := s.gateway.PresignPut(ctx, key, contentType, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("presign upload for interview %s: %w", interviewID, err)
	}

	return &Ticket{
		UploadURL: cred.URL,
		VideoPath: key,
		ExpiresIn: int(s.ttl.Seconds()),
		Method:    cred.Method,
		Headers:   cred.Headers,
	}, nil
}

// CompleteUpload stores the uploaded key on the interview and publishes the
// descriptor. A publish failure is returned after the update has been
// applied; the stored path is not rolled back.
func (s *Service) CompleteUpload(ctx context.Context, userID, interviewID, videoPath string) (*model.Interview, error) {
	if interviewID == "" || videoPath == "" {
		return nil, ErrMissingFields
	}
	if _, err := s.ownedInterview(ctx, userID, interviewID); err != nil {
		return nil, err
	}
	if !OwnsKey(userID, interviewID, videoPath) {
		return nil, ErrForeignKey
	}

	iv, err := s.interviews.UpdateInterview(ctx, interviewID, model.InterviewPatch{VideoPath: &videoPath})
	if err != nil {
		return nil, fmt.Errorf("store video path for interview %s: %w", interviewID, err)
	}

	if err := s.publish(ctx, iv); err != nil {
		return iv, err
	}
	return iv, nil
}

// Republish re-sends the descriptor of an interview that already has a
// video. Operators use it after a failed publish.
func (s *Service) Republish(ctx context.Context, interviewID string) (*model.UploadDescriptor, error) {
	iv, err := s.interviews.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.VideoPath == "" {
		return nil, ErrNoVideo
	}
	d := s.descriptor(iv)
	if err := s.publisher.Publish(ctx, d); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return &d, nil
}

// DeleteVideos removes every uploaded object of an interview.
func (s *Service) DeleteVideos(ctx context.Context, iv *model.Interview) error {
	return s.gateway.DeletePrefix(ctx, VideoPrefix(iv.UserID, iv.ID))
}

func (s *Service) descriptor(iv *model.Interview) model.UploadDescriptor {
	return model.UploadDescriptor{
		InterviewID: iv.ID,
		VideoPath:   iv.VideoPath,
		UserID:      iv.UserID,
		Timestamp:   s.now().UTC(),
	}
}

func (s *Service) publish(ctx context.Context, iv *model.Interview) error {
	if err := s.publisher.Publish(ctx, s.descriptor(iv)); err != nil {
		slog.Error("upload recorded but descriptor not published",
			"interview_id", iv.ID,
			"video_path", iv.VideoPath,
			"error", err,
		)
		return fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return nil
}
