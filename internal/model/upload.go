package model

import "time"

// UploadDescriptor is published once per completed video upload for the
// external processing consumer.
type UploadDescriptor struct {
	InterviewID string    `json:"interview_id"`
	VideoPath   string    `json:"video_path"`
	UserID      string    `json:"user_id"`
	Timestamp   time.Time `json:"timestamp"`
}
