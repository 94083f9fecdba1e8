package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

// Publisher hands an upload descriptor to the downstream consumer.
type Publisher interface {
	Publish(ctx context.Context, d model.UploadDescriptor) error
}

type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSPublisher sends each descriptor as one JSON message to a single queue.
type SQSPublisher struct {
	client   SQSAPI
	queueURL string
}

var _ Publisher = (*SQSPublisher)(nil)

func NewSQSPublisher(client SQSAPI, queueURL string) (*SQSPublisher, error) {
	if queueURL == "" {
		return nil, fmt.Errorf("SQS queue URL is required")
	}
	return &SQSPublisher{client: client, queueURL: queueURL}, nil
}

func NewSQSPublisherFromConfig(cfg aws.Config, queueURL string) (*SQSPublisher, error) {
	return NewSQSPublisher(sqs.NewFromConfig(cfg), queueURL)
}

func (p *SQSPublisher) Publish(ctx context.Context, d model.UploadDescriptor) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to encode upload descriptor: %w", err)
	}

	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue upload descriptor: %w", err)
	}

	slog.Info("enqueued upload descriptor", "interview_id", d.InterviewID, "message_id", aws.ToString(out.MessageId))
	return nil
}

// LogPublisher only logs descriptors. It stands in for the queue when none
// is configured.
type LogPublisher struct{}

var _ Publisher = LogPublisher{}

func (LogPublisher) Publish(_ context.Context, d model.UploadDescriptor) error {
	slog.Info("upload descriptor (no queue configured)",
		"interview_id", d.InterviewID,
		"video_path", d.VideoPath,
		"user_id", d.UserID,
	)
	return nil
}
