package upload

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
)

type fakeSQS struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQS) SendMessage(_ context.Context, in *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSPublisher(t *testing.T) {
	client := &fakeSQS{}
	pub, err := NewSQSPublisher(client, "https://sqs.us-east-1.amazonaws.com/123/uploads")
	require.NoError(t, err)

	d := model.UploadDescriptor{
		InterviewID: "iv1",
		VideoPath:   "videos/u1/iv1/1_a.mp4",
		UserID:      "u1",
		Timestamp:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.Publish(context.Background(), d))

	assert.Equal(t, "https://sqs.us-east-1.amazonaws.com/123/uploads", aws.ToString(client.input.QueueUrl))

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.input.MessageBody)), &body))
	assert.Equal(t, map[string]any{
		"interview_id": "iv1",
		"video_path":   "videos/u1/iv1/1_a.mp4",
		"user_id":      "u1",
		"timestamp":    "2026-01-01T00:00:00Z",
	}, body)
}

func TestSQSPublisherError(t *testing.T) {
	pub, err := NewSQSPublisher(&fakeSQS{err: errors.New("throttled")}, "q")
	require.NoError(t, err)
	assert.ErrorContains(t, pub.Publish(context.Background(), model.UploadDescriptor{}), "throttled")

	_, err = NewSQSPublisher(&fakeSQS{}, "")
	assert.Error(t, err)
}
