package upload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the part of the S3 client the gateway needs besides presigning.
type S3API interface {
	s3.ListObjectsV2APIClient
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Presigner signs PutObject requests.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Gateway implements Gateway using AWS S3 presigned URLs
type S3Gateway struct {
	client     S3API
	presigner  Presigner
	bucketName string
	now        func() time.Time
}

var _ Gateway = (*S3Gateway)(nil)

func NewS3Gateway(client S3API, presigner Presigner, bucketName string) (*S3Gateway, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}
	return &S3Gateway{
		client:     client,
		presigner:  presigner,
		bucketName: bucketName,
		now:        time.Now,
	}, nil
}

// NewS3GatewayFromConfig creates the S3 client and its presigner from an AWS config.
func NewS3GatewayFromConfig(cfg aws.Config, bucketName string) (*S3Gateway, error) {
	client := s3.NewFromConfig(cfg)
	return NewS3Gateway(client, s3.NewPresignClient(client), bucketName)
}

// PresignPut returns a URL the client can PUT the object to directly.
func (g *S3Gateway) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*Credential, error) {
	req, err := g.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(g.bucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	headers := map[string]string{"Content-Type": contentType}
	for name, values := range req.SignedHeader {
		if name == "Host" || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	return &Credential{
		URL:       req.URL,
		Method:    req.Method,
		Headers:   headers,
		ExpiresAt: g.now().Add(ttl),
	}, nil
}

// DeletePrefix removes every object under prefix. Individual delete
// failures are logged and skipped.
func (g *S3Gateway) DeletePrefix(ctx context.Context, prefix string) error {
	paginator := s3.NewListObjectsV2Paginator(g.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(g.bucketName),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list objects for deletion: %w", err)
		}

		for _, obj := range page.Contents {
			_, err := g.client.DeleteObject(ctx, &s3.DeleteObjectInput{
				Bucket: aws.String(g.bucketName),
				Key:    obj.Key,
			})
			if err != nil {
				slog.Warn("failed to delete object", "bucket", g.bucketName, "key", aws.ToString(obj.Key), "error", err)
				continue
			}
			slog.Debug("deleted object", "bucket", g.bucketName, "key", aws.ToString(obj.Key))
		}
	}
	return nil
}
