// Package app wires configuration into the concrete backends shared by the
// server and the admin tool.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"github.com/JFernando12/app-interviews-sub000/internal/auth"
	"github.com/JFernando12/app-interviews-sub000/internal/config"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
	"github.com/JFernando12/app-interviews-sub000/internal/upload"
)

// AWSLoader loads the AWS SDK configuration once and reuses it.
type AWSLoader struct {
	region string
	cfg    *aws.Config
}

func NewAWSLoader(region string) *AWSLoader {
	return &AWSLoader{region: region}
}

func (l *AWSLoader) Load(ctx context.Context) (aws.Config, error) {
	if l.cfg != nil {
		return *l.cfg, nil
	}
	var opts []func(*awsconfig.LoadOptions) error
	if l.region != "" {
		opts = append(opts, awsconfig.WithRegion(l.region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load SDK config: %w", err)
	}
	l.cfg = &cfg
	return cfg, nil
}

func OpenStore(ctx context.Context, cfg *config.Config, aws *AWSLoader) (store.Store, error) {
	return store.Open(ctx, store.Options{
		Backend:      cfg.StoreBackend,
		DSN:          cfg.StoreDSN,
		ContentTable: cfg.DynamoDBContentTable,
		AuthTable:    cfg.DynamoDBAuthTable,
		LoadAWS:      aws.Load,
	})
}

// NewGateway returns the configured object store gateway. The filesystem
// gateway is also returned as an http.Handler for direct uploads.
func NewGateway(ctx context.Context, cfg *config.Config, aws *AWSLoader) (upload.Gateway, *upload.FSGateway, error) {
	switch cfg.ObjectStore {
	case config.ObjectStoreS3:
		awsCfg, err := aws.Load(ctx)
		if err != nil {
			return nil, nil, err
		}
		gw, err := upload.NewS3GatewayFromConfig(awsCfg, cfg.S3BucketName)
		return gw, nil, err
	case config.ObjectStoreFS:
		gw, err := upload.NewFSGateway(cfg.UploadDir, cfg.PublicBaseURL, []byte(cfg.SessionSecret))
		return gw, gw, err
	}
	return nil, nil, fmt.Errorf("unsupported object store: %q", cfg.ObjectStore)
}

// NewPublisher publishes to SQS when a queue is configured and only logs
// otherwise.
func NewPublisher(ctx context.Context, cfg *config.Config, aws *AWSLoader) (upload.Publisher, error) {
	if cfg.SQSQueueURL == "" {
		slog.Warn("SQS_QUEUE_URL not set, upload descriptors will only be logged")
		return upload.LogPublisher{}, nil
	}
	awsCfg, err := aws.Load(ctx)
	if err != nil {
		return nil, err
	}
	return upload.NewSQSPublisherFromConfig(awsCfg, cfg.SQSQueueURL)
}

// Providers returns the OAuth providers that have credentials configured.
func Providers(cfg *config.Config) []*auth.Provider {
	var providers []*auth.Provider
	if cfg.GoogleClientID != "" {
		providers = append(providers, auth.Google(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.OAuthRedirectBaseURL))
	}
	if cfg.GitHubClientID != "" {
		providers = append(providers, auth.GitHub(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.OAuthRedirectBaseURL))
	}
	return providers
}
