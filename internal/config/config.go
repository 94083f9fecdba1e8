// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Object store backends.
const (
	ObjectStoreS3 = "s3"
	ObjectStoreFS = "fs"
)

// Config is the static configuration of the web server and admin tool.
type Config struct {
	Address     string   `env:"ADDRESS" envDefault:":8080"`
	FrontendURL string   `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"dynamodb"`
	StoreDSN     string `env:"STORE_DSN"`

	AWSRegion            string `env:"AWS_REGION"`
	DynamoDBContentTable string `env:"DYNAMODB_CONTENT_TABLE" envDefault:"interviews-content"`
	DynamoDBAuthTable    string `env:"DYNAMODB_AUTH_TABLE" envDefault:"interviews-auth"`

	ObjectStore   string        `env:"OBJECT_STORE" envDefault:"s3"`
	S3BucketName  string        `env:"S3_BUCKET_NAME"`
	UploadDir     string        `env:"UPLOAD_DIR" envDefault:"./uploads"`
	PublicBaseURL string        `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	SQSQueueURL   string        `env:"SQS_QUEUE_URL"`
	UploadURLTTL  time.Duration `env:"UPLOAD_URL_TTL" envDefault:"1h"`

	GoogleClientID       string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `env:"GOOGLE_CLIENT_SECRET"`
	GitHubClientID       string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret   string `env:"GITHUB_CLIENT_SECRET"`
	OAuthRedirectBaseURL string `env:"OAUTH_REDIRECT_BASE_URL"`

	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"720h"`
}

// Load reads an optional .env file and then parses the environment. Values
// already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.OAuthRedirectBaseURL == "" {
		cfg.OAuthRedirectBaseURL = cfg.PublicBaseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that depend on each other.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case "dynamodb":
		if c.DynamoDBContentTable == "" || c.DynamoDBAuthTable == "" {
			errs = append(errs, errors.New("DYNAMODB_CONTENT_TABLE and DYNAMODB_AUTH_TABLE are required for the dynamodb backend"))
		}
	case "sqlite", "postgres":
		if c.StoreDSN == "" {
			errs = append(errs, fmt.Errorf("STORE_DSN is required for the %s backend", c.StoreBackend))
		}
	case "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.ObjectStore {
	case ObjectStoreS3:
		if c.S3BucketName == "" {
			errs = append(errs, errors.New("S3_BUCKET_NAME is required when OBJECT_STORE=s3"))
		}
	case ObjectStoreFS:
		if c.UploadDir == "" {
			errs = append(errs, errors.New("UPLOAD_DIR is required when OBJECT_STORE=fs"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown OBJECT_STORE %q", c.ObjectStore))
	}

	if len(c.SessionSecret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters"))
	}
	if (c.GoogleClientID == "") != (c.GoogleClientSecret == "") {
		errs = append(errs, errors.New("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set together"))
	}
	if (c.GitHubClientID == "") != (c.GitHubClientSecret == "") {
		errs = append(errs, errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET must be set together"))
	}
	if c.UploadURLTTL <= 0 || c.SessionTTL <= 0 {
		errs = append(errs, errors.New("UPLOAD_URL_TTL and SESSION_TTL must be positive"))
	}

	switch strings.ToLower(c.LogFormat) {
	case "json", "text", "auto":
	default:
		errs = append(errs, fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

// NeedsAWS reports whether any configured backend talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.StoreBackend == "dynamodb" || c.ObjectStore == ObjectStoreS3 || c.SQSQueueURL != ""
}
