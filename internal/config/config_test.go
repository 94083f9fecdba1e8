package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", secret)
	t.Setenv("S3_BUCKET_NAME", "videos")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, "dynamodb", cfg.StoreBackend)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Equal(t, time.Hour, cfg.UploadURLTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, cfg.PublicBaseURL, cfg.OAuthRedirectBaseURL)
	assert.True(t, cfg.NeedsAWS())
}

func TestLoadDotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(
		"STORE_BACKEND=sqlite\nSTORE_DSN=/tmp/app.db\nOBJECT_STORE=fs\nCORS_ORIGINS=http://a.test,http://b.test\n",
	), 0644))
	t.Setenv("SESSION_SECRET", secret)
	// Set so godotenv's change is undone after the test.
	for _, k := range []string{"STORE_BACKEND", "STORE_DSN", "OBJECT_STORE", "CORS_ORIGINS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "/tmp/app.db", cfg.StoreDSN)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.False(t, cfg.NeedsAWS())
}

func TestLoadRequiresSessionSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	os.Unsetenv("SESSION_SECRET")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "SESSION_SECRET")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			StoreBackend:         "memory",
			ObjectStore:          ObjectStoreFS,
			UploadDir:            "./uploads",
			SessionSecret:        secret,
			UploadURLTTL:         time.Hour,
			SessionTTL:           time.Hour,
			LogFormat:            "json",
			DynamoDBContentTable: "c",
			DynamoDBAuthTable:    "a",
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"sqlite without dsn", func(c *Config) { c.StoreBackend = "sqlite" }, "STORE_DSN"},
		{"unknown backend", func(c *Config) { c.StoreBackend = "mongo" }, "STORE_BACKEND"},
		{"s3 without bucket", func(c *Config) { c.ObjectStore = ObjectStoreS3 }, "S3_BUCKET_NAME"},
		{"short secret", func(c *Config) { c.SessionSecret = "short" }, "SESSION_SECRET"},
		{"half google", func(c *Config) { c.GoogleClientID = "id" }, "GOOGLE_CLIENT_SECRET"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
