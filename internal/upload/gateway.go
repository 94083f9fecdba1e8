package upload

import (
	"context"
	"time"
)

// DefaultURLTTL is how long an issued upload URL stays valid.
const DefaultURLTTL = time.Hour

// Credential is a time-limited permission to PUT one object.
type Credential struct {
	URL       string
	Method    string
	Headers   map[string]string
	ExpiresAt time.Time
}

// Gateway issues upload credentials for an object store and removes objects
// that belong to deleted interviews.
type Gateway interface {
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*Credential, error)
	DeletePrefix(ctx context.Context, prefix string) error
}
