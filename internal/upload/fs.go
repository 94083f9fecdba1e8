package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
)

// MaxUploadBytes caps a single direct upload to the filesystem gateway.
const MaxUploadBytes = 2 << 30

// FSGateway implements Gateway on the local filesystem. It signs URLs that
// point back at this service's PUT /uploads/{key...} route, which it also
// serves.
type FSGateway struct {
	baseDir string
	baseURL string
	codec   *securecookie.SecureCookie
	now     func() time.Time
}

var (
	_ Gateway      = (*FSGateway)(nil)
	_ http.Handler = (*FSGateway)(nil)
)

type uploadGrant struct {
	Key         string
	ContentType string
	Expires     int64
}

func NewFSGateway(baseDir, baseURL string, secret []byte) (*FSGateway, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("signing secret is required")
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	// Expiry lives in the grant and is checked against fs.now.
	return &FSGateway{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		codec:   securecookie.New(secret, nil).MaxAge(0),
		now:     time.Now,
	}, nil
}

func (fs *FSGateway) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (*Credential, error) {
	expires := fs.now().Add(ttl)
	token, err := fs.codec.Encode("upload", uploadGrant{Key: key, ContentType: contentType, Expires: expires.Unix()})
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload URL: %w", err)
	}

	u := fmt.Sprintf("%s/uploads/%s?token=%s", fs.baseURL, escapeKey(key), url.QueryEscape(token))
	return &Credential{
		URL:       u,
		Method:    http.MethodPut,
		Headers:   map[string]string{"Content-Type": contentType},
		ExpiresAt: expires,
	}, nil
}

func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}

func (fs *FSGateway) DeletePrefix(_ context.Context, prefix string) error {
	dir := filepath.Join(fs.baseDir, filepath.FromSlash(strings.TrimSuffix(prefix, "/")))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to delete upload directory: %w", err)
	}
	return nil
}

// Path returns where key is stored on disk.
func (fs *FSGateway) Path(key string) string {
	return filepath.Join(fs.baseDir, filepath.FromSlash(key))
}

func (fs *FSGateway) verify(r *http.Request, key string) error {
	var grant uploadGrant
	if err := fs.codec.Decode("upload", r.URL.Query().Get("token"), &grant); err != nil {
		return errors.New("invalid upload token")
	}
	if grant.Key != key {
		return errors.New("upload token does not match key")
	}
	if fs.now().Unix() > grant.Expires {
		return errors.New("upload token expired")
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, grant.ContentType) {
		return errors.New("content type does not match upload token")
	}
	return nil
}

// ServeHTTP accepts a signed direct upload. Route it as PUT /uploads/{key...}.
func (fs *FSGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		http.Error(w, "invalid key", http.StatusBadRequest)
		return
	}
	if err := fs.verify(r, key); err != nil {
		http.Error(w, err.Error(), http.StatusForbidden)
		return
	}

	if err := fs.write(key, http.MaxBytesReader(w, r.Body, MaxUploadBytes)); err != nil {
		slog.Error("failed to store upload", "key", key, "error", err)
		http.Error(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	slog.Info("stored upload", "key", key)
	w.WriteHeader(http.StatusOK)
}

func (fs *FSGateway) write(key string, body io.Reader) error {
	dst := fs.Path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to move upload into place: %w", err)
	}
	return nil
}
