// Package auth signs users in with OAuth2 providers and keeps server-side
// sessions referenced by a signed cookie.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

const (
	SessionCookie = "session"
	stateCookie   = "oauth_state"

	DefaultSessionTTL = 30 * 24 * time.Hour
	stateTTL          = 10 * time.Minute
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrUnknownProvider = errors.New("unknown sign-in provider")
	ErrInvalidState    = errors.New("invalid or expired sign-in state")
	ErrMissingCode     = errors.New("missing authorization code")
)

type Options struct {
	Providers []*Provider
	// Secret signs the state and session cookies. At least 32 bytes.
	Secret      []byte
	SessionTTL  time.Duration
	FrontendURL string
	// HTTPClient is used for the token exchange and user info calls.
	HTTPClient *http.Client
}

type Stores interface {
	store.UserStore
	store.SessionStore
	store.ProfileStore
}

// Manager owns the sign-in flow and session lookup.
type Manager struct {
	stores      Stores
	providers   map[string]*Provider
	sessions    *securecookie.SecureCookie
	states      *securecookie.SecureCookie
	ttl         time.Duration
	frontendURL string
	secure      bool
	httpClient  *http.Client
	now         func() time.Time
}

type loginState struct {
	State    string
	Provider string
	Expires  int64
}

func NewManager(stores Stores, opts Options) (*Manager, error) {
	if len(opts.Secret) < 32 {
		return nil, fmt.Errorf("session secret must be at least 32 bytes")
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = DefaultSessionTTL
	}

	providers := make(map[string]*Provider, len(opts.Providers))
	for _, p := range opts.Providers {
		providers[p.Name] = p
	}

	return &Manager{
		stores:      stores,
		providers:   providers,
		sessions:    securecookie.New(opts.Secret, nil).MaxAge(int(opts.SessionTTL.Seconds())),
		states:      securecookie.New(opts.Secret, nil).MaxAge(int(stateTTL.Seconds())),
		ttl:         opts.SessionTTL,
		frontendURL: opts.FrontendURL,
		secure:      strings.HasPrefix(opts.FrontendURL, "https://"),
		httpClient:  opts.HTTPClient,
		now:         time.Now,
	}, nil
}

// Providers lists the enabled provider names, sorted.
func (m *Manager) Providers() []string {
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (m *Manager) FrontendURL() string {
	return m.frontendURL
}

func randomToken() string {
	return base64.RawURLEncoding.EncodeToString(securecookie.GenerateRandomKey(32))
}

func (m *Manager) setCookie(w http.ResponseWriter, codec *securecookie.SecureCookie, name string, value any, maxAge time.Duration) error {
	encoded, err := codec.Encode(name, value)
	if err != nil {
		return fmt.Errorf("failed to encode %s cookie: %w", name, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}

func readCookie(r *http.Request, codec *securecookie.SecureCookie, name string, dst any) error {
	c, err := r.Cookie(name)
	if err != nil {
		return err
	}
	return codec.Decode(name, c.Value, dst)
}

// BeginLogin stores a fresh state in a short-lived cookie and returns the
// provider's consent URL.
func (m *Manager) BeginLogin(w http.ResponseWriter, provider string) (string, error) {
	p, ok := m.providers[provider]
	if !ok {
		return "", ErrUnknownProvider
	}

	state := randomToken()
	saved := loginState{State: state, Provider: provider, Expires: m.now().Add(stateTTL).Unix()}
	if err := m.setCookie(w, m.states, stateCookie, saved, stateTTL); err != nil {
		return "", err
	}
	return p.Config.AuthCodeURL(state), nil
}

// CompleteLogin handles the provider callback: it checks the state, resolves
// the identity to a user and starts a session.
func (m *Manager) CompleteLogin(w http.ResponseWriter, r *http.Request, provider string) (*model.User, error) {
	p, ok := m.providers[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	var saved loginState
	if err := readCookie(r, m.states, stateCookie, &saved); err != nil {
		return nil, ErrInvalidState
	}
	clearCookie(w, stateCookie)
	if saved.State == "" || saved.State != r.URL.Query().Get("state") || saved.Provider != provider {
		return nil, ErrInvalidState
	}
	if m.now().Unix() > saved.Expires {
		return nil, ErrInvalidState
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	ctx := r.Context()
	if m.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	}
	id, err := p.identify(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := m.resolveUser(r.Context(), provider, id)
	if err != nil {
		return nil, err
	}
	if err := m.startSession(r.Context(), w, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// resolveUser finds the user linked to the identity or creates one with a
// default profile.
func (m *Manager) resolveUser(ctx context.Context, provider string, id *Identity) (*model.User, error) {
	user, err := m.stores.GetUserByAccount(ctx, provider, id.AccountID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		user, err = m.createUser(ctx, provider, id)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if _, err := m.stores.GetProfile(ctx, user.ID); errors.Is(err, store.ErrNotFound) {
		if err := m.stores.PutProfile(ctx, model.NewProfile(user.ID, user.Name, m.now().UTC())); err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return user, nil
}

func (m *Manager) createUser(ctx context.Context, provider string, id *Identity) (*model.User, error) {
	now := m.now().UTC()
	user := &model.User{
		ID:        uuid.NewString(),
		Name:      id.Name,
		Email:     id.Email,
		Image:     id.Image,
		CreatedAt: now,
	}
	if err := m.stores.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err := m.stores.LinkAccount(ctx, &model.Account{
		Provider:          provider,
		ProviderAccountID: id.AccountID,
		UserID:            user.ID,
		CreatedAt:         now,
	})
	if errors.Is(err, store.ErrDuplicate) {
		// A concurrent callback linked the account first; drop our user.
		if err := m.stores.DeleteUser(ctx, user.ID); err != nil {
			slog.Warn("failed to delete unlinked user", "user_id", user.ID, "error", err)
		}
		return m.stores.GetUserByAccount(ctx, provider, id.AccountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to link account: %w", err)
	}

	slog.Info("created user", "user_id", user.ID, "provider", provider)
	return user, nil
}

func (m *Manager) startSession(ctx context.Context, w http.ResponseWriter, userID string) error {
	now := m.now().UTC()
	sess := &model.Session{
		Token:     randomToken(),
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.stores.CreateSession(ctx, sess); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return m.setCookie(w, m.sessions, SessionCookie, sess.Token, m.ttl)
}

// Session returns the caller's live session. Expired sessions are deleted.
func (m *Manager) Session(r *http.Request) (*model.Session, error) {
	var token string
	if err := readCookie(r, m.sessions, SessionCookie, &token); err != nil || token == "" {
		return nil, ErrUnauthenticated
	}

	sess, err := m.stores.GetSession(r.Context(), token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if sess.Expired(m.now()) {
		if err := m.stores.DeleteSession(r.Context(), token); err != nil {
			slog.Warn("failed to delete expired session", "user_id", sess.UserID, "error", err)
		}
		return nil, ErrUnauthenticated
	}
	return sess, nil
}

// CurrentUser resolves the signed-in user of a request.
func (m *Manager) CurrentUser(r *http.Request) (*model.User, error) {
	sess, err := m.Session(r)
	if err != nil {
		return nil, err
	}
	user, err := m.stores.GetUser(r.Context(), sess.UserID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Logout ends the caller's session, if any, and clears the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	defer clearCookie(w, SessionCookie)

	var token string
	if err := readCookie(r, m.sessions, SessionCookie, &token); err != nil || token == "" {
		return nil
	}
	if err := m.stores.DeleteSession(r.Context(), token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
