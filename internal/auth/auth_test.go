package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/JFernando12/app-interviews-sub000/internal/model"
	"github.com/JFernando12/app-interviews-sub000/internal/store"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func fakeGitHub(t *testing.T) *Provider {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"gh-token","token_type":"bearer"}`))
	})
	mux.HandleFunc("GET /user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"login":"ada","email":"ada@example.com","avatar_url":"https://img/ada.png"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	p := GitHub("client", "secret", "http://localhost:8080")
	p.Config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token"}
	p.UserInfoURL = srv.URL + "/user"
	return p
}

func newTestManager(t *testing.T) (*Manager, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	m, err := NewManager(st, Options{
		Providers:   []*Provider{fakeGitHub(t)},
		Secret:      testSecret,
		FrontendURL: "http://localhost:3000",
	})
	require.NoError(t, err)
	return m, st
}

func cookieNamed(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name && c.MaxAge >= 0 {
			return c
		}
	}
	t.Fatalf("no %s cookie set", name)
	return nil
}

// signIn runs the full redirect and callback and returns the session cookie.
func signIn(t *testing.T, m *Manager) (*model.User, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	consent, err := m.BeginLogin(rec, ProviderGitHub)
	require.NoError(t, err)

	u, err := url.Parse(consent)
	require.NoError(t, err)
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?code=abc&state="+url.QueryEscape(state), nil)
	req.AddCookie(cookieNamed(t, rec, stateCookie))
	rec = httptest.NewRecorder()

	user, err := m.CompleteLogin(rec, req, ProviderGitHub)
	require.NoError(t, err)
	return user, cookieNamed(t, rec, SessionCookie)
}

func requestWith(c *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	if c != nil {
		req.AddCookie(c)
	}
	return req
}

func TestLoginCreatesUserProfileAndSession(t *testing.T) {
	m, st := newTestManager(t)

	user, cookie := signIn(t, m)
	assert.Equal(t, "ada", user.Name)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.True(t, cookie.HttpOnly)

	current, err := m.CurrentUser(requestWith(cookie))
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)

	profile, err := st.GetProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanFree, profile.Subscription.Plan)
	assert.Equal(t, "ada", profile.DisplayName)

	again, _ := signIn(t, m)
	assert.Equal(t, user.ID, again.ID, "same provider account maps to the same user")
}

func TestCompleteLoginRejectsBadState(t *testing.T) {
	m, _ := newTestManager(t)

	rec := httptest.NewRecorder()
	_, err := m.BeginLogin(rec, ProviderGitHub)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?code=abc&state=forged", nil)
	req.AddCookie(cookieNamed(t, rec, stateCookie))
	_, err = m.CompleteLogin(httptest.NewRecorder(), req, ProviderGitHub)
	assert.ErrorIs(t, err, ErrInvalidState)

	req = httptest.NewRequest(http.MethodGet, "/auth/github/callback?code=abc&state=x", nil)
	_, err = m.CompleteLogin(httptest.NewRecorder(), req, ProviderGitHub)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = m.BeginLogin(httptest.NewRecorder(), "myspace")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestSessionExpiry(t *testing.T) {
	m, st := newTestManager(t)
	user, cookie := signIn(t, m)

	m.now = func() time.Time { return time.Now().Add(DefaultSessionTTL + time.Minute) }
	_, err := m.CurrentUser(requestWith(cookie))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	m.now = time.Now
	_, err = m.CurrentUser(requestWith(cookie))
	assert.ErrorIs(t, err, ErrUnauthenticated, "expired session was deleted")

	_, err = st.GetUser(context.Background(), user.ID)
	assert.NoError(t, err)
}

func TestCurrentUserWithoutCookie(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.CurrentUser(requestWith(nil))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = m.CurrentUser(requestWith(&http.Cookie{Name: SessionCookie, Value: "tampered"}))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLogout(t *testing.T) {
	m, _ := newTestManager(t)
	_, cookie := signIn(t, m)

	rec := httptest.NewRecorder()
	require.NoError(t, m.Logout(rec, requestWith(cookie)))

	_, err := m.CurrentUser(requestWith(cookie))
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestNewManagerRejectsShortSecret(t *testing.T) {
	_, err := NewManager(store.NewMemoryStore(), Options{Secret: []byte("short")})
	assert.Error(t, err)
}

func TestParseGoogle(t *testing.T) {
	id, err := parseGoogle([]byte(`{"sub":"1234","name":"Grace","email":"g@example.com","picture":"p"}`))
	require.NoError(t, err)
	assert.Equal(t, &Identity{AccountID: "1234", Name: "Grace", Email: "g@example.com", Image: "p"}, id)

	_, err = parseGoogle([]byte(`{}`))
	assert.Error(t, err)
}

func TestCompleteLoginRejectsExpiredState(t *testing.T) {
	m, _ := newTestManager(t)

	rec := httptest.NewRecorder()
	consent, err := m.BeginLogin(rec, ProviderGitHub)
	require.NoError(t, err)
	u, err := url.Parse(consent)
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(stateTTL + time.Minute) }
	req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?code=abc&state="+url.QueryEscape(u.Query().Get("state")), nil)
	req.AddCookie(cookieNamed(t, rec, stateCookie))
	_, err = m.CompleteLogin(httptest.NewRecorder(), req, ProviderGitHub)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLongSessionTTL(t *testing.T) {
	ttl := 60 * 24 * time.Hour
	m, err := NewManager(store.NewMemoryStore(), Options{
		Providers:   []*Provider{fakeGitHub(t)},
		Secret:      testSecret,
		SessionTTL:  ttl,
		FrontendURL: "http://localhost:3000",
	})
	require.NoError(t, err)

	user, cookie := signIn(t, m)
	assert.Equal(t, int(ttl.Seconds()), cookie.MaxAge)

	m.now = func() time.Time { return time.Now().Add(45 * 24 * time.Hour) }
	current, err := m.CurrentUser(requestWith(cookie))
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
}

// racingLinks links the account to another user just before the manager's
// own link attempt, as a concurrent callback would.
type racingLinks struct {
	*store.MemoryStore
	created []string
}

func (s *racingLinks) CreateUser(ctx context.Context, u *model.User) error {
	s.created = append(s.created, u.ID)
	return s.MemoryStore.CreateUser(ctx, u)
}

func (s *racingLinks) LinkAccount(ctx context.Context, a *model.Account) error {
	winner := &model.User{ID: "winner", Name: "ada"}
	if err := s.MemoryStore.CreateUser(ctx, winner); err != nil {
		return err
	}
	if err := s.MemoryStore.LinkAccount(ctx, &model.Account{Provider: a.Provider, ProviderAccountID: a.ProviderAccountID, UserID: winner.ID}); err != nil {
		return err
	}
	return s.MemoryStore.LinkAccount(ctx, a)
}

func TestConcurrentLinkDropsUnlinkedUser(t *testing.T) {
	st := &racingLinks{MemoryStore: store.NewMemoryStore()}
	m, err := NewManager(st, Options{
		Providers:   []*Provider{fakeGitHub(t)},
		Secret:      testSecret,
		FrontendURL: "http://localhost:3000",
	})
	require.NoError(t, err)

	user, _ := signIn(t, m)
	assert.Equal(t, "winner", user.ID)

	require.Len(t, st.created, 1)
	_, err = st.GetUser(context.Background(), st.created[0])
	assert.ErrorIs(t, err, store.ErrNotFound)
}
