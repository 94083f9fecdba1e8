package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// Provider names.
const (
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// Identity is what a provider tells us about the signed-in account.
type Identity struct {
	AccountID string
	Name      string
	Email     string
	Image     string
}

// Provider is one OAuth2 identity provider.
type Provider struct {
	Name        string
	Config      *oauth2.Config
	UserInfoURL string
	parse       func(body []byte) (*Identity, error)
}

// Google builds the Google provider. redirectBase is the externally visible
// base URL of this service.
func Google(clientID, clientSecret, redirectBase string) *Provider {
	return &Provider{
		Name: ProviderGoogle,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoints.Google,
			RedirectURL:  callbackURL(redirectBase, ProviderGoogle),
			Scopes:       []string{"openid", "email", "profile"},
		},
		UserInfoURL: "https://openidconnect.googleapis.com/v1/userinfo",
		parse:       parseGoogle,
	}
}

// GitHub builds the GitHub provider.
func GitHub(clientID, clientSecret, redirectBase string) *Provider {
	return &Provider{
		Name: ProviderGitHub,
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     endpoints.GitHub,
			RedirectURL:  callbackURL(redirectBase, ProviderGitHub),
			Scopes:       []string{"read:user", "user:email"},
		},
		UserInfoURL: "https://api.github.com/user",
		parse:       parseGitHub,
	}
}

func callbackURL(base, provider string) string {
	return fmt.Sprintf("%s/auth/%s/callback", base, provider)
}

func parseGoogle(body []byte) (*Identity, error) {
	var info struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode google user info: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("google user info has no subject")
	}
	return &Identity{AccountID: info.Sub, Name: info.Name, Email: info.Email, Image: info.Picture}, nil
}

func parseGitHub(body []byte) (*Identity, error) {
	var info struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to decode github user info: %w", err)
	}
	if info.ID == 0 {
		return nil, fmt.Errorf("github user info has no id")
	}
	name := info.Name
	if name == "" {
		name = info.Login
	}
	return &Identity{AccountID: strconv.FormatInt(info.ID, 10), Name: name, Email: info.Email, Image: info.AvatarURL}, nil
}

// identify exchanges the authorization code and fetches the user info.
func (p *Provider) identify(ctx context.Context, code string) (*Identity, error) {
	tok, err := p.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s code exchange: %w", p.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.Config.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s user info: %w", p.Name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s user info: %w", p.Name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s user info: unexpected status %d", p.Name, resp.StatusCode)
	}
	return p.parse(body)
}
