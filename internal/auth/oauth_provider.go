package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"

	"github.com/go-storybook/storybook/internal/config"
)

// OAuthProviderConfig contains configuration for an OAuth provider
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// OAuthUserInfo contains the normalized profile from an OAuth provider
type OAuthUserInfo struct {
	ProviderUserID string // Provider's subject id
	FirstName      string
	LastName       string
	FullName       string
	Email          string // Required; login fails without it
	AvatarURL      string
}

// OAuthProvider handles the OAuth client flow for one identity provider
type OAuthProvider struct {
	config     *oauth2.Config
	provider   string // "google" or "facebook"
	failureURL string // where a failed callback redirects
}

// NewGoogleProvider creates a new Google OAuth provider
func NewGoogleProvider(cfg OAuthProviderConfig) *OAuthProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.email",
		}
	}
	return &OAuthProvider{
		provider:   config.ProviderGoogle,
		failureURL: "/",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

// NewFacebookProvider creates a new Facebook OAuth provider
func NewFacebookProvider(cfg OAuthProviderConfig) *OAuthProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"email"}
	}
	return &OAuthProvider{
		provider:   config.ProviderFacebook,
		failureURL: "/",
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     facebook.Endpoint,
		},
	}
}

// GetAuthURL returns the OAuth authorization URL
func (p *OAuthProvider) GetAuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// ExchangeCode exchanges an authorization code for an access token
func (p *OAuthProvider) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.config.Exchange(ctx, code)
}

// GetUserInfo retrieves the normalized profile from the provider
func (p *OAuthProvider) GetUserInfo(
	ctx context.Context,
	token *oauth2.Token,
) (*OAuthUserInfo, error) {
	switch p.provider {
	case config.ProviderGoogle:
		return p.getGoogleUserInfo(ctx, token)
	case config.ProviderFacebook:
		return p.getFacebookUserInfo(ctx, token)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p.provider)
	}
}

// GetProvider returns the provider name
func (p *OAuthProvider) GetProvider() string {
	return p.provider
}

// GetFailureURL returns the route a failed callback redirects to
func (p *OAuthProvider) GetFailureURL() string {
	return p.failureURL
}

// GetDisplayName returns the human-readable provider name
func (p *OAuthProvider) GetDisplayName() string {
	switch p.provider {
	case config.ProviderGoogle:
		return "Google"
	case config.ProviderFacebook:
		return "Facebook"
	default:
		if len(p.provider) == 0 {
			return ""
		}
		firstChar := p.provider[0]
		if firstChar >= 'a' && firstChar <= 'z' {
			firstChar -= 32
		}
		return string(firstChar) + p.provider[1:]
	}
}

// Google user info structure
type googleUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// getGoogleUserInfo retrieves user info from the Google userinfo endpoint
func (p *OAuthProvider) getGoogleUserInfo(
	ctx context.Context,
	token *oauth2.Token,
) (*OAuthUserInfo, error) {
	var user googleUser
	if err := p.fetchJSON(ctx, token, "https://www.googleapis.com/oauth2/v2/userinfo", &user); err != nil {
		return nil, err
	}

	// A profile without an email would create a malformed user record
	if user.Email == "" {
		return nil, fmt.Errorf("google account has no email address")
	}

	return &OAuthUserInfo{
		ProviderUserID: user.ID,
		FirstName:      user.GivenName,
		LastName:       user.FamilyName,
		FullName:       user.Name,
		Email:          user.Email,
		AvatarURL:      user.Picture,
	}, nil
}

// Facebook user info structures
type facebookUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Picture   struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

// getFacebookUserInfo retrieves user info from the Facebook Graph API
func (p *OAuthProvider) getFacebookUserInfo(
	ctx context.Context,
	token *oauth2.Token,
) (*OAuthUserInfo, error) {
	const url = "https://graph.facebook.com/me?fields=id,email,name,first_name,last_name,picture"

	var user facebookUser
	if err := p.fetchJSON(ctx, token, url, &user); err != nil {
		return nil, err
	}

	// Facebook omits the email when the account has none or denied the scope
	if user.Email == "" {
		return nil, fmt.Errorf("facebook account has no email address")
	}

	return &OAuthUserInfo{
		ProviderUserID: user.ID,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		FullName:       user.Name,
		Email:          user.Email,
		AvatarURL:      user.Picture.Data.URL,
	}, nil
}

// fetchJSON performs an authenticated GET against a provider endpoint and
// decodes the JSON response into out.
func (p *OAuthProvider) fetchJSON(
	ctx context.Context,
	token *oauth2.Token,
	url string,
	out any,
) error {
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s API error: %s - %s", p.provider, resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode user info: %w", err)
	}

	return nil
}
