package user

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/nirman-app/nirman/config"
)

// Provider a third-party sign-in provider reached through the OAuth
// authorization-code redirect flow
type Provider struct {
	cfg  config.OAuth
	http *http.Client
}

// OAuthUserInfo the provider account fields the auto-register needs
type OAuthUserInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// NewProvider create a provider from the OAuth config
func NewProvider(cfg config.OAuth) *Provider {
	return &Provider{cfg: cfg, http: &http.Client{Timeout: 10 * time.Second}}
}

// Configured reports whether a provider was set up
func (provider *Provider) Configured() bool {
	return provider.cfg.ClientID != "" && provider.cfg.AuthorizeURL != "" && provider.cfg.TokenURL != ""
}

// AuthorizeURL build the redirect target of the sign-in button.
// The state token guards the callback against forgery.
func (provider *Provider) AuthorizeURL(state string) string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", provider.cfg.ClientID)
	params.Set("redirect_uri", provider.cfg.RedirectURI)
	params.Set("scope", provider.cfg.Scopes)
	params.Set("state", state)
	return fmt.Sprintf("%s?%s", provider.cfg.AuthorizeURL, params.Encode())
}

// NewState generate a state token for one authorization round-trip
func NewState() string {
	return uuid.New().String()
}

// Exchange trade the authorization code for an access token
func (provider *Provider) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", provider.cfg.ClientID)
	form.Set("client_secret", provider.cfg.ClientSecret)
	form.Set("redirect_uri", provider.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := provider.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	token := tokenResponse{}
	if err := jsoniter.Unmarshal(body, &token); err != nil {
		return "", fmt.Errorf("token endpoint returned %d: %s", res.StatusCode, string(body))
	}

	if token.Error != "" {
		return "", fmt.Errorf("%s: %s", token.Error, token.ErrorDesc)
	}

	if token.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned %d: %s", res.StatusCode, string(body))
	}

	return token.AccessToken, nil
}

// FetchUserInfo read the provider account behind an access token
func (provider *Provider) FetchUserInfo(ctx context.Context, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.cfg.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	res, err := provider.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo endpoint returned %d: %s", res.StatusCode, string(body))
	}

	userinfo := OAuthUserInfo{}
	if err := jsoniter.Unmarshal(body, &userinfo); err != nil {
		return nil, err
	}

	if userinfo.Email == "" {
		return nil, fmt.Errorf("provider did not return an email address")
	}

	return &userinfo, nil
}

// CallbackSignIn complete the redirect flow: exchange the code, read
// the provider account and sign in, auto-registering unknown users.
func (provider *Provider) CallbackSignIn(ctx context.Context, accounts Accounts, code string) (*LoginResponse, error) {
	accessToken, err := provider.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	userinfo, err := provider.FetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	account, err := accounts.FindOrCreateOAuthUser(userinfo.Email, userinfo.Name)
	if err != nil {
		return nil, err
	}

	return login(accounts, account)
}
