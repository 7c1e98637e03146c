package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"

	"github.com/mmynk/expensegenie/internal/models"
)

var (
	ErrGoogleExchange   = errors.New("google sign-in failed")
	ErrEmailNotVerified = errors.New("google account email is not verified")
	ErrGoogleDisabled   = errors.New("google sign-in is not configured")
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// GoogleUserStorage is what Google sign-in needs from persistence.
type GoogleUserStorage interface {
	UserStorage
	GetUserByGoogleSubject(ctx context.Context, subject string) (*models.User, error)
	LinkGoogleSubject(ctx context.Context, userID, subject string) error
}

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleAuthenticator signs users in with Google's OAuth 2.0 code flow and
// maps the Google account onto a local user, creating one on first sign-in.
type GoogleAuthenticator struct {
	oauth       *oauth2.Config
	userInfoURL string
	storage     GoogleUserStorage
}

// googleUserInfo is the subset of the OpenID userinfo response we use.
type googleUserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
}

// NewGoogleAuthenticator creates an authenticator against Google's endpoints.
func NewGoogleAuthenticator(cfg GoogleConfig, storage GoogleUserStorage) *GoogleAuthenticator {
	return NewGoogleAuthenticatorWithEndpoint(cfg, storage, endpoints.Google, googleUserInfoURL)
}

// NewGoogleAuthenticatorWithEndpoint allows pointing the flow at another
// OAuth provider (used by tests).
func NewGoogleAuthenticatorWithEndpoint(cfg GoogleConfig, storage GoogleUserStorage, endpoint oauth2.Endpoint, userInfoURL string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
		storage:     storage,
	}
}

// Enabled reports whether a client ID is configured.
func (a *GoogleAuthenticator) Enabled() bool {
	return a != nil && a.oauth.ClientID != ""
}

// NewState returns a random value for the OAuth state parameter.
func NewState() string {
	return uuid.New().String()
}

// AuthCodeURL is where the browser is sent to start sign-in.
func (a *GoogleAuthenticator) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades an authorization code for the local user, creating or
// linking the account as needed.
func (a *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*models.User, error) {
	if !a.Enabled() {
		return nil, ErrGoogleDisabled
	}
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrGoogleExchange)
	}

	token, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleExchange, err)
	}

	info, err := a.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, err
	}
	if !info.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return a.findOrCreate(ctx, info)
}

func (a *GoogleAuthenticator) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := a.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: userinfo: %v", ErrGoogleExchange, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: userinfo returned %s", ErrGoogleExchange, resp.Status)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode userinfo: %v", ErrGoogleExchange, err)
	}
	if info.Subject == "" || info.Email == "" {
		return nil, fmt.Errorf("%w: userinfo missing subject or email", ErrGoogleExchange)
	}
	return &info, nil
}

func (a *GoogleAuthenticator) findOrCreate(ctx context.Context, info *googleUserInfo) (*models.User, error) {
	user, err := a.storage.GetUserByGoogleSubject(ctx, info.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	// Same email registered with a password: link instead of duplicating.
	user, err = a.storage.GetUserByEmail(ctx, models.NormalizeEmail(info.Email))
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user != nil {
		if err := a.storage.LinkGoogleSubject(ctx, user.ID, info.Subject); err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		user.GoogleSubject = info.Subject
		return user, nil
	}

	name := info.Name
	if name == "" {
		name = info.Email
	}
	user = models.NewUser(info.Email, name, "")
	user.GoogleSubject = info.Subject
	if err := a.storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}
