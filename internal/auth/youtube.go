package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const youtubeUploadScope = "https://www.googleapis.com/auth/youtube.upload"

// YouTube wraps the Google OAuth flow and hands out http clients whose
// tokens refresh transparently. Refreshed tokens go through the persist
// callback.
type YouTube struct {
	oauth     *oauth2.Config
	tokenPath string
	logger    *slog.Logger
	persist   func(*oauth2.Token) error
}

func NewYouTube(clientID, clientSecret, redirectURI, tokenPath string, logger *slog.Logger) *YouTube {
	y := &YouTube{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{youtubeUploadScope},
			Endpoint:     google.Endpoint,
		},
		tokenPath: tokenPath,
		logger:    logger,
	}
	y.persist = y.saveToken
	return y
}

// AuthCodeURL builds the consent URL. Offline access with forced approval
// guarantees a refresh token on every authorization.
func (y *YouTube) AuthCodeURL(state string) string {
	return y.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

func (y *YouTube) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := y.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}
	if err := y.persist(token); err != nil {
		return nil, err
	}
	y.logger.Info("youtube authorized", "expires_at", token.Expiry)
	return token, nil
}

// Client returns an http client that attaches and refreshes the stored
// token. ErrNoToken means the authorization flow has not run yet.
func (y *YouTube) Client(ctx context.Context) (*http.Client, error) {
	token, err := y.loadToken()
	if err != nil {
		return nil, err
	}
	src := &persistingSource{
		inner:   y.oauth.TokenSource(ctx, token),
		last:    token.AccessToken,
		persist: y.persist,
		logger:  y.logger,
	}
	return oauth2.NewClient(ctx, src), nil
}

func (y *YouTube) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(y.tokenPath)
	if os.IsNotExist(err) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", y.tokenPath, err)
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, ErrNoToken
	}
	return &token, nil
}

func (y *YouTube) saveToken(token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(y.tokenPath, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// persistingSource saves the token whenever the underlying source rotates
// the access token.
type persistingSource struct {
	inner   oauth2.TokenSource
	persist func(*oauth2.Token) error
	logger  *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *persistingSource) Token() (*oauth2.Token, error) {
	token, err := s.inner.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	rotated := token.AccessToken != s.last
	if rotated {
		s.last = token.AccessToken
	}
	s.mu.Unlock()

	if rotated {
		s.logger.Info("youtube token refreshed", "expires_at", token.Expiry)
		if err := s.persist(token); err != nil {
			s.logger.Warn("could not persist refreshed token", "error", err)
		}
	}
	return token, nil
}
