package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"quotereel/pkg/config"
)

const (
	tiktokAuthURL  = "https://www.tiktok.com/v2/auth/authorize/"
	tiktokTokenURL = "https://open.tiktokapis.com/v2/oauth/token/"

	// Tokens expiring within this window are refreshed before use.
	refreshLeeway = 60 * time.Second

	// Abandoned consent flows are dropped after this long.
	pendingTTL = 10 * time.Minute
)

// Doer is the http client surface the managers need.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TikTok drives the TikTok OAuth flow with PKCE and keeps the stored
// credentials fresh. New tokens are handed to the persist callback, so the
// manager never decides where they live.
type TikTok struct {
	clientKey    string
	clientSecret string
	redirectURI  string
	tokenURL     string
	client       Doer
	logger       *slog.Logger
	persist      func(*Credentials) error
	now          func() time.Time

	mu      sync.Mutex
	pending map[string]pendingFlow // keyed by state
}

type pendingFlow struct {
	verifier string
	started  time.Time
}

func NewTikTok(clientKey, clientSecret, redirectURI string, client Doer, persist func(*Credentials) error, logger *slog.Logger) *TikTok {
	return &TikTok{
		clientKey:    clientKey,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		tokenURL:     tiktokTokenURL,
		client:       client,
		logger:       logger,
		persist:      persist,
		now:          time.Now,
		pending:      make(map[string]pendingFlow),
	}
}

// SetTokenURL points the manager at a different token endpoint. Tests use
// it to stub TikTok.
func (t *TikTok) SetTokenURL(u string) { t.tokenURL = u }

// AuthorizeURL builds the consent URL. The returned state identifies the
// pending flow; the matching PKCE verifier is retained until Exchange or
// until the flow ages out. Expired flows are evicted here, so abandoned
// consent attempts cannot accumulate.
func (t *TikTok) AuthorizeURL() (authURL, state string, err error) {
	state, err = RandomState()
	if err != nil {
		return "", "", err
	}
	verifier, err := newVerifier()
	if err != nil {
		return "", "", err
	}

	now := t.now()
	t.mu.Lock()
	for s, flow := range t.pending {
		if now.Sub(flow.started) > pendingTTL {
			delete(t.pending, s)
		}
	}
	t.pending[state] = pendingFlow{verifier: verifier, started: now}
	t.mu.Unlock()

	q := url.Values{
		"client_key":            {t.clientKey},
		"response_type":         {"code"},
		"scope":                 {config.TikTokScopes},
		"redirect_uri":          {t.redirectURI},
		"state":                 {state},
		"code_challenge":        {challenge(verifier)},
		"code_challenge_method": {"S256"},
	}
	return tiktokAuthURL + "?" + q.Encode(), state, nil
}

// Exchange swaps the authorization code for tokens. The state must match a
// pending flow; its verifier is consumed so a replayed callback fails.
func (t *TikTok) Exchange(ctx context.Context, state, code string) (*Credentials, error) {
	t.mu.Lock()
	flow, ok := t.pending[state]
	delete(t.pending, state)
	t.mu.Unlock()
	if !ok || t.now().Sub(flow.started) > pendingTTL {
		return nil, fmt.Errorf("missing verifier for state %q", state)
	}
	verifier := flow.verifier

	form := url.Values{
		"client_key":    {t.clientKey},
		"client_secret": {t.clientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {t.redirectURI},
		"code_verifier": {verifier},
	}
	creds, err := t.tokenRequest(ctx, form)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	if err := t.persist(creds); err != nil {
		return nil, fmt.Errorf("persist credentials: %w", err)
	}
	t.logger.Info("tiktok authorized", "open_id", creds.OpenID, "expires_at", creds.ExpiresAt)
	return creds, nil
}

// EnsureFresh refreshes credentials that expire within the leeway window.
// A failed refresh is logged and the current credentials are returned, so
// an upload may still succeed if the token outlives the clock skew.
func (t *TikTok) EnsureFresh(ctx context.Context, creds *Credentials) *Credentials {
	if creds.ExpiresAt.After(t.now().Add(refreshLeeway)) {
		return creds
	}

	t.logger.Info("refreshing tiktok token", "expires_at", creds.ExpiresAt)
	form := url.Values{
		"client_key":    {t.clientKey},
		"client_secret": {t.clientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {creds.RefreshToken},
	}
	fresh, err := t.tokenRequest(ctx, form)
	if err != nil {
		t.logger.Warn("token refresh failed, keeping current token", "error", err)
		return creds
	}
	if fresh.OpenID == "" {
		fresh.OpenID = creds.OpenID
	}

	if err := t.persist(fresh); err != nil {
		t.logger.Warn("could not persist refreshed token", "error", err)
	}
	return fresh
}

type tiktokTokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	OpenID           string `json:"open_id"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (t *TikTok) tokenRequest(ctx context.Context, form url.Values) (*Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var parsed tiktokTokenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse token response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("token endpoint: %s: %s", parsed.Error, parsed.ErrorDescription)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, body)
	}
	if parsed.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned no access token")
	}

	return &Credentials{
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
		OpenID:       parsed.OpenID,
		ExpiresAt:    t.now().Add(time.Duration(parsed.ExpiresIn) * time.Second),
	}, nil
}

// newVerifier returns a PKCE code verifier, 64 random bytes base64url
// encoded without padding.
func newVerifier() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
