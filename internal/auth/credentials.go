// Package auth handles OAuth authorization and token lifecycle for the
// publishing targets.
package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrNoToken means no stored credentials exist yet; the user has to run the
// authorization flow first.
var ErrNoToken = errors.New("no stored token, authorization required")

// Credentials are the stored TikTok tokens.
type Credentials struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	OpenID       string    `json:"open_id,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoadCredentials reads credentials from a JSON file. A missing file maps
// to ErrNoToken.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", path, err)
	}
	if creds.AccessToken == "" {
		return nil, ErrNoToken
	}
	return &creds, nil
}

// SaveCredentials writes credentials as JSON, readable only by the owner.
func SaveCredentials(path string, creds *Credentials) error {
	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// RandomState returns an unguessable value for the OAuth state parameter.
func RandomState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
