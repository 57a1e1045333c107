package auth

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestCredentialsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiktok_token.json")
	want := &Credentials{
		AccessToken:  "act",
		RefreshToken: "rft",
		OpenID:       "open",
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}

	if err := SaveCredentials(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := LoadCredentials(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if !got.ExpiresAt.Equal(want.ExpiresAt) {
		t.Errorf("expiry = %v, want %v", got.ExpiresAt, want.ExpiresAt)
	}
}

func TestLoadCredentialsMissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestRandomStateIsUnique(t *testing.T) {
	a, err := RandomState()
	if err != nil {
		t.Fatal(err)
	}
	b, err := RandomState()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two states should never collide")
	}
	if len(a) != 43 {
		t.Errorf("state length = %d, want 43", len(a))
	}
}

type rotatingSource struct {
	mu     sync.Mutex
	tokens []*oauth2.Token
	i      int
}

func (s *rotatingSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok := s.tokens[s.i]
	if s.i < len(s.tokens)-1 {
		s.i++
	}
	return tok, nil
}

func TestPersistingSourceSavesOnRotation(t *testing.T) {
	first := &oauth2.Token{AccessToken: "a1"}
	second := &oauth2.Token{AccessToken: "a2"}

	var persisted []string
	src := &persistingSource{
		inner:   &rotatingSource{tokens: []*oauth2.Token{first, second, second}},
		last:    "a1",
		logger:  testLogger(),
		persist: func(tok *oauth2.Token) error { persisted = append(persisted, tok.AccessToken); return nil },
	}

	for i := 0; i < 3; i++ {
		if _, err := src.Token(); err != nil {
			t.Fatal(err)
		}
	}

	if len(persisted) != 1 || persisted[0] != "a2" {
		t.Errorf("expected one persist for the rotated token, got %v", persisted)
	}
}

func TestYouTubeClientWithoutToken(t *testing.T) {
	y := NewYouTube("id", "secret", "http://localhost/cb", filepath.Join(t.TempDir(), "yt.json"), testLogger())
	_, err := y.Client(t.Context())
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}
