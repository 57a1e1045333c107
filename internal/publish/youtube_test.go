package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"quotereel/internal/auth"
)

func TestBuildMetadata(t *testing.T) {
	m := buildMetadata("stay hungry")

	if m.Snippet.Title != "stay hungry" {
		t.Errorf("title = %q", m.Snippet.Title)
	}
	if m.Snippet.Description != "stay hungry #shorts #quotes" {
		t.Errorf("description = %q", m.Snippet.Description)
	}
	if m.Snippet.CategoryID != "22" {
		t.Errorf("category = %q", m.Snippet.CategoryID)
	}
	if m.Status.PrivacyStatus != "public" || m.Status.SelfDeclaredMadeForKids {
		t.Errorf("status = %+v", m.Status)
	}
}

func TestBuildMetadataTruncatesTitle(t *testing.T) {
	long := strings.Repeat("عش كل يوم ", 30)
	m := buildMetadata(long)
	if n := len([]rune(m.Snippet.Title)); n > 100 {
		t.Errorf("title has %d runes, want at most 100", n)
	}
}

func TestSanitizeStripsFormatRunes(t *testing.T) {
	in := "quiet​ mind‏"
	if got := sanitize(in); got != "quiet mind" {
		t.Errorf("sanitize(%q) = %q", in, got)
	}
}

func writeYouTubeToken(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "youtube_token.json")
	data, err := json.Marshal(oauth2.Token{
		AccessToken:  "ya29.valid",
		TokenType:    "Bearer",
		RefreshToken: "refresh",
		Expiry:       time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func newYouTubePublisher(t *testing.T, srv *httptest.Server, chunkSize int) *YouTube {
	t.Helper()
	manager := auth.NewYouTube("id", "secret", "http://localhost/cb", writeYouTubeToken(t), discard())
	yt := NewYouTube(manager, discard())
	yt.uploadURL = srv.URL + "/videos"
	yt.chunkSize = chunkSize
	return yt
}

func TestYouTubePublishResumable(t *testing.T) {
	var ranges []string
	var meta youtubeMetadata

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("uploadType") != "resumable" {
			t.Errorf("uploadType = %q", r.URL.Query().Get("uploadType"))
		}
		if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
			t.Fatalf("decode metadata: %v", err)
		}
		w.Header().Set("Location", srv.URL+"/session")
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		cr := r.Header.Get("Content-Range")
		ranges = append(ranges, cr)
		if strings.HasSuffix(cr, "15/16") {
			fmt.Fprint(w, `{"id":"vid-9"}`)
			return
		}
		w.WriteHeader(http.StatusPermanentRedirect)
	})

	yt := newYouTubePublisher(t, srv, 8)
	id, err := yt.Publish(context.Background(), "daily wisdom", writeVideo(t))
	if err != nil {
		t.Fatal(err)
	}
	if id != "vid-9" {
		t.Errorf("id = %q", id)
	}
	// 16 bytes in 8 byte chunks.
	want := []string{"bytes 0-7/16", "bytes 8-15/16"}
	if len(ranges) != len(want) {
		t.Fatalf("ranges = %v, want %v", ranges, want)
	}
	for i := range want {
		if ranges[i] != want[i] {
			t.Errorf("range %d = %q, want %q", i, ranges[i], want[i])
		}
	}
	if meta.Snippet.Title != "daily wisdom" {
		t.Errorf("metadata title = %q", meta.Snippet.Title)
	}
}

func TestYouTubePublishChunkFailure(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", srv.URL+"/session")
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusForbidden)
	})

	yt := newYouTubePublisher(t, srv, 1<<20)
	_, err := yt.Publish(context.Background(), "caption", writeVideo(t))
	if err == nil {
		t.Fatal("expected error on chunk rejection")
	}
}

func TestYouTubePublishWithoutTokenIsAuthError(t *testing.T) {
	manager := auth.NewYouTube("id", "secret", "http://localhost/cb",
		filepath.Join(t.TempDir(), "missing.json"), discard())
	yt := NewYouTube(manager, discard())

	_, err := yt.Publish(context.Background(), "caption", writeVideo(t))
	var aerr *AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if aerr.Platform != "youtube" {
		t.Errorf("platform = %q", aerr.Platform)
	}
	if !errors.Is(err, auth.ErrNoToken) {
		t.Errorf("expected ErrNoToken underneath, got %v", err)
	}
}

func TestYouTubePublishRejectedSessionIsAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	yt := newYouTubePublisher(t, srv, 1<<20)
	yt.uploadURL = srv.URL

	_, err := yt.Publish(context.Background(), "caption", writeVideo(t))
	var aerr *AuthError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
}

func TestYouTubePublishFinishWithoutID(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/videos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", srv.URL+"/session")
	})
	mux.HandleFunc("/session", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	yt := newYouTubePublisher(t, srv, 1<<20)
	id, err := yt.Publish(context.Background(), "caption", writeVideo(t))
	if err != nil {
		t.Fatalf("finish without id should be soft: %v", err)
	}
	if id != "" {
		t.Errorf("id = %q, want empty", id)
	}
}
