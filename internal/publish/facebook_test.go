package publish

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.mp4")
	if err := os.WriteFile(path, []byte("fake video bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFacebookPublish(t *testing.T) {
	var gotToken, gotDesc string
	var gotVideo []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/page-42/videos" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotToken = r.FormValue("access_token")
		gotDesc = r.FormValue("description")
		file, _, err := r.FormFile("source")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		gotVideo, _ = io.ReadAll(file)
		w.Write([]byte(`{"id":"987"}`))
	}))
	defer srv.Close()

	fb := NewFacebook("page-42", "tok", srv.Client(), discard())
	fb.baseURL = srv.URL

	id, err := fb.Publish(context.Background(), "daily wisdom", writeVideo(t))
	if err != nil {
		t.Fatal(err)
	}
	if id != "987" {
		t.Errorf("id = %q, want 987", id)
	}
	if gotToken != "tok" || gotDesc != "daily wisdom" {
		t.Errorf("form = token %q desc %q", gotToken, gotDesc)
	}
	if string(gotVideo) != "fake video bytes" {
		t.Error("video bytes did not arrive intact")
	}
}

func TestFacebookPublishGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad token"}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	fb := NewFacebook("page", "tok", srv.Client(), discard())
	fb.baseURL = srv.URL

	_, err := fb.Publish(context.Background(), "caption", writeVideo(t))
	var perr *PublishError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PublishError, got %v", err)
	}
	if perr.Status != http.StatusBadRequest || perr.Platform != "facebook" {
		t.Errorf("unexpected error detail: %+v", perr)
	}
}

func TestFacebookPublishNotConfigured(t *testing.T) {
	fb := NewFacebook("", "", http.DefaultClient, discard())
	_, err := fb.Publish(context.Background(), "caption", writeVideo(t))
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
