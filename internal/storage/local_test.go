package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalBaseClip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.mp4")
	if err := os.WriteFile(path, []byte("fake video"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewLocal(path, discard()).BaseClip(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("got %q, want %q", got, path)
	}
}

func TestLocalBaseClipMissing(t *testing.T) {
	provider := NewLocal(filepath.Join(t.TempDir(), "nope.mp4"), discard())
	_, err := provider.BaseClip(context.Background())
	if !errors.Is(err, ErrNoBaseClip) {
		t.Errorf("expected ErrNoBaseClip, got %v", err)
	}
}

func TestLocalBaseClipEmptyPath(t *testing.T) {
	_, err := NewLocal("", discard()).BaseClip(context.Background())
	if !errors.Is(err, ErrNoBaseClip) {
		t.Errorf("expected ErrNoBaseClip, got %v", err)
	}
}

func TestLocalBaseClipEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.mp4")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLocal(path, discard()).BaseClip(context.Background())
	if !errors.Is(err, ErrNoBaseClip) {
		t.Errorf("expected ErrNoBaseClip for empty file, got %v", err)
	}
}
