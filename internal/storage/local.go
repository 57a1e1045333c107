package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Local serves a base clip from a fixed path on disk.
type Local struct {
	path   string
	logger *slog.Logger
}

func NewLocal(path string, logger *slog.Logger) *Local {
	return &Local{path: path, logger: logger}
}

func (l *Local) BaseClip(ctx context.Context) (string, error) {
	if l.path == "" {
		return "", ErrNoBaseClip
	}
	info, err := os.Stat(l.path)
	if os.IsNotExist(err) {
		l.logger.Warn("base clip not found", "path", l.path)
		return "", ErrNoBaseClip
	}
	if err != nil {
		return "", fmt.Errorf("stat base clip: %w", err)
	}
	if info.Size() == 0 {
		l.logger.Warn("base clip is empty", "path", l.path)
		return "", ErrNoBaseClip
	}
	return l.path, nil
}
