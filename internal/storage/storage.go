// Package storage resolves the base clip used behind the quote overlay,
// either from the local filesystem or from a GCS bucket with a local cache.
package storage

import (
	"context"
	"errors"
)

// ErrNoBaseClip means no base clip is configured or present; the generator
// falls back to a solid background.
var ErrNoBaseClip = errors.New("no base clip available")

// ClipProvider resolves the base clip to a path on the local filesystem.
type ClipProvider interface {
	BaseClip(ctx context.Context) (string, error)
}
