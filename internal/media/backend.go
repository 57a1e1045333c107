// Package media probes and composites video through an injectable backend,
// so the generation pipeline can be exercised without ffmpeg installed.
package media

import (
	"context"
	"fmt"
)

// ClipInfo describes a probed clip.
type ClipInfo struct {
	Duration float64
	Width    int
	Height   int
	HasAudio bool
}

// CompositeRequest describes one overlay render. An empty BasePath asks for
// a solid Background placeholder instead of a source clip.
type CompositeRequest struct {
	BasePath    string
	OverlayPath string
	OutputPath  string
	Width       int
	Height      int
	FPS         int
	MaxDuration float64
	Background  string
	VideoCodec  string
	AudioCodec  string
}

// Backend is the encoding engine behind the generator.
type Backend interface {
	Probe(ctx context.Context, path string) (ClipInfo, error)
	Composite(ctx context.Context, req CompositeRequest) error
}

// EncodingError wraps a backend failure with the stage it happened in.
type EncodingError struct {
	Stage string
	Err   error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding failed at %s: %v", e.Stage, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }
