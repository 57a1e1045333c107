// Package generator runs the end-to-end video generation pipeline: pick a
// quote, fit it to the frame, render the overlay and composite it over the
// base clip.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"quotereel/internal/media"
	"quotereel/internal/overlay"
	"quotereel/internal/storage"
	"quotereel/internal/text"
	"quotereel/pkg/config"
)

// Selector yields the quote to render.
type Selector interface {
	Select() string
}

type Generator struct {
	cfg     *config.Config
	quotes  Selector
	faces   text.FaceSource
	clips   storage.ClipProvider
	backend media.Backend
	logger  *slog.Logger
}

func New(cfg *config.Config, quotes Selector, faces text.FaceSource, clips storage.ClipProvider, backend media.Backend, logger *slog.Logger) *Generator {
	return &Generator{
		cfg:     cfg,
		quotes:  quotes,
		faces:   faces,
		clips:   clips,
		backend: backend,
		logger:  logger,
	}
}

// Generate produces the output video and returns the quote it rendered,
// which callers use as the publish caption.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	quote := g.quotes.Select()
	g.logger.Info("generating video", "quote", quote)

	layout, err := g.fitQuote(quote)
	if err != nil {
		return "", err
	}

	overlayPath, cleanup, err := g.renderOverlay(layout)
	if err != nil {
		return "", err
	}
	defer cleanup()

	basePath, err := g.resolveBaseClip(ctx)
	if err != nil {
		return "", err
	}

	if err := g.composite(ctx, basePath, overlayPath); err != nil {
		return "", err
	}

	if err := verifyOutput(g.cfg.Paths.OutputVideo); err != nil {
		return "", err
	}
	g.logger.Info("video ready", "path", g.cfg.Paths.OutputVideo, "font_size", layout.Size)
	return quote, nil
}

func (g *Generator) fitQuote(quote string) (text.Layout, error) {
	ov := g.cfg.Overlay
	layout, err := text.Fit(g.faces, quote, text.FitOptions{
		StartSize:   ov.FontSize,
		MinSize:     ov.MinFontSize,
		MaxWidth:    int(float64(g.cfg.Video.Width) * ov.MaxWidthPct),
		MaxHeight:   int(float64(g.cfg.Video.Height) * ov.MaxHeightPct),
		LineSpacing: ov.LineSpacing,
	})
	if err != nil {
		return text.Layout{}, fmt.Errorf("fit quote: %w", err)
	}
	return layout, nil
}

func (g *Generator) renderOverlay(layout text.Layout) (string, func(), error) {
	dir, err := os.MkdirTemp("", "quotereel-overlay-")
	if err != nil {
		return "", nil, fmt.Errorf("create overlay dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(dir) }

	ov := g.cfg.Overlay
	path := filepath.Join(dir, "overlay.png")
	err = overlay.WritePNG(path, layout, overlay.Options{
		Width:        g.cfg.Video.Width,
		Height:       g.cfg.Video.Height,
		TextColor:    ov.Color,
		ShadowColor:  ov.ShadowColor,
		ShadowOffset: ov.ShadowOffset,
		LineSpacing:  ov.LineSpacing,
		Align:        ov.Align,
		Placement: text.Placement{
			Mode:   ov.PositionMode,
			Preset: ov.Preset,
			X:      ov.XPct,
			Y:      ov.YPct,
		},
	})
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}

func (g *Generator) resolveBaseClip(ctx context.Context) (string, error) {
	path, err := g.clips.BaseClip(ctx)
	if errors.Is(err, storage.ErrNoBaseClip) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve base clip: %w", err)
	}
	return path, nil
}

func (g *Generator) composite(ctx context.Context, basePath, overlayPath string) error {
	v := g.cfg.Video
	return g.backend.Composite(ctx, media.CompositeRequest{
		BasePath:    basePath,
		OverlayPath: overlayPath,
		OutputPath:  g.cfg.Paths.OutputVideo,
		Width:       v.Width,
		Height:      v.Height,
		FPS:         v.FPS,
		MaxDuration: float64(v.MaxDurationSeconds),
		Background:  v.PlaceholderColor,
		VideoCodec:  v.VideoCodec,
		AudioCodec:  v.AudioCodec,
	})
}

func verifyOutput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("output video missing: %w", err)
	}
	if info.Size() == 0 {
		return fmt.Errorf("output video %s is empty", path)
	}
	return nil
}
