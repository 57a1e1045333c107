// Package app wires configuration, storage, generation and publishing into
// a runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"quotereel/internal/auth"
	"quotereel/internal/generator"
	"quotereel/internal/logging"
	"quotereel/internal/media"
	"quotereel/internal/publish"
	"quotereel/internal/quotes"
	"quotereel/internal/storage"
	"quotereel/internal/text"
	"quotereel/pkg/config"
	"quotereel/pkg/httputil"
)

const (
	tiktokTokenFile  = "tiktok_token.json"
	youtubeTokenFile = "youtube_token.json"

	uploadTimeout = 10 * time.Minute
)

// App holds the wired components. Build assembles exactly what the enabled
// targets need.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Recorder    *logging.Recorder
	Quotes      *quotes.Store
	Generator   *generator.Generator
	Runner      *publish.Runner
	TikTokAuth  *auth.TikTok
	YouTubeAuth *auth.YouTube

	clips storage.ClipProvider
}

func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger, recorder *logging.Recorder) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   logger,
		Recorder: recorder,
		Quotes:   quotes.NewStore(cfg.Paths.QuotesFile, logger),
	}

	faces, err := text.NewFileSource(cfg.Overlay.FontPath)
	if err != nil {
		return nil, fmt.Errorf("load overlay font: %w", err)
	}

	if cfg.Storage.GCSEnabled {
		gcs, err := storage.NewGCS(ctx, cfg.Storage.GCSBucket, cfg.Storage.GCSPrefix, cfg.Storage.CacheDir, logger)
		if err != nil {
			return nil, err
		}
		a.clips = gcs
	} else {
		a.clips = storage.NewLocal(cfg.Paths.BaseVideo, logger)
	}

	a.Generator = generator.New(cfg, a.Quotes, faces, a.clips, media.NewFFmpeg(logger), logger)

	httpClient := httputil.NewClient(uploadTimeout)
	a.TikTokAuth = auth.NewTikTok(
		cfg.TikTokClientKey, cfg.TikTokClientSecret, cfg.TikTokRedirectURI,
		httpClient,
		func(c *auth.Credentials) error {
			return auth.SaveCredentials(a.TokenPath(tiktokTokenFile), c)
		},
		logger,
	)
	a.YouTubeAuth = auth.NewYouTube(
		cfg.YouTubeClientID, cfg.YouTubeClientSecret, cfg.YouTubeRedirectURI,
		a.TokenPath(youtubeTokenFile), logger,
	)

	a.Runner = publish.NewRunner(a.Generator, a.publishers(httpClient), cfg.Paths.OutputVideo, logger)
	return a, nil
}

func (a *App) publishers(client publish.Doer) []publish.Publisher {
	var out []publish.Publisher
	targets := a.Config.Publish.Targets
	if targets.Facebook {
		out = append(out, publish.NewFacebook(a.Config.FacebookPageID, a.Config.FacebookAccessToken, client, a.Logger))
	}
	if targets.TikTok {
		out = append(out, publish.NewTikTok(a.TikTokAuth, a.TokenPath(tiktokTokenFile), client, a.Logger))
	}
	if targets.YouTube {
		out = append(out, publish.NewYouTube(a.YouTubeAuth, a.Logger))
	}
	return out
}

// TokenPath resolves a token file inside the configured token directory.
func (a *App) TokenPath(name string) string {
	return filepath.Join(a.Config.Paths.TokenDir, name)
}

// Close releases resources held by the clip provider.
func (a *App) Close() error {
	if closer, ok := a.clips.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
