package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// GCS picks the newest clip under a bucket prefix and downloads it to a
// local cache directory. Repeated runs reuse the cached copy.
type GCS struct {
	client   *gcs.Client
	bucket   string
	prefix   string
	cacheDir string
	logger   *slog.Logger
}

func NewGCS(ctx context.Context, bucket, prefix, cacheDir string, logger *slog.Logger) (*GCS, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}
	return &GCS{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		cacheDir: cacheDir,
		logger:   logger,
	}, nil
}

func (g *GCS) Close() error { return g.client.Close() }

func (g *GCS) BaseClip(ctx context.Context) (string, error) {
	object, err := g.newestObject(ctx)
	if err != nil {
		return "", err
	}

	local := filepath.Join(g.cacheDir, filepath.Base(object))
	if info, err := os.Stat(local); err == nil && info.Size() > 0 {
		g.logger.Debug("using cached base clip", "path", local)
		return local, nil
	}

	if err := g.download(ctx, object, local); err != nil {
		return "", err
	}
	return local, nil
}

// newestObject scans the prefix and returns the most recently updated
// object name.
func (g *GCS) newestObject(ctx context.Context) (string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcs.Query{Prefix: g.prefix})

	var (
		newest  string
		updated time.Time
	)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("list bucket %s: %w", g.bucket, err)
		}
		if attrs.Size == 0 {
			continue
		}
		if attrs.Updated.After(updated) {
			newest = attrs.Name
			updated = attrs.Updated
		}
	}
	if newest == "" {
		return "", ErrNoBaseClip
	}
	return newest, nil
}

func (g *GCS) download(ctx context.Context, object, local string) error {
	g.logger.Info("downloading base clip", "bucket", g.bucket, "object", object)

	if err := os.MkdirAll(filepath.Dir(local), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	r, err := g.client.Bucket(g.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("open gs://%s/%s: %w", g.bucket, object, err)
	}
	defer r.Close()

	tmp, err := os.CreateTemp(filepath.Dir(local), ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("download gs://%s/%s: %w", g.bucket, object, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), local); err != nil {
		return fmt.Errorf("move clip into cache: %w", err)
	}
	return nil
}
