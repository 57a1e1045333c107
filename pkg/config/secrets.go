package config

import (
	"context"
	"fmt"
	"log/slog"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// fillSecretsFromManager resolves secrets that are still empty after the
// environment pass from GCP Secret Manager. Lookup failures are logged and
// skipped so a partially configured project still runs the platforms it can.
func fillSecretsFromManager(ctx context.Context, cfg *Config) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		slog.Warn("Secret Manager unavailable", "error", err)
		return
	}
	defer func() { _ = client.Close() }()

	lookups := []struct {
		dst  *string
		name string
	}{
		{&cfg.FacebookAccessToken, "FACEBOOK_ACCESS_TOKEN"},
		{&cfg.TikTokClientSecret, "TIKTOK_CLIENT_SECRET"},
		{&cfg.YouTubeClientSecret, "YOUTUBE_CLIENT_SECRET"},
	}

	for _, l := range lookups {
		if *l.dst != "" {
			continue
		}
		value, err := accessSecret(ctx, client, cfg.GCPProject, l.name)
		if err != nil {
			slog.Debug("Secret not found in Secret Manager", "secret", l.name, "error", err)
			continue
		}
		*l.dst = value
	}
}

func accessSecret(ctx context.Context, client *secretmanager.Client, project, name string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: fmt.Sprintf("projects/%s/secrets/%s/versions/latest", project, name),
	}

	resp, err := client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}

	return string(resp.GetPayload().GetData()), nil
}
