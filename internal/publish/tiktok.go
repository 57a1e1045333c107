package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"quotereel/internal/auth"
)

const tiktokInitURL = "https://open.tiktokapis.com/v2/post/publish/video/init/"

// TikTok runs the direct-post flow: init the upload, then PUT the video
// bytes to the returned upload url. Publishing happens server-side once the
// upload completes.
type TikTok struct {
	manager   *auth.TikTok
	tokenPath string
	initURL   string
	client    Doer
	logger    *slog.Logger
}

func NewTikTok(manager *auth.TikTok, tokenPath string, client Doer, logger *slog.Logger) *TikTok {
	return &TikTok{
		manager:   manager,
		tokenPath: tokenPath,
		initURL:   tiktokInitURL,
		client:    client,
		logger:    logger,
	}
}

func (t *TikTok) Platform() string { return "tiktok" }

func (t *TikTok) Publish(ctx context.Context, caption, videoPath string) (string, error) {
	creds, err := auth.LoadCredentials(t.tokenPath)
	if err != nil {
		return "", &AuthError{Platform: "tiktok", Err: err}
	}
	creds = t.manager.EnsureFresh(ctx, creds)

	video, err := os.ReadFile(videoPath)
	if err != nil {
		return "", fmt.Errorf("read video: %w", err)
	}

	publishID, uploadURL, err := t.initUpload(ctx, creds, caption, len(video))
	if err != nil {
		return "", err
	}
	if err := t.upload(ctx, uploadURL, video); err != nil {
		return "", err
	}

	t.logger.Info("tiktok upload complete", "publish_id", publishID)
	return publishID, nil
}

type tiktokInitRequest struct {
	PostInfo   tiktokPostInfo   `json:"post_info"`
	SourceInfo tiktokSourceInfo `json:"source_info"`
}

type tiktokPostInfo struct {
	Title        string `json:"title"`
	PrivacyLevel string `json:"privacy_level"`
}

type tiktokSourceInfo struct {
	Source          string `json:"source"`
	VideoSize       int    `json:"video_size"`
	ChunkSize       int    `json:"chunk_size"`
	TotalChunkCount int    `json:"total_chunk_count"`
}

type tiktokInitResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
		UploadURL string `json:"upload_url"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		LogID   string `json:"log_id"`
	} `json:"error"`
}

func (t *TikTok) initUpload(ctx context.Context, creds *auth.Credentials, caption string, size int) (publishID, uploadURL string, err error) {
	payload, err := json.Marshal(tiktokInitRequest{
		PostInfo: tiktokPostInfo{
			Title:        caption,
			PrivacyLevel: "PUBLIC_TO_EVERYONE",
		},
		SourceInfo: tiktokSourceInfo{
			Source:          "FILE_UPLOAD",
			VideoSize:       size,
			ChunkSize:       size,
			TotalChunkCount: 1,
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("encode init request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.initURL, bytes.NewReader(payload))
	if err != nil {
		return "", "", fmt.Errorf("build init request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Authorization", "Bearer "+creds.AccessToken)
	if creds.OpenID != "" {
		req.Header.Set("x-caller-open-id", creds.OpenID)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", "", &PublishError{Platform: "tiktok", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	var parsed tiktokInitResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", "", &PublishError{Platform: "tiktok", Status: resp.StatusCode, Body: string(raw)}
	}
	if parsed.Error.Code != "" && parsed.Error.Code != "ok" {
		detail := fmt.Sprintf("%s: %s (log_id %s)", parsed.Error.Code, parsed.Error.Message, parsed.Error.LogID)
		if resp.StatusCode == http.StatusUnauthorized || parsed.Error.Code == "access_token_invalid" {
			return "", "", &AuthError{Platform: "tiktok", Err: fmt.Errorf("%s", detail)}
		}
		return "", "", &PublishError{Platform: "tiktok", Status: resp.StatusCode, Body: detail}
	}
	if parsed.Data.UploadURL == "" || parsed.Data.PublishID == "" {
		return "", "", &PublishError{Platform: "tiktok", Status: resp.StatusCode, Body: string(raw)}
	}
	return parsed.Data.PublishID, parsed.Data.UploadURL, nil
}

func (t *TikTok) upload(ctx context.Context, uploadURL string, video []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(video))
	if err != nil {
		return fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "video/mp4")
	req.Header.Set("Content-Range", fmt.Sprintf("bytes 0-%d/%d", len(video)-1, len(video)))

	resp, err := t.client.Do(req)
	if err != nil {
		return &PublishError{Platform: "tiktok", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &PublishError{Platform: "tiktok", Status: resp.StatusCode, Body: string(raw)}
	}
	return nil
}
