package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

const facebookGraphURL = "https://graph-video.facebook.com/v18.0"

// Facebook posts videos to a page through the Graph video endpoint.
type Facebook struct {
	pageID      string
	accessToken string
	baseURL     string
	client      Doer
	logger      *slog.Logger
}

func NewFacebook(pageID, accessToken string, client Doer, logger *slog.Logger) *Facebook {
	return &Facebook{
		pageID:      pageID,
		accessToken: accessToken,
		baseURL:     facebookGraphURL,
		client:      client,
		logger:      logger,
	}
}

func (f *Facebook) Platform() string { return "facebook" }

func (f *Facebook) Publish(ctx context.Context, caption, videoPath string) (string, error) {
	if f.pageID == "" || f.accessToken == "" {
		return "", fmt.Errorf("facebook: %w", ErrNotConfigured)
	}

	body, contentType, err := f.multipartBody(caption, videoPath)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/videos", f.baseURL, f.pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build facebook request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &PublishError{Platform: "facebook", Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		return "", &PublishError{Platform: "facebook", Status: resp.StatusCode, Body: string(raw)}
	}

	var parsed struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &PublishError{Platform: "facebook", Err: fmt.Errorf("parse response: %w", err)}
	}
	if parsed.ID == "" {
		return "", &PublishError{Platform: "facebook", Err: fmt.Errorf("response carries no video id")}
	}

	f.logger.Info("facebook upload complete", "video_id", parsed.ID)
	return parsed.ID, nil
}

// multipartBody builds the whole request in memory so the retrying client
// can replay it.
func (f *Facebook) multipartBody(caption, videoPath string) ([]byte, string, error) {
	video, err := os.ReadFile(videoPath)
	if err != nil {
		return nil, "", fmt.Errorf("read video: %w", err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("access_token", f.accessToken); err != nil {
		return nil, "", fmt.Errorf("write form field: %w", err)
	}
	if err := w.WriteField("description", caption); err != nil {
		return nil, "", fmt.Errorf("write form field: %w", err)
	}
	part, err := w.CreateFormFile("source", filepath.Base(videoPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(video); err != nil {
		return nil, "", fmt.Errorf("write video part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finish multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
