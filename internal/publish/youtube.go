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
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"quotereel/internal/auth"
)

const (
	youtubeUploadURL = "https://www.googleapis.com/upload/youtube/v3/videos"

	// Resumable chunks must be multiples of 256 KiB.
	youtubeChunkSize = 8 * 1024 * 1024

	maxTitleRunes = 100
)

// YouTube uploads shorts through the resumable upload protocol.
type YouTube struct {
	manager   *auth.YouTube
	uploadURL string
	chunkSize int
	logger    *slog.Logger
}

func NewYouTube(manager *auth.YouTube, logger *slog.Logger) *YouTube {
	return &YouTube{
		manager:   manager,
		uploadURL: youtubeUploadURL,
		chunkSize: youtubeChunkSize,
		logger:    logger,
	}
}

func (y *YouTube) Platform() string { return "youtube" }

func (y *YouTube) Publish(ctx context.Context, caption, videoPath string) (string, error) {
	client, err := y.manager.Client(ctx)
	if err != nil {
		return "", &AuthError{Platform: "youtube", Err: err}
	}

	video, err := os.ReadFile(videoPath)
	if err != nil {
		return "", fmt.Errorf("read video: %w", err)
	}

	session, err := y.startSession(ctx, client, caption, len(video))
	if err != nil {
		return "", err
	}

	id, err := y.uploadChunks(ctx, client, session, video)
	if err != nil {
		return "", err
	}
	if id == "" {
		// Upload finished but the response carried no id; the video may
		// still appear after processing.
		y.logger.Warn("youtube upload finished without a video id")
		return "", nil
	}

	y.logger.Info("youtube upload complete", "video_id", id)
	return id, nil
}

type youtubeMetadata struct {
	Snippet struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		CategoryID  string   `json:"categoryId"`
	} `json:"snippet"`
	Status struct {
		PrivacyStatus           string `json:"privacyStatus"`
		SelfDeclaredMadeForKids bool   `json:"selfDeclaredMadeForKids"`
	} `json:"status"`
}

func buildMetadata(caption string) youtubeMetadata {
	clean := sanitize(caption)

	var m youtubeMetadata
	m.Snippet.Title = truncateRunes(clean, maxTitleRunes)
	m.Snippet.Description = clean + " #shorts #quotes"
	m.Snippet.Tags = []string{"shorts", "motivation", "quotes"}
	m.Snippet.CategoryID = "22"
	m.Status.PrivacyStatus = "public"
	m.Status.SelfDeclaredMadeForKids = false
	return m
}

// sanitize normalizes to NFC and strips invisible format characters, which
// the YouTube API rejects in titles.
func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range norm.NFC.String(s) {
		if unicode.Is(unicode.Cf, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return strings.TrimSpace(sb.String())
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func (y *YouTube) startSession(ctx context.Context, client Doer, caption string, size int) (string, error) {
	payload, err := json.Marshal(buildMetadata(caption))
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	url := y.uploadURL + "?uploadType=resumable&part=snippet,status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build session request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Upload-Content-Type", "video/mp4")
	req.Header.Set("X-Upload-Content-Length", fmt.Sprint(size))

	resp, err := client.Do(req)
	if err != nil {
		return "", &PublishError{Platform: "youtube", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if resp.StatusCode == http.StatusUnauthorized {
			return "", &AuthError{Platform: "youtube", Err: fmt.Errorf("status %d: %s", resp.StatusCode, raw)}
		}
		return "", &PublishError{Platform: "youtube", Status: resp.StatusCode, Body: string(raw)}
	}
	session := resp.Header.Get("Location")
	if session == "" {
		return "", &PublishError{Platform: "youtube", Err: fmt.Errorf("session response carries no upload location")}
	}
	return session, nil
}

func (y *YouTube) uploadChunks(ctx context.Context, client Doer, session string, video []byte) (string, error) {
	total := len(video)
	for start := 0; start < total; start += y.chunkSize {
		end := start + y.chunkSize
		if end > total {
			end = total
		}
		chunk := video[start:end]

		req, err := http.NewRequestWithContext(ctx, http.MethodPut, session, bytes.NewReader(chunk))
		if err != nil {
			return "", fmt.Errorf("build chunk request: %w", err)
		}
		req.Header.Set("Content-Type", "video/mp4")
		req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, end-1, total))

		resp, err := client.Do(req)
		if err != nil {
			return "", &PublishError{Platform: "youtube", Err: err}
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		resp.Body.Close()

		switch {
		// 308 is "resume incomplete" in the upload protocol.
		case resp.StatusCode == http.StatusPermanentRedirect:
			y.logger.Debug("chunk accepted", "range", resp.Header.Get("Range"))
			continue
		case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
			var parsed struct {
				ID string `json:"id"`
			}
			if err := json.Unmarshal(raw, &parsed); err != nil {
				return "", nil
			}
			return parsed.ID, nil
		default:
			return "", &PublishError{Platform: "youtube", Status: resp.StatusCode, Body: string(raw)}
		}
	}
	return "", nil
}
