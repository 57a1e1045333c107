// Package publish uploads the generated video to the enabled platforms and
// coordinates the daily publish cycle.
package publish

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Publisher uploads one video to one platform and returns the platform's
// identifier for it.
type Publisher interface {
	Platform() string
	Publish(ctx context.Context, caption, videoPath string) (string, error)
}

// Doer is the http client surface the platform clients need, satisfied by
// *http.Client and the retrying client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNotConfigured means a target is enabled but its credentials are
// missing.
var ErrNotConfigured = errors.New("target is not configured")

// PublishError carries the platform and, for http failures, the status and
// response body that came back.
type PublishError struct {
	Platform string
	Status   int
	Body     string
	Err      error
}

func (e *PublishError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s publish failed: status %d: %s", e.Platform, e.Status, e.Body)
	}
	return fmt.Sprintf("%s publish failed: %v", e.Platform, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }

// AuthError means a target rejected or lacks credentials; re-running the
// platform's auth flow is the fix, not retrying the upload.
type AuthError struct {
	Platform string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authorization failed: %v", e.Platform, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
