package publish

import (
	"context"
	"log/slog"
	"sync"
)

// Cycle outcomes.
const (
	StatusSuccess             = "success"
	StatusCompletedWithErrors = "completed_with_errors"
	StatusFailed              = "failed"
	StatusSkipped             = "skipped"
)

// TargetResult is one platform's result within a cycle.
type TargetResult struct {
	Platform string
	ID       string
	Err      error
}

// Outcome summarizes one publish cycle. The cycle counts as a success when
// at least one target accepted the video.
type Outcome struct {
	Status  string
	Caption string
	Results []TargetResult
}

// Generator produces the video and returns its caption.
type Generator interface {
	Generate(ctx context.Context) (string, error)
}

// Runner executes generate-then-publish cycles. Overlapping runs coalesce:
// a cycle that starts while another is in flight is skipped, not queued.
type Runner struct {
	generator  Generator
	publishers []Publisher
	videoPath  string
	logger     *slog.Logger
	mu         sync.Mutex
}

func NewRunner(generator Generator, publishers []Publisher, videoPath string, logger *slog.Logger) *Runner {
	return &Runner{generator: generator, publishers: publishers, videoPath: videoPath, logger: logger}
}

func (r *Runner) Run(ctx context.Context) Outcome {
	if !r.mu.TryLock() {
		r.logger.Warn("publish cycle already running, skipping")
		return Outcome{Status: StatusSkipped}
	}
	defer r.mu.Unlock()

	caption, err := r.generator.Generate(ctx)
	if err != nil {
		r.logger.Error("video generation failed", "error", err)
		return Outcome{Status: StatusFailed}
	}

	outcome := Outcome{Caption: caption}
	succeeded := 0
	for _, p := range r.publishers {
		result := TargetResult{Platform: p.Platform()}
		result.ID, result.Err = p.Publish(ctx, caption, r.videoPath)
		if result.Err != nil {
			r.logger.Error("publish failed", "platform", p.Platform(), "error", result.Err)
		} else {
			succeeded++
		}
		outcome.Results = append(outcome.Results, result)
	}

	// A cycle with at least one accepted upload is a success; failed is
	// reserved for generation errors.
	switch {
	case len(r.publishers) == 0 || succeeded > 0:
		outcome.Status = StatusSuccess
	default:
		outcome.Status = StatusCompletedWithErrors
	}
	r.logger.Info("publish cycle finished", "status", outcome.Status, "targets", len(r.publishers), "succeeded", succeeded)
	return outcome
}
