package publish

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type stubGenerator struct {
	caption string
	err     error
	block   chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context) (string, error) {
	if g.block != nil {
		<-g.block
	}
	return g.caption, g.err
}

type stubPublisher struct {
	name string
	id   string
	err  error
}

func (p stubPublisher) Platform() string { return p.name }

func (p stubPublisher) Publish(ctx context.Context, caption, videoPath string) (string, error) {
	return p.id, p.err
}

func TestRunnerAllTargetsSucceed(t *testing.T) {
	runner := NewRunner(&stubGenerator{caption: "quote"}, []Publisher{
		stubPublisher{name: "facebook", id: "f1"},
		stubPublisher{name: "youtube", id: "y1"},
	}, "out.mp4", discard())

	outcome := runner.Run(context.Background())
	if outcome.Status != StatusSuccess {
		t.Errorf("status = %q, want success", outcome.Status)
	}
	if outcome.Caption != "quote" {
		t.Errorf("caption = %q", outcome.Caption)
	}
	if len(outcome.Results) != 2 {
		t.Fatalf("results = %v", outcome.Results)
	}
}

func TestRunnerPartialFailureIsStillSuccess(t *testing.T) {
	runner := NewRunner(&stubGenerator{caption: "quote"}, []Publisher{
		stubPublisher{name: "facebook", err: fmt.Errorf("rate limited")},
		stubPublisher{name: "tiktok", id: "t1"},
	}, "out.mp4", discard())

	outcome := runner.Run(context.Background())
	if outcome.Status != StatusSuccess {
		t.Errorf("status = %q, want success when one target accepted", outcome.Status)
	}
	if outcome.Results[0].Err == nil {
		t.Error("failed target should keep its error in the results")
	}
}

func TestRunnerAllTargetsFail(t *testing.T) {
	runner := NewRunner(&stubGenerator{caption: "quote"}, []Publisher{
		stubPublisher{name: "facebook", err: fmt.Errorf("down")},
		stubPublisher{name: "tiktok", err: fmt.Errorf("down too")},
	}, "out.mp4", discard())

	// The video itself was produced, so this is not a failed cycle.
	if outcome := runner.Run(context.Background()); outcome.Status != StatusCompletedWithErrors {
		t.Errorf("status = %q, want completed_with_errors", outcome.Status)
	}
}

func TestRunnerGenerationFailure(t *testing.T) {
	runner := NewRunner(&stubGenerator{err: fmt.Errorf("no encoder")}, []Publisher{
		stubPublisher{name: "facebook", id: "f1"},
	}, "out.mp4", discard())

	if outcome := runner.Run(context.Background()); outcome.Status != StatusFailed {
		t.Errorf("status = %q, want failed", outcome.Status)
	}
}

func TestRunnerSkipsOverlappingCycle(t *testing.T) {
	block := make(chan struct{})
	runner := NewRunner(&stubGenerator{caption: "quote", block: block}, nil, "out.mp4", discard())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		runner.Run(context.Background())
	}()

	// Give the first cycle time to take the lock.
	time.Sleep(20 * time.Millisecond)
	if outcome := runner.Run(context.Background()); outcome.Status != StatusSkipped {
		t.Errorf("status = %q, want skipped", outcome.Status)
	}

	close(block)
	wg.Wait()
}

func TestParseScheduleTime(t *testing.T) {
	hour, minute, err := ParseScheduleTime("09:30")
	if err != nil {
		t.Fatal(err)
	}
	if hour != 9 || minute != 30 {
		t.Errorf("got %02d:%02d", hour, minute)
	}

	for _, bad := range []string{"9am", "25:00", "", "12:60"} {
		if _, _, err := ParseScheduleTime(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestNextRun(t *testing.T) {
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	next := NextRun(now, 9, 0)
	if !next.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("next = %v, want same day 09:00", next)
	}

	next = NextRun(now, 7, 30)
	if !next.Equal(time.Date(2026, 3, 11, 7, 30, 0, 0, time.UTC)) {
		t.Errorf("next = %v, want next day 07:30", next)
	}

	// Exactly at the boundary rolls to the next day.
	next = NextRun(now, 8, 0)
	if !next.Equal(time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("next = %v, want next day 08:00", next)
	}
}
