package main

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakePurger struct {
	cutoff  time.Time
	deleted int64
	err     error
	calls   int
}

func (f *fakePurger) DeleteReportsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.calls++
	f.cutoff = cutoff
	return f.deleted, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	purger := &fakePurger{deleted: 7}

	deleted, err := run(context.Background(), purger, 90*24*time.Hour, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 7 {
		t.Errorf("deleted = %d, want 7", deleted)
	}
	if purger.calls != 1 {
		t.Fatalf("purger called %d times, want 1", purger.calls)
	}

	wantCutoff := time.Now().Add(-90 * 24 * time.Hour)
	if diff := purger.cutoff.Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Errorf("cutoff = %v, want about %v", purger.cutoff, wantCutoff)
	}
}

func TestRun_RejectsNonPositiveRetention(t *testing.T) {
	purger := &fakePurger{}

	for _, retention := range []time.Duration{0, -time.Hour} {
		if _, err := run(context.Background(), purger, retention, testLogger()); err == nil {
			t.Errorf("retention %s: expected error", retention)
		}
	}
	if purger.calls != 0 {
		t.Error("purger should not be called for invalid retention")
	}
}
