package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeDeleter struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
	called  chan struct{}
}

func (f *fakeDeleter) DeleteStale(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	f.cutoffs = append(f.cutoffs, before)
	f.mu.Unlock()
	select {
	case f.called <- struct{}{}:
	default:
	}
	return 3, f.err
}

func TestSelectionCleanup_CutoffIsNowMinusRetention(t *testing.T) {
	now := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	d := &fakeDeleter{}
	w := NewSelectionCleanup(d, zap.NewNop(), time.Hour, 90*24*time.Hour)
	w.now = func() time.Time { return now }

	w.cleanup()

	if len(d.cutoffs) != 1 {
		t.Fatalf("DeleteStale calls = %d, want 1", len(d.cutoffs))
	}
	want := now.Add(-90 * 24 * time.Hour)
	if !d.cutoffs[0].Equal(want) {
		t.Errorf("cutoff = %v, want %v", d.cutoffs[0], want)
	}
}

func TestSelectionCleanup_ErrorIsLoggedNotFatal(t *testing.T) {
	d := &fakeDeleter{err: errors.New("mongo down")}
	w := NewSelectionCleanup(d, zap.NewNop(), time.Hour, time.Hour)

	w.cleanup()
	w.cleanup()

	if len(d.cutoffs) != 2 {
		t.Errorf("DeleteStale calls = %d, want 2", len(d.cutoffs))
	}
}

func TestSelectionCleanup_RunsOnTickAndStops(t *testing.T) {
	d := &fakeDeleter{called: make(chan struct{}, 1)}
	w := NewSelectionCleanup(d, zap.NewNop(), 10*time.Millisecond, time.Hour)

	w.Start()
	select {
	case <-d.called:
	case <-time.After(2 * time.Second):
		t.Fatal("cleanup did not run")
	}
	w.Stop()
	w.Stop()
}
