package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) DeleteBucketsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, cutoff)
	return 3, f.err
}

func (f *fakePruner) calls() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.cutoffs...)
}

func TestPruneNowUsesRetentionCutoff(t *testing.T) {
	pruner := &fakePruner{}
	s := NewRetentionScheduler(pruner, 90*24*time.Hour, time.Hour)

	before := time.Now().Add(-90 * 24 * time.Hour)
	s.PruneNow()
	after := time.Now().Add(-90 * 24 * time.Hour)

	calls := pruner.calls()
	require.Len(t, calls, 1)
	assert.False(t, calls[0].Before(before))
	assert.False(t, calls[0].After(after))
}

func TestPruneSurvivesErrors(t *testing.T) {
	pruner := &fakePruner{err: errors.New("connection refused")}
	s := NewRetentionScheduler(pruner, time.Hour, time.Hour)

	s.PruneNow()
	s.PruneNow()

	assert.Len(t, pruner.calls(), 2)
}

func TestSchedulerRunsAndStops(t *testing.T) {
	pruner := &fakePruner{}
	s := NewRetentionScheduler(pruner, time.Hour, 10*time.Millisecond)

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	calls := len(pruner.calls())
	assert.Greater(t, calls, 0)

	// No more pruning after Stop returns.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, len(pruner.calls()))
}
