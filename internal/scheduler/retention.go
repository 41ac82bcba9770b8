package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// BucketPruner deletes analytics buckets older than a cutoff.
type BucketPruner interface {
	DeleteBucketsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionScheduler periodically prunes analytics buckets that fell out of
// the configured retention window.
type RetentionScheduler struct {
	pruner    BucketPruner
	retention time.Duration
	interval  time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

func NewRetentionScheduler(pruner BucketPruner, retention, interval time.Duration) *RetentionScheduler {
	return &RetentionScheduler{
		pruner:    pruner,
		retention: retention,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic pruning process
func (s *RetentionScheduler) Start() {
	s.wg.Add(1)
	go s.run()
	log.Printf("Analytics retention scheduler started (retention: %v, interval: %v)", s.retention, s.interval)
}

// Stop gracefully stops the scheduler
func (s *RetentionScheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	log.Println("Analytics retention scheduler stopped")
}

func (s *RetentionScheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.prune()
		case <-s.stopCh:
			return
		}
	}
}

func (s *RetentionScheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.retention)

	deleted, err := s.pruner.DeleteBucketsBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Failed to prune analytics buckets: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("Pruned %d analytics buckets older than %s", deleted, cutoff.Format("2006-01-02"))
	}
}

// PruneNow triggers an immediate pruning pass
func (s *RetentionScheduler) PruneNow() {
	s.prune()
}
