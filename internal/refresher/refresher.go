// Package refresher owns the in-memory event snapshot. It reloads the
// calendar feeds on a cron schedule and hands out copies of the latest
// snapshot to queries, so a refresh in flight never disturbs a reader.
package refresher

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/teampulse-io/teampulse/internal/cron"
	"github.com/teampulse-io/teampulse/internal/domain"
	"github.com/teampulse-io/teampulse/internal/metrics"
)

// EventLoader loads and normalizes every configured calendar feed.
type EventLoader interface {
	LoadAll(ctx context.Context) ([]domain.CanonicalEvent, error)
}

type Refresher struct {
	schedule cron.Schedule
	loader   EventLoader
	sink     metrics.Sink
	clock    func() time.Time

	mu          sync.RWMutex
	snapshot    []domain.CanonicalEvent
	lastRefresh time.Time
}

func New(schedule cron.Schedule, loader EventLoader, sink metrics.Sink) *Refresher {
	if sink == nil {
		sink = metrics.NewNoopSink()
	}
	return &Refresher{
		schedule: schedule,
		loader:   loader,
		sink:     sink,
		clock:    time.Now,
	}
}

// Run refreshes on the configured schedule until ctx is cancelled. An
// initial refresh happens immediately so the snapshot is never empty
// longer than the first load takes.
func (r *Refresher) Run(ctx context.Context) error {
	log.Println("refresher: started")

	if err := r.Refresh(ctx); err != nil {
		log.Printf("refresher: initial refresh error: %v", err)
	}

	for {
		now := r.clock().UTC()
		next := r.schedule.Next(now)
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			log.Println("refresher: stopped")
			return ctx.Err()
		case <-timer.C:
			if err := r.Refresh(ctx); err != nil {
				log.Printf("refresher: refresh error: %v", err)
			}
		}
	}
}

// Refresh reloads all feeds and swaps the snapshot. On error the
// previous snapshot is kept.
func (r *Refresher) Refresh(ctx context.Context) error {
	start := r.clock()

	events, err := r.loader.LoadAll(ctx)
	if err != nil {
		r.sink.RefreshCompleted(r.clock().Sub(start), 0, err)
		return fmt.Errorf("load feeds: %w", err)
	}

	r.mu.Lock()
	r.snapshot = events
	r.lastRefresh = start.UTC()
	r.mu.Unlock()

	r.sink.RefreshCompleted(r.clock().Sub(start), len(events), nil)
	log.Printf("refresher: snapshot updated, events=%d", len(events))
	return nil
}

// Snapshot returns a copy of the current event snapshot.
func (r *Refresher) Snapshot() []domain.CanonicalEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.CanonicalEvent, len(r.snapshot))
	copy(out, r.snapshot)
	return out
}

// LastRefresh returns when the snapshot was last swapped, zero if a
// refresh has never succeeded.
func (r *Refresher) LastRefresh() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastRefresh
}
