// Package analytics keeps one server-computed CallAnalytics snapshot
// fresh for the analytics view. The snapshot is replaced wholesale on
// fetch and on analytics_update pushes, and shallow-merged on
// stats_update pushes. A failed refresh never blanks the UI, the last
// good snapshot stays available as stale data.
package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/haresh-sai06/HackAura/models"

	"github.com/haresh-sai06/HackAura/api/scheduler"
)

// Fetcher is the slice of the REST client this sync needs; satisfied by
// *client.Client.
type Fetcher interface {
	GetAnalytics(ctx context.Context) (*models.CallAnalytics, error)
}

// EventSource is the slice of the push adapter this sync needs;
// satisfied by *transport.Adapter.
type EventSource interface {
	OnAnalyticsUpdate(cb func(models.CallAnalytics)) func()
	OnStatsUpdate(cb func(map[string]json.RawMessage)) func()
}

// State is the snapshot lifecycle phase.
type State string

// Snapshot states. Ready and Stale both retain the last good snapshot;
// only Empty should render a "no data" affordance, and Loading keeps
// displaying the previous snapshot rather than blanking.
const (
	StateEmpty   State = "empty"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateStale   State = "stale"
)

// Sync owns the analytics snapshot for one session.
type Sync struct {
	api     Fetcher
	sched   *scheduler.Scheduler
	adapter EventSource

	mu          sync.Mutex
	snapshot    *models.CallAnalytics
	state       State
	lastUpdated time.Time
	lastErr     string
	refreshJob  cron.EntryID
	jobActive   bool
	listeners   []func()
	unsubs      []func()
}

// New builds a Sync; Start wires it up.
func New(api Fetcher, adapter EventSource, sched *scheduler.Scheduler) *Sync {
	return &Sync{
		api:     api,
		sched:   sched,
		adapter: adapter,
		state:   StateEmpty,
	}
}

// Start performs the initial fetch, registers the push handlers and
// schedules the periodic refresh.
func (s *Sync) Start(ctx context.Context, refreshInterval time.Duration) {
	if refreshInterval <= 0 {
		refreshInterval = 30 * time.Second
	}

	s.unsubs = append(s.unsubs,
		s.adapter.OnAnalyticsUpdate(func(snapshot models.CallAnalytics) {
			s.ApplyFull(snapshot)
		}),
		s.adapter.OnStatsUpdate(func(partial map[string]json.RawMessage) {
			s.ApplyStats(partial)
		}),
	)

	if err := s.Fetch(ctx); err != nil {
		zap.S().Warnw("initial analytics fetch failed", "error", err)
	}

	id, err := s.sched.Every(refreshInterval, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Fetch(ctx); err != nil {
			zap.S().Warnw("periodic analytics refresh failed", "error", err)
		}
	})
	if err == nil {
		s.mu.Lock()
		s.refreshJob = id
		s.jobActive = true
		s.mu.Unlock()
	}
}

// Fetch refreshes the snapshot from the analytics endpoint. On success
// the snapshot is replaced wholesale and the timestamp advances; on
// failure the previous snapshot and timestamp are preserved and only
// the error flag is set.
func (s *Sync) Fetch(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateEmpty {
		s.state = StateLoading
	}
	s.mu.Unlock()
	s.notify()

	snapshot, err := s.api.GetAnalytics(ctx)

	s.mu.Lock()
	if err != nil {
		s.lastErr = err.Error()
		if s.snapshot != nil {
			s.state = StateStale
		} else {
			s.state = StateEmpty
		}
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.snapshot = snapshot
	s.state = StateReady
	s.lastUpdated = time.Now()
	s.lastErr = ""
	s.mu.Unlock()
	s.notify()
	return nil
}

// ApplyFull replaces the snapshot wholesale, exactly like a successful
// fetch (the analytics_update push path).
func (s *Sync) ApplyFull(snapshot models.CallAnalytics) {
	snapshot.ZeroFill()
	s.mu.Lock()
	s.snapshot = &snapshot
	s.state = StateReady
	s.lastUpdated = time.Now()
	s.lastErr = ""
	s.mu.Unlock()
	s.notify()
}

// ApplyStats shallow-merges a stats_update payload into the existing
// snapshot. No-op when no snapshot exists yet; partial stats cannot
// seed a view.
func (s *Sync) ApplyStats(partial map[string]json.RawMessage) {
	s.mu.Lock()
	if s.snapshot == nil {
		s.mu.Unlock()
		return
	}
	s.snapshot.MergeStats(partial)
	s.lastUpdated = time.Now()
	s.mu.Unlock()
	s.notify()
}

// Snapshot returns a copy of the current snapshot, nil when empty.
func (s *Sync) Snapshot() *models.CallAnalytics {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot == nil {
		return nil
	}
	copied := *s.snapshot
	return &copied
}

// State returns the snapshot lifecycle phase.
func (s *Sync) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastUpdated returns when the snapshot last changed, zero when never.
func (s *Sync) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// Err returns the last fetch error message, empty when the last fetch
// succeeded.
func (s *Sync) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// OnChange registers a listener fired after every snapshot change.
func (s *Sync) OnChange(cb func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, cb)
	s.mu.Unlock()
}

func (s *Sync) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, cb := range listeners {
		cb()
	}
}

// Close cancels the refresh job and the push registrations.
func (s *Sync) Close() {
	s.mu.Lock()
	if s.jobActive {
		s.jobActive = false
		s.sched.Remove(s.refreshJob)
	}
	unsubs := s.unsubs
	s.unsubs = nil
	s.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
}
