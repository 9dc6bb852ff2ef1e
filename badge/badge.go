// Package badge derives the two small counters shown on the persistent
// navigation chrome: active (pending) calls and unread notifications.
// Counts are seeded and periodically reseeded from the analytics
// endpoint and adjusted incrementally from push events in between, so
// they are eventually consistent, not exact.
package badge

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/haresh-sai06/HackAura/models"
	"github.com/haresh-sai06/HackAura/store"

	"github.com/haresh-sai06/HackAura/api/scheduler"
)

// AnalyticsFetcher is the slice of the REST client this aggregator
// needs; satisfied by *client.Client.
type AnalyticsFetcher interface {
	GetAnalytics(ctx context.Context) (*models.CallAnalytics, error)
}

// EventSource is the slice of the push adapter this aggregator needs;
// satisfied by *transport.Adapter. Registrations return their own
// removal functions.
type EventSource interface {
	OnNewCall(cb func(models.EmergencyCall)) func()
	OnCallUpdate(cb func(models.EmergencyCall)) func()
	OnNotification(cb func(models.Notification)) func()
}

// Counts is a snapshot of the badge counters.
type Counts struct {
	ActiveCalls         int  `json:"activeCalls"`
	UnreadNotifications int  `json:"unreadNotifications"`
	Loading             bool `json:"loading"`
}

// Options tune the aggregator's polling fallback and debounce window.
type Options struct {
	PollInterval   time.Duration
	MaxPollRetries int
	DebounceWindow time.Duration
}

func (o *Options) defaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = 30 * time.Second
	}
	if o.MaxPollRetries <= 0 {
		o.MaxPollRetries = 3
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = 100 * time.Millisecond
	}
}

// Aggregator keeps the badge counters fresh via both polling and push.
type Aggregator struct {
	opts    Options
	api     AnalyticsFetcher
	sched   *scheduler.Scheduler
	adapter EventSource

	mu          sync.Mutex
	active      int
	unread      int
	loading     bool
	pollRetries int
	pollJob     cron.EntryID
	pollActive  bool
	listeners   []func(Counts)
	unsubs      []func()

	debouncer *store.Debouncer
}

// New builds an Aggregator; Start wires it up.
func New(api AnalyticsFetcher, adapter EventSource, sched *scheduler.Scheduler, opts Options) *Aggregator {
	opts.defaults()
	a := &Aggregator{
		opts:    opts,
		api:     api,
		sched:   sched,
		adapter: adapter,
		loading: true,
	}
	a.debouncer = store.NewDebouncer(opts.DebounceWindow, a.flush)
	return a
}

// Start seeds the counters from one analytics fetch, registers the push
// handlers and schedules the fallback reseed poll.
func (a *Aggregator) Start(ctx context.Context) {
	a.unsubs = append(a.unsubs,
		a.adapter.OnNewCall(func(call models.EmergencyCall) {
			if call.Status == models.StatusPending {
				a.adjust(+1, 0)
			}
		}),
		a.adapter.OnCallUpdate(func(call models.EmergencyCall) {
			if call.Status.Closed() {
				a.adjust(-1, 0)
			}
		}),
		a.adapter.OnNotification(func(models.Notification) {
			a.adjust(0, +1)
		}),
	)

	a.seed(ctx)

	id, err := a.sched.Every(a.opts.PollInterval, func() {
		a.reseed()
	})
	if err == nil {
		a.mu.Lock()
		a.pollJob = id
		a.pollActive = true
		a.mu.Unlock()
	}
}

// seed performs the initial analytics fetch. Failures fall back to zero
// counts; the poll and push paths will catch the state up.
func (a *Aggregator) seed(ctx context.Context) {
	analytics, err := a.api.GetAnalytics(ctx)
	a.mu.Lock()
	a.loading = false
	if err != nil {
		zap.S().Warnw("failed to seed badge counts", "error", err)
		a.active = 0
		a.unread = 0
	} else {
		a.active = analytics.PendingCalls
		// there is no bulk notification fetch on this path, unread
		// starts at zero and is advanced by push events
		a.unread = 0
	}
	a.mu.Unlock()
	a.debouncer.Trigger()
}

// reseed is the fallback poll. Each failure consumes one retry; once the
// budget is spent the job is removed permanently and the aggregator
// relies on push events alone.
func (a *Aggregator) reseed() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	analytics, err := a.api.GetAnalytics(ctx)
	if err != nil {
		a.mu.Lock()
		a.pollRetries++
		exhausted := a.pollRetries > a.opts.MaxPollRetries
		job := a.pollJob
		active := a.pollActive
		if exhausted {
			a.pollActive = false
		}
		a.mu.Unlock()

		zap.S().Warnw("badge reseed failed", "retries", a.pollRetries, "error", err)
		if exhausted && active {
			zap.S().Warn("badge polling retry budget exhausted, relying on push events only")
			a.sched.Remove(job)
		}
		return
	}

	a.mu.Lock()
	a.pollRetries = 0
	a.active = analytics.PendingCalls
	a.mu.Unlock()
	a.debouncer.Trigger()
}

// adjust applies a push-driven delta, flooring the counters at zero, and
// commits through the debouncer.
func (a *Aggregator) adjust(activeDelta, unreadDelta int) {
	a.mu.Lock()
	a.active += activeDelta
	if a.active < 0 {
		a.active = 0
	}
	a.unread += unreadDelta
	if a.unread < 0 {
		a.unread = 0
	}
	a.mu.Unlock()
	a.debouncer.Trigger()
}

// flush notifies listeners with the committed counts.
func (a *Aggregator) flush() {
	counts := a.Counts()
	a.mu.Lock()
	listeners := make([]func(Counts), len(a.listeners))
	copy(listeners, a.listeners)
	a.mu.Unlock()
	for _, cb := range listeners {
		cb(counts)
	}
}

// Counts returns the current counter snapshot.
func (a *Aggregator) Counts() Counts {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Counts{
		ActiveCalls:         a.active,
		UnreadNotifications: a.unread,
		Loading:             a.loading,
	}
}

// MarkNotificationsSeen resets the unread counter, for when the user
// opens the notifications page.
func (a *Aggregator) MarkNotificationsSeen() {
	a.mu.Lock()
	a.unread = 0
	a.mu.Unlock()
	a.debouncer.Trigger()
}

// OnChange registers a listener invoked with every debounced commit.
func (a *Aggregator) OnChange(cb func(Counts)) {
	a.mu.Lock()
	a.listeners = append(a.listeners, cb)
	a.mu.Unlock()
}

// Close cancels the poll job, the pending debounce and every push
// registration. Nothing leaks across navigation.
func (a *Aggregator) Close() {
	a.mu.Lock()
	if a.pollActive {
		a.pollActive = false
		a.sched.Remove(a.pollJob)
	}
	unsubs := a.unsubs
	a.unsubs = nil
	a.mu.Unlock()

	a.debouncer.Stop()
	for _, unsub := range unsubs {
		unsub()
	}
}
