// Package session assembles one dashboard session: exactly one REST
// client, one push adapter, one call store, one badge aggregator and one
// analytics sync, with a lifecycle tied to session start and end. Views
// reach shared state through this object instead of hidden globals.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/haresh-sai06/HackAura/analytics"
	"github.com/haresh-sai06/HackAura/badge"
	"github.com/haresh-sai06/HackAura/client"
	"github.com/haresh-sai06/HackAura/config"
	"github.com/haresh-sai06/HackAura/models"
	"github.com/haresh-sai06/HackAura/store"
	"github.com/haresh-sai06/HackAura/transport"

	"github.com/haresh-sai06/HackAura/api/scheduler"
)

// Session owns the synchronization layer for one client session.
type Session struct {
	Config    *config.Config
	Tokens    client.TokenStore
	API       *client.Client
	Transport *transport.Adapter
	Store     *store.Store
	Badges    *badge.Aggregator
	Analytics *analytics.Sync
	Scheduler *scheduler.Scheduler

	unsubs []func()
}

// New constructs the session's components without starting anything.
func New(cfg *config.Config) *Session {
	tokens := client.NewMemoryTokenStore()
	api := client.New(cfg.APIBaseURL, cfg.RestTimeout, tokens)
	adapter := transport.New(transport.Options{
		URL:         cfg.WebSocketURL,
		BaseDelay:   cfg.ReconnectBase,
		MaxDelay:    cfg.ReconnectCap,
		MaxAttempts: cfg.ReconnectMax,
	})
	sched := scheduler.New()
	st := store.New()

	return &Session{
		Config:    cfg,
		Tokens:    tokens,
		API:       api,
		Transport: adapter,
		Store:     st,
		Badges: badge.New(api, adapter, sched, badge.Options{
			PollInterval:   cfg.BadgePollInterval,
			MaxPollRetries: cfg.BadgeMaxRetries,
		}),
		Analytics: analytics.New(api, adapter, sched),
		Scheduler: sched,
	}
}

// Start brings the session up: wires push events into the store, seeds
// the call collection over REST, connects the push channel and starts
// the periodic jobs. A push connection that exhausts its retry budget
// degrades the session to REST polling only; it does not fail Start.
func (s *Session) Start(ctx context.Context) error {
	s.wireStore()

	s.Badges.Start(ctx)
	s.Analytics.Start(ctx, s.Config.AnalyticsInterval)
	s.Scheduler.Start()

	if err := s.SeedCalls(ctx); err != nil {
		zap.S().Warnw("initial call fetch failed, store starts empty", "error", err)
	}

	if err := s.Transport.Connect(ctx, s.Tokens.Token()); err != nil {
		zap.S().Errorw("push channel unavailable, continuing on REST only", "error", err)
	}
	return nil
}

// wireStore registers the push-event handlers that mirror server state
// into the call store. Payloads pass the normalization boundary in
// models before any component sees them.
func (s *Session) wireStore() {
	s.unsubs = append(s.unsubs,
		s.Transport.OnNewCall(func(call models.EmergencyCall) {
			s.Store.Insert(call)
			s.Store.AddNotification(models.Notification{
				ID:        uuid.New().String(),
				Type:      models.NotificationNewCall,
				Title:     "New Emergency Call",
				Message:   fmt.Sprintf("%s reported at %s", call.EmergencyType.Label(), call.Address()),
				Timestamp: time.Now(),
				CallID:    call.ID,
			})
		}),
		s.Transport.OnCallUpdate(func(call models.EmergencyCall) {
			s.Store.Patch(call.ID, call)
		}),
		s.Transport.OnNotification(func(n models.Notification) {
			if n.ID == "" {
				n.ID = uuid.New().String()
			}
			if n.Timestamp.IsZero() {
				n.Timestamp = time.Now()
			}
			s.Store.AddNotification(n)
		}),
	)
}

// SeedCalls fetches the full call listing and replaces the store.
func (s *Session) SeedCalls(ctx context.Context) error {
	calls, err := s.API.GetCalls(ctx, nil)
	if err != nil {
		return err
	}
	s.Store.ReplaceAll(calls)
	return nil
}

// AssignUnit runs the optimistic-update flow for assigning a unit to a
// call: the local patch lands immediately, the REST update reconciles it
// and a failure reverts to the pre-patch value.
func (s *Session) AssignUnit(ctx context.Context, callID, unit string) error {
	patch := models.EmergencyCall{
		Status:       models.StatusDispatched,
		AssignedUnit: unit,
	}
	revert, ok := s.Store.PatchOptimistic(callID, patch)
	if !ok {
		return fmt.Errorf("call %s not found", callID)
	}

	updates := map[string]interface{}{
		"status":       string(models.StatusDispatched),
		"assignedUnit": unit,
	}
	serverCall, err := s.API.UpdateCall(ctx, callID, updates)
	if err != nil {
		revert()
		return fmt.Errorf("failed to assign unit to call %s: %w", callID, err)
	}

	s.Store.Confirm(callID, *serverCall)
	s.Transport.EmitCallUpdate(callID, updates)
	return nil
}

// RefreshSession refreshes the auth token when it is close to expiry.
func (s *Session) RefreshSession(ctx context.Context) error {
	if !client.TokenExpiringSoon(s.Tokens, 5*time.Minute) {
		return nil
	}
	return s.API.RefreshToken(ctx)
}

// Resume asks the transport to reconnect opportunistically, for host
// signals like regained network connectivity.
func (s *Session) Resume(ctx context.Context) {
	s.Transport.Resume(ctx)
}

// Stop tears the session down deterministically: push registrations,
// periodic jobs and the connection all go away.
func (s *Session) Stop() {
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	s.Badges.Close()
	s.Analytics.Close()
	s.Scheduler.Stop()
	s.Transport.Disconnect()
}
