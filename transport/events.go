package transport

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/haresh-sai06/HackAura/models"
)

// UserStatusEvent reports a team member going on or off line.
type UserStatusEvent struct {
	UserID string `json:"userId"`
	Online bool   `json:"status"`
}

// OnNewCall registers a callback for newly created calls. Payloads are
// normalized into the canonical call shape before delivery.
func (a *Adapter) OnNewCall(cb func(models.EmergencyCall)) func() {
	return a.on(EventNewCall, func(data json.RawMessage) {
		var call models.EmergencyCall
		if err := json.Unmarshal(data, &call); err != nil {
			zap.S().Warnw("dropping malformed new_call payload", "error", err)
			return
		}
		cb(call)
	})
}

// OnCallUpdate registers a callback for call updates. The payload is a
// partial call; only the fields the server sent are populated.
func (a *Adapter) OnCallUpdate(cb func(models.EmergencyCall)) func() {
	return a.on(EventCallUpdate, func(data json.RawMessage) {
		var call models.EmergencyCall
		if err := json.Unmarshal(data, &call); err != nil {
			zap.S().Warnw("dropping malformed call_update payload", "error", err)
			return
		}
		cb(call)
	})
}

// OnNotification registers a callback for server-pushed notifications.
func (a *Adapter) OnNotification(cb func(models.Notification)) func() {
	return a.on(EventNotification, func(data json.RawMessage) {
		var n models.Notification
		if err := json.Unmarshal(data, &n); err != nil {
			zap.S().Warnw("dropping malformed notification payload", "error", err)
			return
		}
		cb(n)
	})
}

// OnUserStatus registers a callback for team presence changes.
func (a *Adapter) OnUserStatus(cb func(UserStatusEvent)) func() {
	return a.on(EventUserStatus, func(data json.RawMessage) {
		var ev UserStatusEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			zap.S().Warnw("dropping malformed user_status payload", "error", err)
			return
		}
		cb(ev)
	})
}

// OnSystemUpdate registers a callback for system-level announcements.
// The payload shape is backend-defined, so it is delivered raw.
func (a *Adapter) OnSystemUpdate(cb func(json.RawMessage)) func() {
	return a.on(EventSystemUpdate, cb)
}

// OnAnalyticsUpdate registers a callback for full analytics snapshots.
func (a *Adapter) OnAnalyticsUpdate(cb func(models.CallAnalytics)) func() {
	return a.on(EventAnalyticsUpdate, func(data json.RawMessage) {
		var analytics models.CallAnalytics
		if err := json.Unmarshal(data, &analytics); err != nil {
			zap.S().Warnw("dropping malformed analytics_update payload", "error", err)
			return
		}
		cb(analytics)
	})
}

// OnStatsUpdate registers a callback for partial stats updates. The
// payload is delivered as a key→raw map for shallow merging.
func (a *Adapter) OnStatsUpdate(cb func(map[string]json.RawMessage)) func() {
	return a.on(EventStatsUpdate, func(data json.RawMessage) {
		var partial map[string]json.RawMessage
		if err := json.Unmarshal(data, &partial); err != nil {
			zap.S().Warnw("dropping malformed stats_update payload", "error", err)
			return
		}
		cb(partial)
	})
}

// EmitCallUpdate broadcasts a local edit so other clients see it before
// the REST round-trip completes.
func (a *Adapter) EmitCallUpdate(callID string, updates map[string]interface{}) {
	a.Emit(EventCallUpdate, map[string]interface{}{
		"callId":  callID,
		"updates": updates,
	})
}

// EmitUserStatus reports this user's presence.
func (a *Adapter) EmitUserStatus(online bool) {
	a.Emit(EventUserStatus, map[string]bool{"status": online})
}

// EmitJoinRoom subscribes this client to a server-side room.
func (a *Adapter) EmitJoinRoom(room string) {
	a.Emit(EventJoinRoom, room)
}

// EmitLeaveRoom unsubscribes this client from a server-side room.
func (a *Adapter) EmitLeaveRoom(room string) {
	a.Emit(EventLeaveRoom, room)
}
