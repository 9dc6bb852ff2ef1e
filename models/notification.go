package models

import "time"

// NotificationType classifies a client-surfaced notification.
type NotificationType string

// Enumerated notification types.
const (
	NotificationNewCall      NotificationType = "new_call"
	NotificationCallUpdated  NotificationType = "call_updated"
	NotificationCallAssigned NotificationType = "call_assigned"
	NotificationCallResolved NotificationType = "call_resolved"
	NotificationSystemAlert  NotificationType = "system_alert"
)

// Notification is an ephemeral client-surfaced event, created locally in
// response to push events or fetched from the server-side history.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Read      bool             `json:"read"`
	CallID    string           `json:"callId,omitempty"`
}
