package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/haresh-sai06/HackAura/config"
	"github.com/haresh-sai06/HackAura/models"
	"github.com/haresh-sai06/HackAura/session"
)

// Badges exposes the navigation badge counters.
type Badges struct {
	Session *session.Session
}

// CountsHandler returns the current badge counters
func (b Badges) CountsHandler(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(b.Session.Badges.Counts())
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Analytics exposes the mirrored analytics snapshot.
type Analytics struct {
	Session *session.Session
}

// snapshotResponse wraps the snapshot with its sync metadata so views
// can gray out stale data instead of blanking.
type snapshotResponse struct {
	State       string                `json:"state"`
	LastUpdated *time.Time            `json:"lastUpdated,omitempty"`
	Error       string                `json:"error,omitempty"`
	Analytics   *models.CallAnalytics `json:"analytics,omitempty"`
}

// SnapshotHandler returns the current analytics snapshot and its state
func (a Analytics) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	resp := snapshotResponse{
		State:     string(a.Session.Analytics.State()),
		Error:     a.Session.Analytics.Err(),
		Analytics: a.Session.Analytics.Snapshot(),
	}
	if updated := a.Session.Analytics.LastUpdated(); !updated.IsZero() {
		resp.LastUpdated = &updated
	}

	body, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Notifications exposes the locally surfaced notification list.
type Notifications struct {
	Session *session.Session
}

// ListHandler returns all notifications, newest first
func (n Notifications) ListHandler(w http.ResponseWriter, r *http.Request) {
	notifications := n.Session.Store.Notifications()
	if len(notifications) == 0 {
		notifications = []models.Notification{}
	}
	body, err := json.Marshal(notifications)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// MarkReadHandler flags one notification as read
func (n Notifications) MarkReadHandler(w http.ResponseWriter, r *http.Request) {
	notificationID := mux.Vars(r)["notification_id"]
	n.Session.Store.MarkNotificationRead(notificationID)

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Notification marked as read",
	})
}

// Connection exposes the push channel state for the offline indicator.
type Connection struct {
	Session *session.Session
}

// StateHandler returns the push connection state
func (c Connection) StateHandler(w http.ResponseWriter, r *http.Request) {
	body, err := json.Marshal(c.Session.Transport.State())
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
