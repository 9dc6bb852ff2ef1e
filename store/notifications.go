package store

import (
	"github.com/samber/lo"

	"github.com/haresh-sai06/HackAura/models"
)

// AddNotification prepends a locally created notification.
func (s *Store) AddNotification(n models.Notification) {
	s.mu.Lock()
	s.notifications = append([]models.Notification{n}, s.notifications...)
	s.mu.Unlock()
	s.notify()
}

// MarkNotificationRead flags one notification as read. Unknown ids are
// a no-op.
func (s *Store) MarkNotificationRead(id string) {
	s.mu.Lock()
	changed := false
	for i := range s.notifications {
		if s.notifications[i].ID == id && !s.notifications[i].Read {
			s.notifications[i].Read = true
			changed = true
		}
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
}

// ClearNotifications drops every notification.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	s.notifications = nil
	s.mu.Unlock()
	s.notify()
}

// Notifications returns a copy of all notifications, newest first.
func (s *Store) Notifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// UnreadNotifications returns the unread subsequence.
func (s *Store) UnreadNotifications() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.notifications, func(n models.Notification, _ int) bool {
		return !n.Read
	})
}
