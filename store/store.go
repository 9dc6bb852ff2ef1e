// Package store holds the in-memory source of truth for the call
// collection, the current selection and locally surfaced notifications.
// Mutations are serialized under one lock and applied in the order their
// triggering events arrive; no reordering or coalescing happens here.
package store

import (
	"sync"

	"github.com/samber/lo"

	"github.com/haresh-sai06/HackAura/models"
)

// Store is the single authoritative call collection for a session.
type Store struct {
	mu            sync.RWMutex
	calls         []models.EmergencyCall
	selected      *models.EmergencyCall
	notifications []models.Notification
	listeners     []func()
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// OnChange registers a callback fired after every committed mutation,
// so views can re-render. Callbacks run outside the store lock.
func (s *Store) OnChange(cb func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, cb)
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()
	for _, cb := range listeners {
		cb()
	}
}

// ReplaceAll swaps in a freshly fetched collection. Total replacement,
// no merge; the selection survives only if its id is still present.
func (s *Store) ReplaceAll(calls []models.EmergencyCall) {
	s.mu.Lock()
	s.calls = make([]models.EmergencyCall, len(calls))
	copy(s.calls, calls)
	if s.selected != nil {
		if i := s.indexOf(s.selected.ID); i >= 0 {
			call := s.calls[i]
			s.selected = &call
		} else {
			s.selected = nil
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Insert prepends a newly arrived call, most-recent-first. A call whose
// id is already present routes to Patch instead, so a push event racing
// a REST fetch cannot duplicate the entry.
func (s *Store) Insert(call models.EmergencyCall) {
	s.mu.Lock()
	if s.indexOf(call.ID) >= 0 {
		s.mu.Unlock()
		s.Patch(call.ID, call)
		return
	}
	s.calls = append([]models.EmergencyCall{call}, s.calls...)
	s.mu.Unlock()
	s.notify()
}

// Patch merges the populated fields of updates into the matching call.
// When the patched call is the current selection, the selection mirror
// is updated in the same operation so views never observe a stale
// selection. Unknown ids are a silent no-op; events can arrive for calls
// this client has not fetched yet.
func (s *Store) Patch(id string, updates models.EmergencyCall) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	mergeCall(&s.calls[i], updates)
	if s.selected != nil && s.selected.ID == id {
		call := s.calls[i]
		s.selected = &call
	}
	s.mu.Unlock()
	s.notify()
}

// PatchOptimistic applies updates immediately, marks the call pending,
// and returns a revert closure restoring the pre-patch value. Call the
// revert when the backend rejects the mutation; on success, reconcile
// with the server response via Patch.
func (s *Store) PatchOptimistic(id string, updates models.EmergencyCall) (revert func(), ok bool) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return nil, false
	}
	prior := s.calls[i]
	mergeCall(&s.calls[i], updates)
	s.calls[i].Pending = true
	if s.selected != nil && s.selected.ID == id {
		call := s.calls[i]
		s.selected = &call
	}
	s.mu.Unlock()
	s.notify()

	return func() {
		s.mu.Lock()
		j := s.indexOf(id)
		if j >= 0 {
			s.calls[j] = prior
			if s.selected != nil && s.selected.ID == id {
				call := s.calls[j]
				s.selected = &call
			}
		}
		s.mu.Unlock()
		s.notify()
	}, true
}

// Confirm clears the pending marker after the server acknowledged an
// optimistic mutation, merging the server's view of the call.
func (s *Store) Confirm(id string, serverCall models.EmergencyCall) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	mergeCall(&s.calls[i], serverCall)
	s.calls[i].Pending = false
	if s.selected != nil && s.selected.ID == id {
		call := s.calls[i]
		s.selected = &call
	}
	s.mu.Unlock()
	s.notify()
}

// Remove drops a call from the collection, clearing the selection when
// it pointed at the removed call. The backend copy is untouched.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.calls = append(s.calls[:i], s.calls[i+1:]...)
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()
	s.notify()
}

// Select sets the currently viewed call; nil clears it.
func (s *Store) Select(call *models.EmergencyCall) {
	s.mu.Lock()
	if call == nil {
		s.selected = nil
	} else {
		c := *call
		s.selected = &c
	}
	s.mu.Unlock()
	s.notify()
}

// Selected returns a copy of the current selection, nil when none.
func (s *Store) Selected() *models.EmergencyCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	call := *s.selected
	return &call
}

// Calls returns a copy of the full collection in display order.
func (s *Store) Calls() []models.EmergencyCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.EmergencyCall, len(s.calls))
	copy(out, s.calls)
	return out
}

// Len returns the collection size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.calls)
}

// Filtered returns the ordered subsequence matching the filter. Pure
// read view: never mutates the collection, always returns a new slice.
func (s *Store) Filtered(filter models.CallFilter) []models.EmergencyCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.calls, func(call models.EmergencyCall, _ int) bool {
		return filter.Matches(call)
	})
}

// GroupedByStatus returns the subsequence with the given status.
func (s *Store) GroupedByStatus(status models.CallStatus) []models.EmergencyCall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Filter(s.calls, func(call models.EmergencyCall, _ int) bool {
		return call.Status == status
	})
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i, call := range s.calls {
		if call.ID == id {
			return i
		}
	}
	return -1
}

// mergeCall overwrites dst fields that are populated in src. Zero values
// in src leave dst untouched, which is what a partial push payload
// needs; last update wins on every populated field.
func mergeCall(dst *models.EmergencyCall, src models.EmergencyCall) {
	if src.CallerName != "" {
		dst.CallerName = src.CallerName
	}
	if src.PhoneNumber != "" {
		dst.PhoneNumber = src.PhoneNumber
	}
	if src.Location != nil {
		dst.Location = src.Location
	}
	if src.EmergencyType != "" {
		dst.EmergencyType = src.EmergencyType
	}
	if src.Severity != "" {
		dst.Severity = src.Severity
	}
	if src.Status != "" {
		dst.Status = src.Status
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Transcript != "" {
		dst.Transcript = src.Transcript
	}
	if !src.Timestamp.IsZero() {
		dst.Timestamp = src.Timestamp
	}
	if src.AssignedUnit != "" {
		dst.AssignedUnit = src.AssignedUnit
	}
	if src.Priority != 0 {
		dst.Priority = src.Priority
	}
	if src.Confidence != 0 {
		dst.Confidence = src.Confidence
	}
	if src.Summary != "" {
		dst.Summary = src.Summary
	}
	if src.AudioRecording != "" {
		dst.AudioRecording = src.AudioRecording
	}
	if len(src.Notes) > 0 {
		dst.Notes = src.Notes
	}
}
