package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/haresh-sai06/HackAura/models"
)

func pendingCall(id string) models.EmergencyCall {
	return models.EmergencyCall{
		ID:            id,
		CallerName:    "Caller " + id,
		EmergencyType: models.EmergencyMedical,
		Severity:      models.SeverityHigh,
		Status:        models.StatusPending,
		Timestamp:     time.Now(),
	}
}

func TestSeedAndUpdateScenario(t *testing.T) {
	s := New()
	callA := pendingCall("call-a")

	s.ReplaceAll([]models.EmergencyCall{callA})
	s.Patch("call-a", models.EmergencyCall{
		Status:       models.StatusDispatched,
		AssignedUnit: "UNIT-001",
	})

	dispatched := s.Filtered(models.CallFilter{Status: []models.CallStatus{models.StatusDispatched}})
	assert.Len(t, dispatched, 1)
	assert.Equal(t, "call-a", dispatched[0].ID)
	assert.Equal(t, "UNIT-001", dispatched[0].AssignedUnit)
}

func TestPatchNeverDuplicates(t *testing.T) {
	s := New()
	s.ReplaceAll([]models.EmergencyCall{pendingCall("call-a"), pendingCall("call-b")})

	s.Patch("call-a", models.EmergencyCall{Status: models.StatusResolved})
	s.Patch("call-a", models.EmergencyCall{AssignedUnit: "UNIT-9"})

	assert.Equal(t, 2, s.Len())
	seen := map[string]int{}
	for _, call := range s.Calls() {
		seen[call.ID]++
	}
	assert.Equal(t, 1, seen["call-a"])
}

func TestPatchUnknownIDIsNoOp(t *testing.T) {
	s := New()
	s.ReplaceAll([]models.EmergencyCall{pendingCall("call-a")})

	assert.NotPanics(t, func() {
		s.Patch("no-such-call", models.EmergencyCall{Status: models.StatusResolved})
	})
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, models.StatusPending, s.Calls()[0].Status)
}

func TestInsertPrependsNewestFirst(t *testing.T) {
	s := New()
	s.Insert(pendingCall("call-1"))
	s.Insert(pendingCall("call-2"))

	calls := s.Calls()
	assert.Equal(t, "call-2", calls[0].ID)
	assert.Equal(t, "call-1", calls[1].ID)
}

func TestInsertDeduplicatesByID(t *testing.T) {
	s := New()
	s.Insert(pendingCall("call-1"))

	dup := pendingCall("call-1")
	dup.Status = models.StatusDispatched
	s.Insert(dup)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, models.StatusDispatched, s.Calls()[0].Status)
}

func TestPatchMirrorsSelection(t *testing.T) {
	s := New()
	callA := pendingCall("call-a")
	s.ReplaceAll([]models.EmergencyCall{callA})
	s.Select(&callA)

	s.Patch("call-a", models.EmergencyCall{AssignedUnit: "UNIT-5"})

	selected := s.Selected()
	assert.NotNil(t, selected)
	assert.Equal(t, "UNIT-5", selected.AssignedUnit)
}

func TestRemoveClearsSelection(t *testing.T) {
	s := New()
	callA := pendingCall("call-a")
	s.ReplaceAll([]models.EmergencyCall{callA})
	s.Select(&callA)

	s.Remove("call-a")

	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Selected())
}

func TestFilteredIsPure(t *testing.T) {
	s := New()
	s.ReplaceAll([]models.EmergencyCall{pendingCall("call-a"), pendingCall("call-b")})
	filter := models.CallFilter{Status: []models.CallStatus{models.StatusPending}}

	first := s.Filtered(filter)
	second := s.Filtered(filter)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, s.Len())

	// mutating the returned slice must not touch the store
	first[0].Status = models.StatusCancelled
	assert.Equal(t, models.StatusPending, s.Calls()[0].Status)
}

func TestGroupedByStatus(t *testing.T) {
	s := New()
	resolved := pendingCall("call-r")
	resolved.Status = models.StatusResolved
	s.ReplaceAll([]models.EmergencyCall{pendingCall("call-a"), resolved, pendingCall("call-b")})

	group := s.GroupedByStatus(models.StatusResolved)
	assert.Len(t, group, 1)
	assert.Equal(t, "call-r", group[0].ID)
}

func TestOptimisticPatchRevertsOnFailure(t *testing.T) {
	s := New()
	s.ReplaceAll([]models.EmergencyCall{pendingCall("call-a")})

	revert, ok := s.PatchOptimistic("call-a", models.EmergencyCall{
		Status:       models.StatusDispatched,
		AssignedUnit: "UNIT-001",
	})
	assert.True(t, ok)

	applied := s.Calls()[0]
	assert.Equal(t, models.StatusDispatched, applied.Status)
	assert.True(t, applied.Pending)

	revert()

	reverted := s.Calls()[0]
	assert.Equal(t, models.StatusPending, reverted.Status)
	assert.Empty(t, reverted.AssignedUnit)
	assert.False(t, reverted.Pending)
}

func TestConfirmClearsPendingMarker(t *testing.T) {
	s := New()
	s.ReplaceAll([]models.EmergencyCall{pendingCall("call-a")})

	_, ok := s.PatchOptimistic("call-a", models.EmergencyCall{Status: models.StatusDispatched})
	assert.True(t, ok)

	server := pendingCall("call-a")
	server.Status = models.StatusDispatched
	server.AssignedUnit = "UNIT-001"
	s.Confirm("call-a", server)

	confirmed := s.Calls()[0]
	assert.False(t, confirmed.Pending)
	assert.Equal(t, "UNIT-001", confirmed.AssignedUnit)
}

func TestOptimisticPatchUnknownID(t *testing.T) {
	s := New()
	revert, ok := s.PatchOptimistic("ghost", models.EmergencyCall{Status: models.StatusResolved})
	assert.False(t, ok)
	assert.Nil(t, revert)
}

func TestNotificationLifecycle(t *testing.T) {
	s := New()
	s.AddNotification(models.Notification{ID: "n1", Type: models.NotificationNewCall})
	s.AddNotification(models.Notification{ID: "n2", Type: models.NotificationSystemAlert})

	assert.Len(t, s.UnreadNotifications(), 2)
	assert.Equal(t, "n2", s.Notifications()[0].ID)

	s.MarkNotificationRead("n1")
	assert.Len(t, s.UnreadNotifications(), 1)

	s.ClearNotifications()
	assert.Empty(t, s.Notifications())
}

func TestOnChangeFiresAfterMutations(t *testing.T) {
	s := New()
	fired := 0
	s.OnChange(func() { fired++ })

	s.Insert(pendingCall("call-1"))
	s.Patch("call-1", models.EmergencyCall{Status: models.StatusResolved})
	s.Remove("call-1")

	assert.Equal(t, 3, fired)
}
