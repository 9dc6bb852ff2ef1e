package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnmarshalCanonicalCall(t *testing.T) {
	payload := `{
		"id": "call-1",
		"callerName": "Jane Doe",
		"phoneNumber": "+15550001111",
		"location": {"address": "12 Main St", "latitude": 40.7, "longitude": -74.0},
		"emergencyType": "fire",
		"severity": "high",
		"status": "pending",
		"description": "kitchen fire",
		"timestamp": "2024-03-01T10:00:00Z",
		"assignedUnit": "ENGINE-7"
	}`

	var call EmergencyCall
	err := json.Unmarshal([]byte(payload), &call)
	assert.NoError(t, err)
	assert.Equal(t, "call-1", call.ID)
	assert.Equal(t, "Jane Doe", call.CallerName)
	assert.Equal(t, "+15550001111", call.PhoneNumber)
	assert.Equal(t, "12 Main St", call.Location.Address)
	assert.Equal(t, EmergencyFire, call.EmergencyType)
	assert.Equal(t, SeverityHigh, call.Severity)
	assert.Equal(t, StatusPending, call.Status)
	assert.Equal(t, "ENGINE-7", call.AssignedUnit)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), call.Timestamp.UTC())
}

func TestUnmarshalLegacyCarrierShape(t *testing.T) {
	payload := `{
		"id": 42,
		"from_number": "+15559990000",
		"location_address": "99 Elm Ave",
		"location_latitude": 34.05,
		"location_longitude": -118.24,
		"emergency_type": "medical",
		"severity_level": "critical",
		"status": "in_progress",
		"transcript": "caller reports chest pain",
		"created_at": "2024-03-01T11:30:00Z",
		"assigned_service": "AMBULANCE-3"
	}`

	var call EmergencyCall
	err := json.Unmarshal([]byte(payload), &call)
	assert.NoError(t, err)
	assert.Equal(t, "42", call.ID)
	assert.Equal(t, "+15559990000", call.PhoneNumber)
	assert.NotNil(t, call.Location)
	assert.Equal(t, "99 Elm Ave", call.Location.Address)
	assert.Equal(t, 34.05, call.Location.Latitude)
	assert.Equal(t, EmergencyMedical, call.EmergencyType)
	assert.Equal(t, SeverityCritical, call.Severity)
	assert.Equal(t, StatusInProgress, call.Status)
	assert.Equal(t, "AMBULANCE-3", call.AssignedUnit)
	assert.False(t, call.Timestamp.IsZero())
}

func TestUnmarshalCanonicalFieldsWinOverLegacy(t *testing.T) {
	payload := `{
		"id": "call-9",
		"phoneNumber": "+15550002222",
		"from_number": "+15553334444",
		"severity": "low",
		"severity_level": "critical",
		"status": "pending"
	}`

	var call EmergencyCall
	err := json.Unmarshal([]byte(payload), &call)
	assert.NoError(t, err)
	assert.Equal(t, "+15550002222", call.PhoneNumber)
	assert.Equal(t, SeverityLow, call.Severity)
}

func TestUnmarshalUnixTimestamp(t *testing.T) {
	payload := `{"id": "call-2", "status": "pending", "created_at": 1709290800}`

	var call EmergencyCall
	err := json.Unmarshal([]byte(payload), &call)
	assert.NoError(t, err)
	assert.Equal(t, int64(1709290800), call.Timestamp.Unix())
}

func TestUnknownEnumValuesDegradeToUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", EmergencyType("earthquake_v2").Label())
	assert.Equal(t, "Unknown", Severity("extreme").Label())
	assert.Equal(t, "Unknown", CallStatus("archived").Label())
	assert.False(t, EmergencyType("earthquake_v2").Valid())
}

func TestEnumLabels(t *testing.T) {
	assert.Equal(t, "Natural Disaster", EmergencyNaturalDisaster.Label())
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Critical", SeverityCritical.Label())
}

func TestStatusClosed(t *testing.T) {
	assert.True(t, StatusResolved.Closed())
	assert.True(t, StatusCancelled.Closed())
	assert.False(t, StatusPending.Closed())
	assert.False(t, StatusDispatched.Closed())
}

func TestDisplayNameFallbacks(t *testing.T) {
	assert.Equal(t, "Jane", EmergencyCall{CallerName: "Jane"}.DisplayName())
	assert.Equal(t, "+15551112222", EmergencyCall{PhoneNumber: "+15551112222"}.DisplayName())
	assert.Equal(t, "Unknown Caller", EmergencyCall{}.DisplayName())
}
