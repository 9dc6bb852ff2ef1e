package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// EmergencyType classifies the kind of incident reported on a call.
type EmergencyType string

// Enumerated emergency types as emitted by the backend.
const (
	EmergencyMedical         EmergencyType = "medical"
	EmergencyFire            EmergencyType = "fire"
	EmergencyPolice          EmergencyType = "police"
	EmergencyAccident        EmergencyType = "accident"
	EmergencyNaturalDisaster EmergencyType = "natural_disaster"
	EmergencyOther           EmergencyType = "other"
)

// EmergencyTypes lists every known emergency type, in display order.
var EmergencyTypes = []EmergencyType{
	EmergencyMedical,
	EmergencyFire,
	EmergencyPolice,
	EmergencyAccident,
	EmergencyNaturalDisaster,
	EmergencyOther,
}

// Valid reports whether t is one of the known emergency types.
func (t EmergencyType) Valid() bool {
	for _, known := range EmergencyTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Label returns a display string, degrading to "Unknown" for values the
// backend may emit that this client does not recognize.
func (t EmergencyType) Label() string {
	if !t.Valid() {
		return "Unknown"
	}
	return titleCase(string(t))
}

// Severity ranks how urgent a call is.
type Severity string

// Enumerated severities as emitted by the backend.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Severities lists every known severity, lowest first.
var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

// Valid reports whether s is one of the known severities.
func (s Severity) Valid() bool {
	for _, known := range Severities {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns a display string, degrading to "Unknown" for
// unrecognized values.
func (s Severity) Label() string {
	if !s.Valid() {
		return "Unknown"
	}
	return titleCase(string(s))
}

// CallStatus tracks where a call sits in its lifecycle. Transitions are
// not constrained on the client, any status may follow any other.
type CallStatus string

// Enumerated call statuses as emitted by the backend.
const (
	StatusPending    CallStatus = "pending"
	StatusInProgress CallStatus = "in_progress"
	StatusDispatched CallStatus = "dispatched"
	StatusResolved   CallStatus = "resolved"
	StatusCancelled  CallStatus = "cancelled"
)

// CallStatuses lists every known status, in lifecycle order.
var CallStatuses = []CallStatus{
	StatusPending,
	StatusInProgress,
	StatusDispatched,
	StatusResolved,
	StatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s CallStatus) Valid() bool {
	for _, known := range CallStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns a display string, degrading to "Unknown" for
// unrecognized values.
func (s CallStatus) Label() string {
	if !s.Valid() {
		return "Unknown"
	}
	return titleCase(string(s))
}

// Closed reports whether the status means the call no longer needs a
// response (used for badge decrements).
func (s CallStatus) Closed() bool {
	return s == StatusResolved || s == StatusCancelled
}

// Location is a structured incident location. Legacy payloads may only
// carry a flat address string, in which case the coordinates are zero.
type Location struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CallNote holds one free-text note appended to a call
type CallNote struct {
	ID        string    `json:"id"`
	Note      string    `json:"note"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// EmergencyCall holds the canonical client-side shape of one reported
// incident. All ingress paths (REST responses and push events) are
// normalized into this shape before any other component sees the call.
type EmergencyCall struct {
	ID             string        `json:"id"`
	CallerName     string        `json:"callerName,omitempty"`
	PhoneNumber    string        `json:"phoneNumber,omitempty"`
	Location       *Location     `json:"location,omitempty"`
	EmergencyType  EmergencyType `json:"emergencyType"`
	Severity       Severity      `json:"severity"`
	Status         CallStatus    `json:"status"`
	Description    string        `json:"description,omitempty"`
	Transcript     string        `json:"transcript,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
	AssignedUnit   string        `json:"assignedUnit,omitempty"`
	Priority       int           `json:"priority,omitempty"`
	Confidence     float64       `json:"confidence,omitempty"`
	Summary        string        `json:"summary,omitempty"`
	AudioRecording string        `json:"audioRecording,omitempty"`
	Notes          []CallNote    `json:"notes,omitempty"`

	// Pending marks a locally applied optimistic update that the server
	// has not confirmed yet.
	Pending bool `json:"pending,omitempty"`
}

// rawCall accepts both the canonical shape and the legacy carrier shape
// the backend still emits on some paths (from_number, location_address,
// severity_level and friends).
type rawCall struct {
	ID             json.RawMessage `json:"id"`
	CallerName     string          `json:"callerName"`
	PhoneNumber    string          `json:"phoneNumber"`
	FromNumber     string          `json:"from_number"`
	Location       *Location       `json:"location"`
	LocationAddr   string          `json:"location_address"`
	LocationLat    float64         `json:"location_latitude"`
	LocationLng    float64         `json:"location_longitude"`
	EmergencyType  EmergencyType   `json:"emergencyType"`
	EmergencyTypeL EmergencyType   `json:"emergency_type"`
	Severity       Severity        `json:"severity"`
	SeverityLevel  Severity        `json:"severity_level"`
	Status         CallStatus      `json:"status"`
	Description    string          `json:"description"`
	Transcript     string          `json:"transcript"`
	Timestamp      json.RawMessage `json:"timestamp"`
	CreatedAt      json.RawMessage `json:"created_at"`
	AssignedUnit   string          `json:"assignedUnit"`
	AssignedSvc    string          `json:"assigned_service"`
	Priority       int             `json:"priority"`
	Confidence     float64         `json:"confidence"`
	Summary        string          `json:"summary"`
	AudioRecording string          `json:"audioRecording"`
	Notes          []CallNote      `json:"notes"`
}

// UnmarshalJSON normalizes legacy carrier payloads into the canonical
// call shape so downstream components never duck-type on field names.
func (c *EmergencyCall) UnmarshalJSON(data []byte) error {
	var raw rawCall
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.ID = rawString(raw.ID)
	c.CallerName = raw.CallerName
	c.PhoneNumber = firstNonEmpty(raw.PhoneNumber, raw.FromNumber)
	c.Location = raw.Location
	if c.Location == nil && (raw.LocationAddr != "" || raw.LocationLat != 0 || raw.LocationLng != 0) {
		c.Location = &Location{
			Address:   raw.LocationAddr,
			Latitude:  raw.LocationLat,
			Longitude: raw.LocationLng,
		}
	}
	c.EmergencyType = EmergencyType(firstNonEmpty(string(raw.EmergencyType), string(raw.EmergencyTypeL)))
	c.Severity = Severity(firstNonEmpty(string(raw.Severity), string(raw.SeverityLevel)))
	c.Status = raw.Status
	c.Description = raw.Description
	c.Transcript = raw.Transcript
	c.Timestamp = rawTime(raw.Timestamp, raw.CreatedAt)
	c.AssignedUnit = firstNonEmpty(raw.AssignedUnit, raw.AssignedSvc)
	c.Priority = raw.Priority
	c.Confidence = raw.Confidence
	c.Summary = raw.Summary
	c.AudioRecording = raw.AudioRecording
	c.Notes = raw.Notes
	return nil
}

// DisplayName returns the caller name with the phone number as fallback,
// "Unknown Caller" when neither arrived.
func (c EmergencyCall) DisplayName() string {
	if c.CallerName != "" {
		return c.CallerName
	}
	if c.PhoneNumber != "" {
		return c.PhoneNumber
	}
	return "Unknown Caller"
}

// Address returns the incident address or the empty string.
func (c EmergencyCall) Address() string {
	if c.Location == nil {
		return ""
	}
	return c.Location.Address
}

// titleCase renders an enum value like "natural_disaster" as
// "Natural Disaster" for display.
func titleCase(s string) string {
	words := strings.Split(strings.ReplaceAll(s, "_", " "), " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// rawString accepts ids serialized as either strings or numbers.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// rawTime accepts timestamps in any of the formats the backend has
// historically emitted (RFC3339, unix seconds, human-readable).
func rawTime(candidates ...json.RawMessage) time.Time {
	for _, raw := range candidates {
		if len(raw) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if ts, err := dateparse.ParseAny(s); err == nil {
				return ts
			}
			continue
		}
		var unix int64
		if err := json.Unmarshal(raw, &unix); err == nil && unix > 0 {
			return time.Unix(unix, 0).UTC()
		}
	}
	return time.Time{}
}
