package models

import (
	"strings"
	"time"
)

// DateRange bounds a filter to calls created within [Start, End].
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// CallFilter narrows a call listing. Dimensions combine with AND
// semantics; within a dimension, membership is an OR over the set.
type CallFilter struct {
	Status        []CallStatus    `json:"status,omitempty"`
	Severity      []Severity      `json:"severity,omitempty"`
	EmergencyType []EmergencyType `json:"emergencyType,omitempty"`
	DateRange     *DateRange      `json:"dateRange,omitempty"`
	Search        string          `json:"search,omitempty"`
}

// Empty reports whether the filter would match every call.
func (f CallFilter) Empty() bool {
	return len(f.Status) == 0 && len(f.Severity) == 0 && len(f.EmergencyType) == 0 &&
		f.DateRange == nil && f.Search == ""
}

// Matches reports whether a call passes every populated dimension of the
// filter. The free-text search matches case-insensitively against the
// caller name, phone number, address, description and transcript.
func (f CallFilter) Matches(call EmergencyCall) bool {
	if len(f.Status) > 0 && !containsStatus(f.Status, call.Status) {
		return false
	}
	if len(f.Severity) > 0 && !containsSeverity(f.Severity, call.Severity) {
		return false
	}
	if len(f.EmergencyType) > 0 && !containsType(f.EmergencyType, call.EmergencyType) {
		return false
	}
	if f.DateRange != nil {
		if call.Timestamp.Before(f.DateRange.Start) || call.Timestamp.After(f.DateRange.End) {
			return false
		}
	}
	if f.Search != "" && !matchesSearch(call, f.Search) {
		return false
	}
	return true
}

func matchesSearch(call EmergencyCall, search string) bool {
	needle := strings.ToLower(search)
	haystacks := []string{
		call.CallerName,
		call.PhoneNumber,
		call.Address(),
		call.Description,
		call.Transcript,
	}
	for _, h := range haystacks {
		if h != "" && strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func containsStatus(set []CallStatus, v CallStatus) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsSeverity(set []Severity, v Severity) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsType(set []EmergencyType, v EmergencyType) bool {
	for _, t := range set {
		if t == v {
			return true
		}
	}
	return false
}
