package models

import "encoding/json"

// HourBucket is one entry of the hourly call histogram.
type HourBucket struct {
	Hour  int `json:"hour"`
	Calls int `json:"calls"`
}

// DayBucket is one entry of the daily call histogram.
type DayBucket struct {
	Day   string `json:"day"`
	Calls int    `json:"calls"`
}

// CallAnalytics is a point-in-time aggregate snapshot computed by the
// server. The client never derives it from raw calls, it only replaces
// or merges server-provided data.
type CallAnalytics struct {
	TotalCalls          int                   `json:"totalCalls"`
	CallsByType         map[EmergencyType]int `json:"callsByType"`
	CallsBySeverity     map[Severity]int      `json:"callsBySeverity"`
	CallsByStatus       map[CallStatus]int    `json:"callsByStatus"`
	AverageResponseTime float64               `json:"averageResponseTime"`
	ResolvedCalls       int                   `json:"resolvedCalls"`
	PendingCalls        int                   `json:"pendingCalls"`
	CallsByHour         []HourBucket          `json:"callsByHour,omitempty"`
	CallsByDay          []DayBucket           `json:"callsByDay,omitempty"`
}

// ZeroFill makes sure every enumerated category is present in the
// grouped maps so views can iterate them without nil checks.
func (a *CallAnalytics) ZeroFill() {
	if a.CallsByType == nil {
		a.CallsByType = make(map[EmergencyType]int, len(EmergencyTypes))
	}
	for _, t := range EmergencyTypes {
		if _, ok := a.CallsByType[t]; !ok {
			a.CallsByType[t] = 0
		}
	}
	if a.CallsBySeverity == nil {
		a.CallsBySeverity = make(map[Severity]int, len(Severities))
	}
	for _, s := range Severities {
		if _, ok := a.CallsBySeverity[s]; !ok {
			a.CallsBySeverity[s] = 0
		}
	}
	if a.CallsByStatus == nil {
		a.CallsByStatus = make(map[CallStatus]int, len(CallStatuses))
	}
	for _, s := range CallStatuses {
		if _, ok := a.CallsByStatus[s]; !ok {
			a.CallsByStatus[s] = 0
		}
	}
}

// MergeStats shallow-merges the keys present in a stats_update payload
// into the snapshot, leaving every absent key untouched.
func (a *CallAnalytics) MergeStats(partial map[string]json.RawMessage) {
	for key, raw := range partial {
		switch key {
		case "totalCalls":
			json.Unmarshal(raw, &a.TotalCalls)
		case "callsByType":
			json.Unmarshal(raw, &a.CallsByType)
		case "callsBySeverity":
			json.Unmarshal(raw, &a.CallsBySeverity)
		case "callsByStatus":
			json.Unmarshal(raw, &a.CallsByStatus)
		case "averageResponseTime":
			json.Unmarshal(raw, &a.AverageResponseTime)
		case "resolvedCalls":
			json.Unmarshal(raw, &a.ResolvedCalls)
		case "pendingCalls":
			json.Unmarshal(raw, &a.PendingCalls)
		case "callsByHour":
			json.Unmarshal(raw, &a.CallsByHour)
		case "callsByDay":
			json.Unmarshal(raw, &a.CallsByDay)
		}
	}
	a.ZeroFill()
}
