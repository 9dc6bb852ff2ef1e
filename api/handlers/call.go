package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/haresh-sai06/HackAura/config"
	"github.com/haresh-sai06/HackAura/models"
	"github.com/haresh-sai06/HackAura/session"
)

// Calls exposes the mirrored call collection to the views. All reads
// come from the session's store; nothing on this surface talks to the
// backend directly.
type Calls struct {
	Session *session.Session
}

// ListHandler returns the call listing, filtered by the query params
func (c Calls) ListHandler(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	var calls []models.EmergencyCall
	if filter.Empty() {
		calls = c.Session.Store.Calls()
	} else {
		calls = c.Session.Store.Filtered(filter)
	}
	// the frontend requires the data element to exist even when empty
	if len(calls) == 0 {
		calls = []models.EmergencyCall{}
	}

	b, err := json.Marshal(calls)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// filterFromQuery builds a CallFilter from repeated query params plus
// the free-text search param.
func filterFromQuery(r *http.Request) models.CallFilter {
	q := r.URL.Query()
	filter := models.CallFilter{Search: q.Get("search")}

	for _, v := range q["status"] {
		filter.Status = append(filter.Status, models.CallStatus(v))
	}
	for _, v := range q["severity"] {
		filter.Severity = append(filter.Severity, models.Severity(v))
	}
	for _, v := range q["emergencyType"] {
		filter.EmergencyType = append(filter.EmergencyType, models.EmergencyType(v))
	}

	start, errS := time.Parse(time.RFC3339, q.Get("dateRange_start"))
	end, errE := time.Parse(time.RFC3339, q.Get("dateRange_end"))
	if errS == nil && errE == nil {
		filter.DateRange = &models.DateRange{Start: start, End: end}
	}
	return filter
}

// ByIDHandler returns a call by ID
func (c Calls) ByIDHandler(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]
	zap.S().Debugf("call_id: %v", callID)

	for _, call := range c.Session.Store.Calls() {
		if call.ID == callID {
			b, err := json.Marshal(call)
			if err != nil {
				config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(b)
			return
		}
	}
	config.ErrorStatus("call not found", http.StatusNotFound, w, nil)
}

// SelectHandler marks a call as the currently viewed one
func (c Calls) SelectHandler(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]

	for _, call := range c.Session.Store.Calls() {
		if call.ID == callID {
			selected := call
			c.Session.Store.Select(&selected)
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"message": "Call selected successfully",
			})
			return
		}
	}
	config.ErrorStatus("call not found", http.StatusNotFound, w, nil)
}

// AssignHandler runs the optimistic assign-unit flow for a call
func (c Calls) AssignHandler(w http.ResponseWriter, r *http.Request) {
	callID := mux.Vars(r)["call_id"]

	var requestBody struct {
		Unit string `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if strings.TrimSpace(requestBody.Unit) == "" {
		config.ErrorStatus("unit must not be empty", http.StatusBadRequest, w, nil)
		return
	}

	if err := c.Session.AssignUnit(r.Context(), callID, requestBody.Unit); err != nil {
		config.ErrorStatus("failed to assign unit", http.StatusBadGateway, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Unit assigned successfully",
	})
}
