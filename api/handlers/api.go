package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/haresh-sai06/HackAura/models"
	"github.com/haresh-sai06/HackAura/session"
)

// App stores the router and the dashboard session, so it can be reused
type App struct {
	Router  *mux.Router
	Session *session.Session
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	calls := Calls{Session: a.Session}
	badges := Badges{Session: a.Session}
	an := Analytics{Session: a.Session}
	n := Notifications{Session: a.Session}
	conn := Connection{Session: a.Session}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/dashboard/calls", http.HandlerFunc(calls.ListHandler)).Methods("GET")
	apiCreate.Handle("/dashboard/calls/{call_id}", http.HandlerFunc(calls.ByIDHandler)).Methods("GET")
	apiCreate.Handle("/dashboard/calls/{call_id}/select", http.HandlerFunc(calls.SelectHandler)).Methods("PUT")
	apiCreate.Handle("/dashboard/calls/{call_id}/assign", http.HandlerFunc(calls.AssignHandler)).Methods("PUT")
	apiCreate.Handle("/dashboard/badges", http.HandlerFunc(badges.CountsHandler)).Methods("GET")
	apiCreate.Handle("/dashboard/analytics", http.HandlerFunc(an.SnapshotHandler)).Methods("GET")
	apiCreate.Handle("/dashboard/notifications", http.HandlerFunc(n.ListHandler)).Methods("GET")
	apiCreate.Handle("/dashboard/notifications/{notification_id}/read", http.HandlerFunc(n.MarkReadHandler)).Methods("PUT")
	apiCreate.Handle("/dashboard/connection", http.HandlerFunc(conn.StateHandler)).Methods("GET")

	return r
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// Initialize is invoked by main to wire the routes to the session
func (a *App) Initialize() {
	a.initializeRoutes()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
