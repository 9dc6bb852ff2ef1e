package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/haresh-sai06/HackAura/config"
	"github.com/haresh-sai06/HackAura/session"
)

// newTestApp builds a routed app around an unstarted session. backend is
// optional; when set, the session's REST client points at it.
func newTestApp(backend *httptest.Server) (*App, *session.Session) {
	cfg := &config.Config{
		APIBaseURL:   "http://localhost:0",
		WebSocketURL: "ws://localhost:0",
		RestTimeout:  time.Second,
	}
	if backend != nil {
		cfg.APIBaseURL = backend.URL
	}
	sess := session.New(cfg)
	app := &App{Session: sess}
	app.Initialize()
	return app, sess
}

func TestHealthCheckHandler(t *testing.T) {
	app, _ := newTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"alive": true}`, w.Body.String())
}
