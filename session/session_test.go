package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/haresh-sai06/HackAura/config"
	"github.com/haresh-sai06/HackAura/models"
)

func newTestSession(backend *httptest.Server) *Session {
	cfg := &config.Config{
		APIBaseURL:        "http://localhost:0",
		WebSocketURL:      "ws://localhost:0",
		RestTimeout:       time.Second,
		AnalyticsInterval: time.Hour,
		BadgePollInterval: time.Hour,
		BadgeMaxRetries:   3,
		ReconnectBase:     time.Millisecond,
		ReconnectCap:      time.Millisecond,
		ReconnectMax:      1,
	}
	if backend != nil {
		cfg.APIBaseURL = backend.URL
	}
	return New(cfg)
}

func TestSeedCallsReplacesStore(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/calls", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "call-1", "status": "pending"},
			{"id": "call-2", "status": "resolved"}
		]`))
	}))
	defer backend.Close()

	s := newTestSession(backend)
	assert.NoError(t, s.SeedCalls(context.Background()))
	assert.Equal(t, 2, s.Store.Len())
}

func TestAssignUnitUnknownCall(t *testing.T) {
	s := newTestSession(nil)
	err := s.AssignUnit(context.Background(), "ghost", "UNIT-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAssignUnitConfirmsServerState(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "call-1", "status": "dispatched", "assignedUnit": "UNIT-1"}`))
	}))
	defer backend.Close()

	s := newTestSession(backend)
	s.Store.ReplaceAll([]models.EmergencyCall{{ID: "call-1", Status: models.StatusPending}})

	assert.NoError(t, s.AssignUnit(context.Background(), "call-1", "UNIT-1"))

	call := s.Store.Calls()[0]
	assert.Equal(t, models.StatusDispatched, call.Status)
	assert.Equal(t, "UNIT-1", call.AssignedUnit)
	assert.False(t, call.Pending)
}

func TestRefreshSessionSkipsFreshToken(t *testing.T) {
	var refreshed int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&refreshed, 1)
	}))
	defer backend.Close()

	s := newTestSession(backend)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	s.Tokens.SetToken(signed)

	assert.NoError(t, s.RefreshSession(context.Background()))
	assert.Equal(t, int32(0), atomic.LoadInt32(&refreshed))
}

func TestRefreshSessionRenewsExpiringToken(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/refresh", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token": "renewed"}`))
	}))
	defer backend.Close()

	s := newTestSession(backend)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	s.Tokens.SetToken(signed)

	assert.NoError(t, s.RefreshSession(context.Background()))
	assert.Equal(t, "renewed", s.Tokens.Token())
}

func TestStartDegradesWithoutPushChannel(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer backend.Close()

	s := newTestSession(backend)
	defer s.Stop()

	// an unreachable push endpoint leaves the session on REST only
	assert.NoError(t, s.Start(context.Background()))
	assert.False(t, s.Transport.IsConnected())
	assert.True(t, s.Transport.State().Terminal)
}

func TestStopIsSafeWithoutStart(t *testing.T) {
	s := newTestSession(nil)
	assert.NotPanics(t, s.Stop)
}
