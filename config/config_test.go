package config

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	c := New()
	assert.NotEmpty(t, c, "expected config to not be empty")
	assert.NotEmpty(t, c.APIBaseURL)
	assert.NotEmpty(t, c.WebSocketURL)
	assert.NotEmpty(t, c.Port)
}

func TestNewDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, 10*time.Second, c.RestTimeout)
	assert.Equal(t, 30*time.Second, c.AnalyticsInterval)
	assert.Equal(t, 30*time.Second, c.BadgePollInterval)
	assert.Equal(t, 3, c.BadgeMaxRetries)
	assert.Equal(t, time.Second, c.ReconnectBase)
	assert.Equal(t, 30*time.Second, c.ReconnectCap)
	assert.Equal(t, 5, c.ReconnectMax)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REST_TIMEOUT", "3s")
	t.Setenv("RECONNECT_MAX_ATTEMPTS", "9")
	t.Setenv("API_BASE_URL", "http://dispatch.internal:9000")

	c := New()
	assert.Equal(t, 3*time.Second, c.RestTimeout)
	assert.Equal(t, 9, c.ReconnectMax)
	assert.Equal(t, "http://dispatch.internal:9000", c.APIBaseURL)
}

func TestEnvOverridesFallBackWhenUnparseable(t *testing.T) {
	t.Setenv("REST_TIMEOUT", "not-a-duration")
	t.Setenv("BADGE_MAX_RETRIES", "many")

	c := New()
	assert.Equal(t, 10*time.Second, c.RestTimeout)
	assert.Equal(t, 3, c.BadgeMaxRetries)
}

func TestSetLogger(t *testing.T) {
	for _, env := range []string{"", "development", "production"} {
		logger, err := setLogger(env)
		assert.NoError(t, err)
		assert.NotNil(t, logger)
	}
}

func TestErrorStatus(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorStatus("failed to find call", 404, w, errors.New("not found"))

	assert.Equal(t, 404, w.Code)
	assert.Contains(t, w.Body.String(), "failed to find call")
	assert.Contains(t, w.Body.String(), "not found")
}
