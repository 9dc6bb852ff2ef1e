package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	APIBaseURL        string
	WebSocketURL      string
	Port              string
	Env               string
	RestTimeout       time.Duration
	AnalyticsInterval time.Duration
	BadgePollInterval time.Duration
	BadgeMaxRetries   int
	ReconnectBase     time.Duration
	ReconnectCap      time.Duration
	ReconnectMax      int
}

// New sets up all config related services
func New() *Config {
	// load a local .env if one exists, real env vars win
	_ = godotenv.Load()

	logger, err := setLogger(os.Getenv("ENV"))
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		APIBaseURL:        envOrDefault("API_BASE_URL", "http://localhost:8000"),
		WebSocketURL:      envOrDefault("WS_URL", "ws://localhost:8000/ws"),
		Port:              envOrDefault("PORT", "3001"),
		Env:               os.Getenv("ENV"),
		RestTimeout:       envDuration("REST_TIMEOUT", 10*time.Second),
		AnalyticsInterval: envDuration("ANALYTICS_REFRESH_INTERVAL", 30*time.Second),
		BadgePollInterval: envDuration("BADGE_POLL_INTERVAL", 30*time.Second),
		BadgeMaxRetries:   envInt("BADGE_MAX_RETRIES", 3),
		ReconnectBase:     envDuration("RECONNECT_BASE_DELAY", time.Second),
		ReconnectCap:      envDuration("RECONNECT_MAX_DELAY", 30*time.Second),
		ReconnectMax:      envInt("RECONNECT_MAX_ATTEMPTS", 5),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		zap.S().Warnf("invalid duration for %s, using default of %v, err: %v", key, fallback, err)
		return fallback
	}
	return d
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		zap.S().Warnf("invalid integer for %s, using default of %v, err: %v", key, fallback, err)
		return fallback
	}
	return n
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
