package config

import "go.uber.org/zap"

// setLogger builds the zap logger for the given environment. Production
// gets the sampled JSON logger, development gets the console logger with
// debug enabled, anything else falls back to the example logger so local
// runs and tests stay quiet.
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewExample(), nil
	}
}
