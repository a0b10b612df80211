// Package config loads the inventory service configuration.
package config

import (
	commonconfig "github.com/chaoslab/commerce/pkg/config"
)

// Config holds the inventory service settings.
type Config struct {
	ServiceName string
	HTTPPort    int

	// PostgresDSN selects the Postgres product store when non-empty;
	// the seeded in-memory store is used otherwise.
	PostgresDSN string

	WorkerID int64

	TracingEnabled  bool
	JaegerEndpoint  string
	TraceSampleRate float64
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		ServiceName: commonconfig.GetEnv("SERVICE_NAME", "inventory-service"),
		HTTPPort:    commonconfig.GetEnvInt("HTTP_PORT", 8091),

		PostgresDSN: commonconfig.GetEnv("POSTGRES_DSN", ""),

		WorkerID: commonconfig.GetEnvInt64("WORKER_ID", 1),

		TracingEnabled:  commonconfig.GetEnvBool("TRACING_ENABLED", false),
		JaegerEndpoint:  commonconfig.GetEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		TraceSampleRate: 1,
	}
}
