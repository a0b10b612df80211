// Package config loads the notification service configuration.
package config

import (
	commonconfig "github.com/chaoslab/commerce/pkg/config"
)

// Config holds the notification service settings.
type Config struct {
	ServiceName string
	HTTPPort    int

	// RedisAddr selects the Redis-backed history when non-empty;
	// the in-memory log is used otherwise.
	RedisAddr     string
	RedisPassword string

	// HistoryTail bounds the /history view.
	HistoryTail int

	WorkerID int64

	TracingEnabled  bool
	JaegerEndpoint  string
	TraceSampleRate float64
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		ServiceName: commonconfig.GetEnv("SERVICE_NAME", "notification-service"),
		HTTPPort:    commonconfig.GetEnvInt("HTTP_PORT", 8092),

		RedisAddr:     commonconfig.GetEnv("REDIS_ADDR", ""),
		RedisPassword: commonconfig.GetEnv("REDIS_PASSWORD", ""),

		HistoryTail: commonconfig.GetEnvInt("HISTORY_TAIL", 50),

		WorkerID: commonconfig.GetEnvInt64("WORKER_ID", 2),

		TracingEnabled:  commonconfig.GetEnvBool("TRACING_ENABLED", false),
		JaegerEndpoint:  commonconfig.GetEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		TraceSampleRate: 1,
	}
}
