// Package config loads the payment service configuration.
package config

import (
	"time"

	commonconfig "github.com/chaoslab/commerce/pkg/config"
)

// Config holds the payment service settings.
type Config struct {
	ServiceName string
	HTTPPort    int

	InventoryURL    string
	NotificationURL string

	// StepTimeout bounds each chain step; ProcessTimeout bounds the
	// single-call inventory check.
	StepTimeout    time.Duration
	ProcessTimeout time.Duration

	// RefundDelay simulates refund processing time.
	RefundDelay time.Duration

	// ParallelChain fans chain steps out concurrently. Off by default:
	// the sequential order is part of the harness contract.
	ParallelChain bool

	WorkerID int64

	TracingEnabled  bool
	JaegerEndpoint  string
	TraceSampleRate float64
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		ServiceName: commonconfig.GetEnv("SERVICE_NAME", "payment-service"),
		HTTPPort:    commonconfig.GetEnvInt("HTTP_PORT", 8090),

		InventoryURL:    commonconfig.GetEnv("INVENTORY_SERVICE", "http://localhost:8091"),
		NotificationURL: commonconfig.GetEnv("NOTIFICATION_SERVICE", "http://localhost:8092"),

		StepTimeout:    commonconfig.GetEnvDuration("STEP_TIMEOUT", 15*time.Second),
		ProcessTimeout: commonconfig.GetEnvDuration("PROCESS_TIMEOUT", 10*time.Second),

		RefundDelay: commonconfig.GetEnvDuration("REFUND_DELAY", 200*time.Millisecond),

		ParallelChain: commonconfig.GetEnvBool("PARALLEL_CHAIN", false),

		WorkerID: commonconfig.GetEnvInt64("WORKER_ID", 3),

		TracingEnabled:  commonconfig.GetEnvBool("TRACING_ENABLED", false),
		JaegerEndpoint:  commonconfig.GetEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		TraceSampleRate: 1,
	}
}
