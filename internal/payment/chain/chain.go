// Package chain runs ordered sequences of downstream calls and aggregates the
// outcomes. It is a saga executor with no compensation: a failed step is
// observed, recorded, and never undone. The harness exists to expose partial
// failure, not to hide it.
package chain

import (
	"context"
	"math"
	"time"
)

// Status is a single step's terminal state.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// OverallStatus is the aggregate over all steps of one chain.
type OverallStatus string

const (
	OverallSuccess        OverallStatus = "success"
	OverallPartialFailure OverallStatus = "partial_failure"
)

// StepRequest identifies one capability call. Immutable once constructed.
type StepRequest struct {
	// Service is the logical name of the capability ("inventory", "notification").
	Service string
	// Call performs exactly one remote call, honoring ctx's deadline.
	Call func(ctx context.Context) error
}

// StepOutcome records the result of executing one StepRequest.
type StepOutcome struct {
	// StepIndex is the 1-based position in the chain.
	StepIndex int    `json:"step"`
	Service   string `json:"service"`
	Status    Status `json:"status"`
	// LatencyMS is the wall clock from call start to terminal outcome,
	// timeout expiry included. It is always present, never omitted.
	LatencyMS float64 `json:"latency_ms"`
	// ErrorDetail carries the cause when Status is failed.
	ErrorDetail string `json:"error,omitempty"`
}

// Result is the aggregate of one chain execution.
type Result struct {
	Steps         []StepOutcome `json:"steps"`
	OverallStatus OverallStatus `json:"overall_status"`
	// TotalTimeMS is measured independently of the per-step latencies and
	// includes any overhead between steps.
	TotalTimeMS float64 `json:"total_time_ms"`
}

// Aggregate derives the overall status: success iff every step succeeded.
// An empty outcome list is vacuously successful.
func Aggregate(steps []StepOutcome) OverallStatus {
	for _, s := range steps {
		if s.Status != StatusSuccess {
			return OverallPartialFailure
		}
	}
	return OverallSuccess
}

// RoundMS converts a duration to milliseconds rounded to 2 decimals, the
// latency convention every payload uses.
func RoundMS(d time.Duration) float64 {
	return math.Round(d.Seconds()*1000*100) / 100
}
