package chain

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/chaoslab/commerce/pkg/tracing"
)

// Executor invokes one capability call, measures wall-clock latency, and
// converts every failure into a structured outcome instead of letting it
// propagate. It is stateless across calls: one attempt, no retry, no backoff.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an executor with the given per-step deadline.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout}
}

// Execute runs one step and returns its outcome. index is the step's 1-based
// position in the chain. The outcome always carries a latency: for a timed-out
// call it is the elapsed wall clock at expiry, at least the configured bound.
func (e *Executor) Execute(ctx context.Context, index int, req StepRequest) (outcome StepOutcome) {
	outcome = StepOutcome{
		StepIndex: index,
		Service:   req.Service,
	}

	stepCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		stepCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	spanCtx, span := tracing.StartSpan(stepCtx, "chain.step")
	span.SetAttributes(
		attribute.String("chain.service", req.Service),
		attribute.Int("chain.step", index),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		outcome.LatencyMS = RoundMS(time.Since(start))
		// A panicking capability call is still just a failed step.
		if v := recover(); v != nil {
			outcome.Status = StatusFailed
			outcome.ErrorDetail = fmt.Sprintf("step panic: %v", v)
		}
	}()

	if err := req.Call(spanCtx); err != nil {
		tracing.SetError(spanCtx, err)
		outcome.Status = StatusFailed
		outcome.ErrorDetail = err.Error()
		return outcome
	}

	outcome.Status = StatusSuccess
	return outcome
}
