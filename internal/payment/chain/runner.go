package chain

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chaoslab/commerce/pkg/logger"
)

// Observer receives step and chain outcomes for metrics.
type Observer interface {
	ObserveStep(service string, status Status, latencyMS float64)
	ObserveChain(status OverallStatus, totalMS float64)
}

// Runner executes a chain of steps and derives the aggregate result.
type Runner struct {
	exec     *Executor
	log      *logger.Logger
	observer Observer
	parallel bool
}

// NewRunner creates a sequential runner. A nil observer disables metrics.
func NewRunner(exec *Executor, log *logger.Logger, observer Observer) *Runner {
	return &Runner{exec: exec, log: log, observer: observer}
}

// NewParallelRunner creates a runner that fans the steps out concurrently.
// The steps slice still defines the order of the result; only execution is
// concurrent. Use this only for chains whose steps are truly independent.
func NewParallelRunner(exec *Executor, log *logger.Logger, observer Observer) *Runner {
	r := NewRunner(exec, log, observer)
	r.parallel = true
	return r
}

// Run executes the steps and returns the aggregate. Steps run strictly in
// request order unless the runner is parallel; a failed step never halts the
// chain and never rolls back a prior step. An empty step list yields a
// vacuously successful result with an empty (non-nil) steps sequence.
func (r *Runner) Run(ctx context.Context, steps []StepRequest) Result {
	start := time.Now()

	outcomes := make([]StepOutcome, len(steps))
	if r.parallel {
		r.runParallel(ctx, steps, outcomes)
	} else {
		for i, step := range steps {
			outcomes[i] = r.runOne(ctx, i+1, step)
		}
	}

	result := Result{
		Steps:         outcomes,
		OverallStatus: Aggregate(outcomes),
		TotalTimeMS:   RoundMS(time.Since(start)),
	}

	if r.observer != nil {
		r.observer.ObserveChain(result.OverallStatus, result.TotalTimeMS)
	}
	r.log.Infof("chain finished", map[string]interface{}{
		"steps":          len(result.Steps),
		"overall_status": result.OverallStatus,
		"total_time_ms":  result.TotalTimeMS,
	})
	return result
}

func (r *Runner) runParallel(ctx context.Context, steps []StepRequest, outcomes []StepOutcome) {
	g, gctx := errgroup.WithContext(ctx)
	for i, step := range steps {
		i, step := i, step
		g.Go(func() error {
			outcomes[i] = r.runOne(gctx, i+1, step)
			// outcomes never surface as errors, so the group never cancels
			return nil
		})
	}
	_ = g.Wait()
}

func (r *Runner) runOne(ctx context.Context, index int, step StepRequest) StepOutcome {
	outcome := r.exec.Execute(ctx, index, step)

	if r.observer != nil {
		r.observer.ObserveStep(outcome.Service, outcome.Status, outcome.LatencyMS)
	}
	if outcome.Status == StatusFailed {
		r.log.Warnf("step failed", map[string]interface{}{
			"step":    outcome.StepIndex,
			"service": outcome.Service,
			"error":   outcome.ErrorDetail,
		})
	}
	return outcome
}
