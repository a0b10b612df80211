package chain

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestExecuteSuccess(t *testing.T) {
	exec := NewExecutor(time.Second)

	outcome := exec.Execute(context.Background(), 1, StepRequest{
		Service: "inventory",
		Call:    func(context.Context) error { return nil },
	})

	if outcome.Status != StatusSuccess {
		t.Fatalf("expected success, got %s", outcome.Status)
	}
	if outcome.StepIndex != 1 {
		t.Fatalf("expected step index 1, got %d", outcome.StepIndex)
	}
	if outcome.Service != "inventory" {
		t.Fatalf("expected service inventory, got %s", outcome.Service)
	}
	if outcome.LatencyMS < 0 {
		t.Fatalf("expected non-negative latency, got %f", outcome.LatencyMS)
	}
	if outcome.ErrorDetail != "" {
		t.Fatalf("expected no error detail, got %q", outcome.ErrorDetail)
	}
}

func TestExecuteFailureIsConverted(t *testing.T) {
	exec := NewExecutor(time.Second)

	outcome := exec.Execute(context.Background(), 2, StepRequest{
		Service: "notification",
		Call:    func(context.Context) error { return errors.New("connection refused") },
	})

	if outcome.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", outcome.Status)
	}
	if outcome.ErrorDetail != "connection refused" {
		t.Fatalf("expected cause to be recorded, got %q", outcome.ErrorDetail)
	}
}

func TestExecuteTimeoutRecordsLatency(t *testing.T) {
	const deadline = 50 * time.Millisecond
	exec := NewExecutor(deadline)

	outcome := exec.Execute(context.Background(), 1, StepRequest{
		Service: "inventory",
		Call: func(ctx context.Context) error {
			select {
			case <-time.After(5 * time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})

	if outcome.Status != StatusFailed {
		t.Fatalf("expected failed after timeout, got %s", outcome.Status)
	}
	if outcome.LatencyMS < RoundMS(deadline) {
		t.Fatalf("expected latency >= %f ms, got %f", RoundMS(deadline), outcome.LatencyMS)
	}
	if outcome.ErrorDetail == "" {
		t.Fatal("expected error detail for timeout")
	}
}

func TestExecutePanicIsConverted(t *testing.T) {
	exec := NewExecutor(time.Second)

	outcome := exec.Execute(context.Background(), 1, StepRequest{
		Service: "inventory",
		Call:    func(context.Context) error { panic("boom") },
	})

	if outcome.Status != StatusFailed {
		t.Fatalf("expected failed after panic, got %s", outcome.Status)
	}
	if outcome.ErrorDetail != "step panic: boom" {
		t.Fatalf("unexpected error detail: %q", outcome.ErrorDetail)
	}
}

func TestExecuteExactlyOneAttempt(t *testing.T) {
	exec := NewExecutor(time.Second)

	calls := 0
	exec.Execute(context.Background(), 1, StepRequest{
		Service: "inventory",
		Call: func(context.Context) error {
			calls++
			return errors.New("transient")
		},
	})

	if calls != 1 {
		t.Fatalf("expected exactly one attempt, got %d", calls)
	}
}

func TestRoundMS(t *testing.T) {
	if got := RoundMS(1234567 * time.Microsecond); got != 1234.57 {
		t.Fatalf("expected 1234.57, got %f", got)
	}
	if got := RoundMS(0); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
}
