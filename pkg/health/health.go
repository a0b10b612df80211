// Package health serves the liveness payload and optional dependency checks.
package health

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusDegraded Status = "degraded"
)

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

type CheckResult struct {
	Status  Status        `json:"status"`
	Latency time.Duration `json:"latency"`
	Message string        `json:"message,omitempty"`
}

// Response is the /health payload. Dependencies is omitted when no checkers
// are registered, matching the minimal {status, service, timestamp} shape.
type Response struct {
	Status       Status                 `json:"status"`
	Service      string                 `json:"service"`
	Timestamp    float64                `json:"timestamp"`
	Dependencies map[string]CheckResult `json:"dependencies,omitempty"`
}

const defaultCheckTimeout = 2 * time.Second

// Health aggregates dependency checkers for one service.
type Health struct {
	service  string
	checkers []Checker
}

func New(service string) *Health {
	return &Health{service: service}
}

func (h *Health) Register(c Checker) {
	if c == nil {
		return
	}
	h.checkers = append(h.checkers, c)
}

// Check runs all registered checkers and summarizes the result.
func (h *Health) Check(ctx context.Context) Response {
	resp := Response{
		Status:    StatusHealthy,
		Service:   h.service,
		Timestamp: float64(time.Now().UnixNano()) / float64(time.Second),
	}
	if len(h.checkers) == 0 {
		return resp
	}

	deps := h.runChecks(ctx)
	resp.Dependencies = deps
	for _, r := range deps {
		if r.Status != StatusHealthy {
			resp.Status = StatusDegraded
			break
		}
	}
	return resp
}

// Handler serves GET /health. A degraded dependency does not fail the probe;
// the service itself is still alive.
func (h *Health) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := h.Check(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func (h *Health) runChecks(parent context.Context) map[string]CheckResult {
	results := make(map[string]CheckResult, len(h.checkers))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, c := range h.checkers {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()

			name := c.Name()
			if name == "" {
				name = "unknown"
			}

			start := time.Now()
			depCtx, cancel := context.WithTimeout(parent, defaultCheckTimeout)
			defer cancel()

			resCh := make(chan CheckResult, 1)
			go func() {
				resCh <- c.Check(depCtx)
			}()

			var res CheckResult
			select {
			case res = <-resCh:
			case <-depCtx.Done():
				res = CheckResult{
					Status:  StatusDegraded,
					Latency: time.Since(start),
					Message: "timeout",
				}
				// drain so the checker goroutine can exit
				go func() { <-resCh }()
			}

			if res.Latency <= 0 {
				res.Latency = time.Since(start)
			}
			if res.Status == "" {
				res.Status = StatusDegraded
			}

			mu.Lock()
			results[name] = res
			mu.Unlock()
		}()
	}

	wg.Wait()
	return results
}

// PingChecker wraps a ping func as a Checker (used for redis).
type PingChecker struct {
	CheckerName string
	Ping        func(ctx context.Context) error
}

func (p PingChecker) Name() string { return p.CheckerName }

func (p PingChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return CheckResult{Status: StatusDegraded, Latency: time.Since(start), Message: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Latency: time.Since(start)}
}

// DBChecker probes a sql database.
type DBChecker struct {
	CheckerName string
	DB          *sql.DB
}

func (d DBChecker) Name() string { return d.CheckerName }

func (d DBChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	if err := d.DB.PingContext(ctx); err != nil {
		return CheckResult{Status: StatusDegraded, Latency: time.Since(start), Message: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Latency: time.Since(start)}
}
