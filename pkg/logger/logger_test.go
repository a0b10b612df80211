package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func decodeLastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	lines := strings.Split(buf.String(), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}

		var payload map[string]any
		if err := json.Unmarshal([]byte(lines[i]), &payload); err != nil {
			t.Fatalf("failed to decode log line: %v", err)
		}
		return payload
	}

	t.Fatal("no log lines found")
	return nil
}

func TestServiceFieldInjected(t *testing.T) {
	var buf bytes.Buffer
	log := New("payment", &buf)

	log.Info("chain started")

	payload := decodeLastLogLine(t, &buf)
	if payload["service"] != "payment" {
		t.Fatalf("expected service to be injected, got %v", payload["service"])
	}
	if payload["timestamp"] == nil {
		t.Fatal("expected timestamp to be injected")
	}
	if payload["level"] != "info" {
		t.Fatalf("expected level to be info, got %v", payload["level"])
	}
	if payload["message"] != "chain started" {
		t.Fatalf("expected message to match, got %v", payload["message"])
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name  string
		logFn func(*Logger)
		want  string
	}{
		{
			name: "warn",
			logFn: func(l *Logger) {
				l.Warn("warning")
			},
			want: "warn",
		},
		{
			name: "error",
			logFn: func(l *Logger) {
				l.Error("failure")
			},
			want: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New("inventory", &buf)

			tt.logFn(log)

			payload := decodeLastLogLine(t, &buf)
			if payload["level"] != tt.want {
				t.Fatalf("expected level %s, got %v", tt.want, payload["level"])
			}
		})
	}
}

func TestInfofFields(t *testing.T) {
	var buf bytes.Buffer
	log := New("payment", &buf)

	log.Infof("step done", map[string]interface{}{"step": 1, "status": "success"})

	payload := decodeLastLogLine(t, &buf)
	if payload["step"] != float64(1) {
		t.Fatalf("expected step field, got %v", payload["step"])
	}
	if payload["status"] != "success" {
		t.Fatalf("expected status field, got %v", payload["status"])
	}
}

func TestWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := New("notification", &buf)

	log.WithRequestID("req-123").Info("sent")

	payload := decodeLastLogLine(t, &buf)
	if payload["requestID"] != "req-123" {
		t.Fatalf("expected requestID to be injected, got %v", payload["requestID"])
	}

	if got := log.WithRequestID(""); got != log {
		t.Fatal("expected empty request id to return the same logger")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New("payment", &buf)

	log.WithError(errors.New("connection refused")).Error("step failed")

	payload := decodeLastLogLine(t, &buf)
	if payload["error"] != "connection refused" {
		t.Fatalf("expected error field, got %v", payload["error"])
	}
}

func TestNewWithNilWriter(t *testing.T) {
	log := New("inventory", nil)
	if log == nil {
		t.Fatal("expected logger instance")
	}
}
