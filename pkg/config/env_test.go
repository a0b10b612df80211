package config

import (
	"testing"
	"time"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := GetEnv("TEST_STRING", "fallback"); got != "value" {
		t.Fatalf("expected value, got %s", got)
	}
	if got := GetEnv("TEST_STRING_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %s", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := GetEnvInt("TEST_INT", 1); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	t.Setenv("TEST_INT_BAD", "notanumber")
	if got := GetEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
}

func TestGetEnvInt64(t *testing.T) {
	t.Setenv("TEST_INT64", "9000000000")
	if got := GetEnvInt64("TEST_INT64", 1); got != 9000000000 {
		t.Fatalf("expected 9000000000, got %d", got)
	}
}

func TestGetEnvBool(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"0", false},
	}
	for _, c := range cases {
		t.Setenv("TEST_BOOL", c.value)
		if got := GetEnvBool("TEST_BOOL", !c.want); got != c.want {
			t.Fatalf("value %q: expected %v, got %v", c.value, c.want, got)
		}
	}
	if got := GetEnvBool("TEST_BOOL_MISSING", true); !got {
		t.Fatal("expected default true")
	}
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "150ms")
	if got := GetEnvDuration("TEST_DURATION", time.Second); got != 150*time.Millisecond {
		t.Fatalf("expected 150ms, got %v", got)
	}
	t.Setenv("TEST_DURATION_BAD", "nope")
	if got := GetEnvDuration("TEST_DURATION_BAD", 2*time.Second); got != 2*time.Second {
		t.Fatalf("expected default 2s, got %v", got)
	}
}
