package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chaoslab/commerce/pkg/apierr"
)

func TestNotify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["message"] != "payment flow started" {
			t.Fatalf("unexpected message: %q", body["message"])
		}
		if body["type"] != "payment" {
			t.Fatalf("unexpected type: %q", body["type"])
		}

		resp := map[string]interface{}{
			"id":        "NOT-1",
			"message":   body["message"],
			"type":      body["type"],
			"recipient": body["recipient"],
			"status":    "sent",
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	c := NewNotificationClient(server.URL)
	receipt, err := c.Notify(context.Background(), "payment flow started", "payment", "system")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if receipt.Status != "sent" || receipt.ID != "NOT-1" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}
}

func TestNotifyServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewNotificationClient(server.URL)
	_, err := c.Notify(context.Background(), "msg", "info", "system")
	if apierr.CodeOf(err) != apierr.CodeUnavailable {
		t.Fatalf("expected UNAVAILABLE, got %v", err)
	}
}

func TestNotifyConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	c := NewNotificationClient(server.URL)
	_, err := c.Notify(context.Background(), "msg", "info", "system")
	if apierr.CodeOf(err) != apierr.CodeUnavailable {
		t.Fatalf("expected UNAVAILABLE, got %v", err)
	}
}

func TestNotifyMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer server.Close()

	c := NewNotificationClient(server.URL)
	_, err := c.Notify(context.Background(), "msg", "info", "system")
	if apierr.CodeOf(err) != apierr.CodeMalformedResponse {
		t.Fatalf("expected MALFORMED_RESPONSE, got %v", err)
	}
}
