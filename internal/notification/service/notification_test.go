package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	redismock "github.com/go-redis/redismock/v9"
	"github.com/gorilla/websocket"

	"github.com/chaoslab/commerce/internal/notification/history"
	"github.com/chaoslab/commerce/internal/notification/ws"
	"github.com/chaoslab/commerce/pkg/apierr"
	"github.com/chaoslab/commerce/pkg/health"
	"github.com/chaoslab/commerce/pkg/ident"
	"github.com/chaoslab/commerce/pkg/logger"
)

func newTestServer(t *testing.T) (*httptest.Server, *ws.Hub) {
	t.Helper()

	ids, err := ident.New(2)
	if err != nil {
		t.Fatalf("failed to create id generator: %v", err)
	}
	hub := ws.NewHub()
	svc := New(history.NewMemoryHistory(), hub, logger.New("notification-service", io.Discard), ids, 50)
	server := httptest.NewServer(svc.Routes(health.New("notification-service")))
	t.Cleanup(func() {
		hub.CloseAll()
		server.Close()
	})
	return server, hub
}

func send(t *testing.T, url string, req SendRequest) *history.Notification {
	t.Helper()

	payload, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	resp, err := http.Post(url+"/send", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var n history.Notification
	if err := json.NewDecoder(resp.Body).Decode(&n); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	return &n
}

func TestSendDefaults(t *testing.T) {
	server, _ := newTestServer(t)

	n := send(t, server.URL, SendRequest{Message: "payment flow started"})
	if n.Status != "sent" {
		t.Fatalf("expected sent, got %s", n.Status)
	}
	if n.Type != "info" {
		t.Fatalf("expected default type info, got %s", n.Type)
	}
	if n.Recipient != "system" {
		t.Fatalf("expected default recipient system, got %s", n.Recipient)
	}
	if !strings.HasPrefix(n.ID, "NOT-") {
		t.Fatalf("expected NOT- prefixed id, got %s", n.ID)
	}
}

func TestHistoryWindowAfter60Sends(t *testing.T) {
	server, _ := newTestServer(t)

	var sentIDs []string
	for i := 0; i < 60; i++ {
		n := send(t, server.URL, SendRequest{Message: fmt.Sprintf("message %d", i), Type: "payment"})
		sentIDs = append(sentIDs, n.ID)
	}

	resp, err := http.Get(server.URL + "/history")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Notifications []history.Notification `json:"notifications"`
		TotalCount    int                    `json:"total_count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}

	if payload.TotalCount != 60 {
		t.Fatalf("expected total_count 60, got %d", payload.TotalCount)
	}
	if len(payload.Notifications) != 50 {
		t.Fatalf("expected exactly 50 notifications, got %d", len(payload.Notifications))
	}
	// most recent 50, in send order
	for i, n := range payload.Notifications {
		if n.ID != sentIDs[10+i] {
			t.Fatalf("position %d: expected %s, got %s", i, sentIDs[10+i], n.ID)
		}
	}
}

func TestStatusLookup(t *testing.T) {
	server, _ := newTestServer(t)

	n := send(t, server.URL, SendRequest{Message: "hello", Type: "info", Recipient: "ops"})

	resp, err := http.Get(server.URL + "/status/" + n.ID)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var found history.Notification
	if err := json.NewDecoder(resp.Body).Decode(&found); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if found.Recipient != "ops" {
		t.Fatalf("unexpected record: %+v", found)
	}
}

func TestStatusNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/status/NOT-MISSING")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if payload["status"] != "not_found" {
		t.Fatalf("expected not_found, got %v", payload["status"])
	}
	if payload["id"] != "NOT-MISSING" {
		t.Fatalf("expected id echoed, got %v", payload["id"])
	}
}

func TestStatusBackendFailureIsInternal(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectLRange("notifications:history", 0, -1).SetErr(fmt.Errorf("connection lost"))

	ids, err := ident.New(2)
	if err != nil {
		t.Fatalf("failed to create id generator: %v", err)
	}
	hub := ws.NewHub()
	svc := New(history.NewRedisHistory(client), hub, logger.New("notification-service", io.Discard), ids, 50)
	server := httptest.NewServer(svc.Routes(health.New("notification-service")))
	t.Cleanup(func() {
		hub.CloseAll()
		server.Close()
	})

	resp, err := http.Get(server.URL + "/status/NOT-1")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500 for a history backend failure, got %d", resp.StatusCode)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if payload["status"] == "not_found" {
		t.Fatal("backend failure must not be reported as a missing notification")
	}
	if payload["code"] != string(apierr.CodeInternal) {
		t.Fatalf("expected INTERNAL code, got %v", payload["code"])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLiveFeedReceivesSends(t *testing.T) {
	server, hub := newTestServer(t)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.ConnectionCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	sent := send(t, server.URL, SendRequest{Message: "live update", Type: "payment"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var got history.Notification
	if err := json.Unmarshal(message, &got); err != nil {
		t.Fatalf("failed to decode feed message: %v", err)
	}
	if got.ID != sent.ID {
		t.Fatalf("expected feed to carry %s, got %s", sent.ID, got.ID)
	}
}
