// Package ws broadcasts dispatched notifications to websocket subscribers.
package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Client wraps a websocket connection with a send channel.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub manages the single broadcast group of feed subscribers.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	total   int64
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Subscribe registers a connection and returns the client wrapper.
func (h *Hub) Subscribe(conn *websocket.Conn) *Client {
	client := &Client{
		conn: conn,
		send: make(chan []byte, 256),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	atomic.AddInt64(&h.total, 1)

	return client
}

// Unsubscribe removes a connection.
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	atomic.AddInt64(&h.total, -1)
}

// Broadcast sends a message to every subscriber.
func (h *Hub) Broadcast(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Drop if the client is slow.
		}
	}
}

// ConnectionCount returns the number of active subscribers.
func (h *Hub) ConnectionCount() int64 {
	return atomic.LoadInt64(&h.total)
}

// CloseAll closes every active connection.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for client := range h.clients {
		conns = append(conns, client.conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		_ = conn.Close()
	}
}
