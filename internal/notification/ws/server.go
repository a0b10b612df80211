package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chaoslab/commerce/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The harness runs on a closed network; origin checks are handled upstream.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler upgrades GET /ws requests and pumps broadcasts to the subscriber.
func (h *Hub) Handler(log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.WithError(err).Warn("websocket upgrade failed")
			return
		}

		client := h.Subscribe(conn)
		log.Infof("feed subscriber connected", map[string]interface{}{
			"subscribers": h.ConnectionCount(),
		})

		go h.writePump(client)
		go h.readPump(client)
	}
}

func (h *Hub) writePump(client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = client.conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the feed is one-way. It exists to notice
// closed connections and unsubscribe them.
func (h *Hub) readPump(client *Client) {
	defer h.Unsubscribe(client)

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}
