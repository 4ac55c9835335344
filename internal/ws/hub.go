package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// Hub tracks one notification websocket connection per user. Notifications
// for users without a connection are dropped; delivery is best-effort.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*websocket.Conn
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*websocket.Conn)}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Serve upgrades the request and registers the connection for the user,
// replacing any previous connection. It blocks until the peer disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	h.mu.Lock()
	if old, ok := h.conns[userID]; ok {
		_ = old.Close()
	}
	h.conns[userID] = conn
	h.mu.Unlock()

	// Drain reads until the peer goes away so we notice the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	if h.conns[userID] == conn {
		delete(h.conns, userID)
	}
	h.mu.Unlock()

	return conn.Close()
}

// Send pushes a payload to the user's connection. Returns false if the user
// has no connection or the write failed.
func (h *Hub) Send(userID string, payload []byte) bool {
	h.mu.RLock()
	conn, ok := h.conns[userID]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Printf("websocket write to %s failed: %v", userID, err)
		return false
	}

	return true
}
