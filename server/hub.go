package server

import (
	"sync"

	"github.com/gorilla/websocket"
)

// client serializes writes to one connection, which supports a single
// concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Hub tracks websocket clients and pushes JSON messages to all of them.
// It is safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]*client)}
}

// AddClient registers conn to receive broadcasts.
func (h *Hub) AddClient(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; !ok {
		h.clients[conn] = &client{conn: conn}
	}
	h.mu.Unlock()
}

// RemoveClient unregisters conn and closes it.
func (h *Hub) RemoveClient(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendJSON sends v to a single registered client. A client that fails is
// dropped.
func (h *Hub) SendJSON(conn *websocket.Conn, v any) error {
	h.mu.RLock()
	c, ok := h.clients[conn]
	h.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := c.writeJSON(v); err != nil {
		h.RemoveClient(conn)
		return err
	}
	return nil
}

// BroadcastJSON sends v to every client. Clients that fail are dropped.
func (h *Hub) BroadcastJSON(v any) {
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(v); err != nil {
			h.RemoveClient(c.conn)
		}
	}
}
