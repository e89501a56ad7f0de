// internal/messaging/hub.go

package messaging

import (
	"sync"

	"github.com/gymmatch/gymmatch-backend/internal/logging"
)

// Hub maps each user to their single live connection.
type Hub struct {
	clients    map[int64]*Client
	clientsMux sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*Client)}
}

// Register installs c as the user's connection, closing any previous one.
func (h *Hub) Register(c *Client) {
	h.clientsMux.Lock()
	old, exists := h.clients[c.userID]
	h.clients[c.userID] = c
	total := len(h.clients)
	h.clientsMux.Unlock()

	if exists && old != c {
		old.Close()
		logging.Info().
			Int64("user_id", c.userID).
			Str("replaced_conn", old.id).
			Msg("Realtime connection replaced")
	}
	realtimeConnections.Set(float64(total))
	logging.Info().
		Int64("user_id", c.userID).
		Str("conn_id", c.id).
		Int("total", total).
		Msg("User connected")
}

// Unregister drops c only if it is still the user's current connection.
func (h *Hub) Unregister(c *Client) bool {
	h.clientsMux.Lock()
	current, exists := h.clients[c.userID]
	removed := exists && current == c
	if removed {
		delete(h.clients, c.userID)
	}
	total := len(h.clients)
	h.clientsMux.Unlock()

	if removed {
		realtimeConnections.Set(float64(total))
		logging.Info().
			Int64("user_id", c.userID).
			Str("conn_id", c.id).
			Int("total", total).
			Msg("User disconnected")
	}
	return removed
}

func (h *Hub) Get(userID int64) (*Client, bool) {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	c, ok := h.clients[userID]
	return c, ok
}

// SendToUser reports whether the event was queued for a connected user.
func (h *Hub) SendToUser(userID int64, ev ServerEvent) bool {
	c, ok := h.Get(userID)
	if !ok {
		return false
	}
	return c.Send(ev)
}

func (h *Hub) IsUserOnline(userID int64) bool {
	_, ok := h.Get(userID)
	return ok
}

func (h *Hub) ActiveConnections() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// Shutdown closes every connection and empties the registry.
func (h *Hub) Shutdown() {
	h.clientsMux.Lock()
	clients := h.clients
	h.clients = make(map[int64]*Client)
	h.clientsMux.Unlock()

	for _, c := range clients {
		c.Close()
	}
	realtimeConnections.Set(0)
}
