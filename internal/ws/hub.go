package ws

import (
	"encoding/json"
	"sync"
	"time"

	"piquiz_backend/internal/domain"
	"piquiz_backend/internal/logger"

	"github.com/google/uuid"
)

// DriftEvent is the celebratory broadcast sent when a pioneer drifts a node.
type DriftEvent struct {
	EventID   string    `json:"event_id"`
	Type      string    `json:"type"`
	UserID    int64     `json:"user_id"`
	Username  string    `json:"username"`
	NodeID    int64     `json:"node_id"`
	NodeName  string    `json:"node_name"`
	Rarity    string    `json:"rarity"`
	Cost      int64     `json:"cost"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub fans drift events out to all connected clients. Delivery is best-effort:
// a slow client gets dropped, never blocks the sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logger.Debug("ws client registered", "user_id", c.UserID)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
	}
	h.mu.Unlock()
	logger.Debug("ws client unregistered", "user_id", c.UserID)
}

// NotifyDrift implements service.DriftNotifier.
func (h *Hub) NotifyDrift(userID int64, username string, node domain.Node, cost int64) {
	event := DriftEvent{
		EventID:   uuid.NewString(),
		Type:      "drift",
		UserID:    userID,
		Username:  username,
		NodeID:    node.ID,
		NodeName:  node.Name,
		Rarity:    string(node.Rarity),
		Cost:      cost,
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("marshal drift event", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.Send <- payload:
		default:
			// slow consumer; skip rather than block the broadcast
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
