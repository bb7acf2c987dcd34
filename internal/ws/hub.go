package ws

import (
	"sync"

	"referral_rewards/internal/domain"
	"referral_rewards/internal/logger"
)

// Hub fans reward events out to the websocket clients of each beneficiary.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]map[*Client]struct{})}
}

// Register subscribes c to events for c.UserID
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.UserID] = set
	}
	set[c] = struct{}{}
	logger.Debug("ws client registered", "user_id", c.UserID, "connections", len(set))
}

// Unregister removes c and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	set, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.Send)
}

// Publish delivers event to every connection of event.UserID. A client whose
// buffer is full is dropped instead of blocking the publisher.
func (h *Hub) Publish(event domain.RewardEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.clients[event.UserID]
	if len(set) == 0 {
		return
	}
	msg := eventMessage(event)
	for c := range set {
		select {
		case c.Send <- msg:
		default:
			logger.Warn("ws client too slow, dropping", "user_id", c.UserID)
			h.removeLocked(c)
		}
	}
}

// deliver queues msg for c if it is still registered
func (h *Hub) deliver(c *Client, msg []byte) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.UserID][c]; !ok {
		return false
	}
	select {
	case c.Send <- msg:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of open connections for userID
func (h *Hub) ClientCount(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// CloseAll disconnects every client, used on shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for c := range set {
			h.removeLocked(c)
		}
	}
}
