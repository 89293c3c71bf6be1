package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message tells an open parent or child view that something it displays has
// changed and it should refresh.
type Message struct {
	Type   string `json:"type"`
	Entity string `json:"entity"`
	Action string `json:"action"`
	ID     int64  `json:"id,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action string, id int64) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
	}
}

// audience identifies which account a connection belongs to. Events are
// delivered only to that account's open views, so one family's activity is
// never pushed to another's browser.
type audience struct {
	role   string
	userID int64
}

// Hub maintains the set of active WebSocket clients grouped by account.
type Hub struct {
	mu      sync.RWMutex
	clients map[audience]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[audience]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub under its account.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	set, ok := h.clients[c.audience]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.audience] = set
	}
	set[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if set, ok := h.clients[c.audience]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.send)
		}
		if len(set) == 0 {
			delete(h.clients, c.audience)
		}
	}
	h.mu.Unlock()
}

// NotifyParent sends a message to every open view of one parent account.
func (h *Hub) NotifyParent(parentID int64, msg Message) {
	h.send(audience{role: "parent", userID: parentID}, msg)
}

// NotifyChild sends a message to every open view of one child account.
func (h *Hub) NotifyChild(childID int64, msg Message) {
	h.send(audience{role: "child", userID: childID}, msg)
}

func (h *Hub) send(aud audience, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal message", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[aud] {
		select {
		case c.send <- data:
		default:
			// client buffer full, drop rather than block the sender
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}
