package ws

import (
	"encoding/json"
	"sync"

	"github.com/celianh/marketplace-backend/internal/logger"
	"go.uber.org/zap"
)

// Hub is the process-wide connection registry: conversation id -> the set of
// live subscribers. One human may hold several clients for the same
// conversation (multiple tabs). Constructed once in server wiring and passed
// to everything that needs it; never a package global.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint64]map[*Client]bool
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint64]map[*Client]bool)}
}

func (h *Hub) Join(convID uint64, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[convID] == nil {
		h.rooms[convID] = make(map[*Client]bool)
	}
	h.rooms[convID][c] = true
}

// Leave removes the client and drops the conversation entry once its set
// empties, so dead conversations never accumulate.
func (h *Hub) Leave(convID uint64, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m := h.rooms[convID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.rooms, convID)
		}
	}
}

// Broadcast delivers payload to every current subscriber of the
// conversation. The lock covers only the subscriber snapshot, never a
// network send. A client that cannot keep up is closed (its teardown calls
// Leave); the remaining subscribers still get the payload.
func (h *Hub) Broadcast(convID uint64, payload interface{}) {
	b, err := json.Marshal(payload)
	if err != nil {
		logger.L().Error("broadcast marshal failed", zap.Uint64("conversationId", convID), zap.Error(err))
		return
	}

	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.rooms[convID]))
	for c := range h.rooms[convID] {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	for _, c := range subscribers {
		select {
		case c.send <- b:
		default:
			logger.L().Warn("dropping slow websocket subscriber", zap.Uint64("conversationId", convID))
			go c.Close()
		}
	}
}

// Subscribers reports the number of live clients for a conversation.
func (h *Hub) Subscribers(convID uint64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[convID])
}
