package service

import (
	"sync"

	"github.com/google/uuid"
)

// Event is a realtime notification pushed to a connected client over SSE.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	EventMessage = "message"
	EventBadge   = "badge"
)

// Hub fans events out to a user's live subscriptions. Delivery is best
// effort: a slow subscriber drops events rather than blocking the sender.
// Core completion invariants never depend on the hub.
type Hub struct {
	mu   sync.RWMutex
	subs map[int]map[string]chan Event
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]map[string]chan Event)}
}

// Subscribe registers a new stream for the user and returns its id and
// channel. The caller must Unsubscribe when the stream ends.
func (h *Hub) Subscribe(userID int) (string, <-chan Event) {
	id := uuid.NewString()
	ch := make(chan Event, 16)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[string]chan Event)
	}
	h.subs[userID][id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(userID int, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if chans, ok := h.subs[userID]; ok {
		if ch, ok := chans[id]; ok {
			delete(chans, id)
			close(ch)
		}
		if len(chans) == 0 {
			delete(h.subs, userID)
		}
	}
}

// Publish delivers an event to every live subscription of the user.
func (h *Hub) Publish(userID int, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs[userID] {
		select {
		case ch <- ev:
		default:
		}
	}
}
