// Package hub fans change events out to per-session subscribers. Delivery is
// best-effort: a subscriber that cannot keep up is dropped, and events are
// never buffered for replay. Late subscribers are expected to fetch a profile
// snapshot first.
package hub

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/rolebrief/backend/models"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 32

// Subscription is one live event feed for a session.
type Subscription struct {
	ID        string
	SessionID string
	C         <-chan models.ChangeEvent
}

// Hub routes events by session ID.
type Hub struct {
	mu       sync.Mutex
	buffer   int
	closed   bool
	sessions map[string]map[string]chan models.ChangeEvent
}

// New creates a Hub with the given per-subscriber buffer. A non-positive
// buffer falls back to DefaultBuffer.
func New(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		buffer:   buffer,
		sessions: make(map[string]map[string]chan models.ChangeEvent),
	}
}

// Subscribe registers a new listener for a session. The channel is closed when
// the subscriber is dropped, unsubscribed, or the hub shuts down.
func (h *Hub) Subscribe(sessionID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan models.ChangeEvent, h.buffer)
	sub := &Subscription{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		C:         ch,
	}

	if h.closed {
		close(ch)
		return sub
	}

	subs, ok := h.sessions[sessionID]
	if !ok {
		subs = make(map[string]chan models.ChangeEvent)
		h.sessions[sessionID] = subs
	}
	subs[sub.ID] = ch

	log.Printf("[Hub] Subscriber %s joined session %s (%d active)", sub.ID, sessionID, len(subs))
	return sub
}

// Unsubscribe removes a listener and closes its channel. Unknown IDs are
// ignored.
func (h *Hub) Unsubscribe(sessionID, subID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.sessions[sessionID]
	if !ok {
		return
	}
	ch, ok := subs[subID]
	if !ok {
		return
	}

	delete(subs, subID)
	close(ch)
	if len(subs) == 0 {
		delete(h.sessions, sessionID)
	}
}

// Publish delivers an event to every subscriber of its session. A subscriber
// whose buffer is full is dropped and its channel closed; the remaining
// subscribers still receive the event.
func (h *Hub) Publish(event models.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	subs, ok := h.sessions[event.SessionID]
	if !ok {
		return
	}

	for id, ch := range subs {
		select {
		case ch <- event:
		default:
			delete(subs, id)
			close(ch)
			log.Printf("[Hub] Dropped slow subscriber %s on session %s", id, event.SessionID)
		}
	}
	if len(subs) == 0 {
		delete(h.sessions, event.SessionID)
	}
}

// SubscriberCount reports the number of live subscribers for a session.
func (h *Hub) SubscriberCount(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions[sessionID])
}

// Close drops every subscriber and rejects future publishes.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for sessionID, subs := range h.sessions {
		for _, ch := range subs {
			close(ch)
		}
		delete(h.sessions, sessionID)
	}
}
