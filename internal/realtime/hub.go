package realtime

import (
	"sync"
)

// Session is one live client connection able to receive pushed messages.
// Send must not block; implementations drop the message when the peer is
// slow or gone.
type Session interface {
	Send(payload []byte) error
}

// Hub is the connection registry: userID -> set of live sessions. It is the
// only shared mutable state in the process and is owned by the notification
// path; nothing else reaches into it.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[Session]struct{}
}

// NewHub creates an empty registry.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]map[Session]struct{})}
}

// Register adds a session for a user.
func (h *Hub) Register(userID string, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[userID]
	if !ok {
		set = make(map[Session]struct{})
		h.sessions[userID] = set
	}
	set[s] = struct{}{}
}

// Unregister prunes a session; empty user entries are removed.
func (h *Hub) Unregister(userID string, s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.sessions[userID]
	if !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.sessions, userID)
	}
}

// Publish delivers payload to every live session of the user, best effort.
// Failed sends are pruned; there is no delivery guarantee beyond this, the
// client poll is the fallback.
func (h *Hub) Publish(userID string, payload []byte) {
	h.mu.RLock()
	set := h.sessions[userID]
	targets := make([]Session, 0, len(set))
	for s := range set {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		if err := s.Send(payload); err != nil {
			h.Unregister(userID, s)
		}
	}
}

// SessionCount reports live sessions for a user.
func (h *Hub) SessionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[userID])
}
