package relay

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dieptv1999/trustkeys-connector/internal/config"
)

// Event is an SSE event pushed to connected host applications.
type Event struct {
	Type string      `json:"type"` // "update" or "deactivate"
	Data interface{} `json:"data"`
}

// UpdateData is the payload for update events.
type UpdateData struct {
	Account string `json:"account,omitempty"`
	ChainID string `json:"chainId,omitempty"`
}

// DeactivateData is the payload for deactivate events.
type DeactivateData struct {
	Reason string `json:"reason"`
}

// SSEHub manages fan-out broadcasting of lifecycle events to connected SSE clients.
type SSEHub struct {
	clients map[chan Event]struct{}
	mu      sync.RWMutex
}

// NewSSEHub creates a new lifecycle event hub.
func NewSSEHub() *SSEHub {
	return &SSEHub{
		clients: make(map[chan Event]struct{}),
	}
}

// Run blocks until ctx is cancelled, then drains all clients.
func (h *SSEHub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.clients {
		close(ch)
		delete(h.clients, ch)
	}

	slog.Info("SSE hub stopped", "reason", ctx.Err())
}

// Subscribe registers a new client and returns a channel to receive events.
func (h *SSEHub) Subscribe() chan Event {
	ch := make(chan Event, config.SSEHubBuffer)

	h.mu.Lock()
	h.clients[ch] = struct{}{}
	clientCount := len(h.clients)
	h.mu.Unlock()

	slog.Info("SSE client subscribed", "totalClients", clientCount)
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (h *SSEHub) Unsubscribe(ch chan Event) {
	h.mu.Lock()
	if _, ok := h.clients[ch]; ok {
		delete(h.clients, ch)
		close(ch)
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	slog.Info("SSE client unsubscribed", "totalClients", clientCount)
}

// Broadcast sends an event to all connected clients.
// Non-blocking: if a client's channel is full, the event is dropped for that client.
func (h *SSEHub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- event:
		default:
			slog.Warn("SSE event dropped for slow client", "eventType", event.Type)
		}
	}
}

// ClientCount returns the number of connected SSE clients.
func (h *SSEHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
