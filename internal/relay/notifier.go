package relay

import (
	"log/slog"

	"github.com/dieptv1999/trustkeys-connector/internal/connector"
	"github.com/dieptv1999/trustkeys-connector/internal/journal"
)

// Relay receives the connector's pushed notifications and fans them out to
// SSE clients and the journal. It is the daemon's connector.Notifier.
type Relay struct {
	hub   *SSEHub
	store *journal.Store
}

var _ connector.Notifier = (*Relay)(nil)

// NewRelay wires the hub and journal together. store may be nil when the
// daemon runs without persistence.
func NewRelay(hub *SSEHub, store *journal.Store) *Relay {
	return &Relay{hub: hub, store: store}
}

// HandleUpdate broadcasts and journals an update notification.
func (r *Relay) HandleUpdate(u connector.Update) {
	r.hub.Broadcast(Event{
		Type: "update",
		Data: UpdateData{Account: u.Account, ChainID: u.ChainID},
	})

	if r.store != nil {
		if err := r.store.RecordUpdate(u.Account, u.ChainID); err != nil {
			slog.Error("failed to journal update event", "error", err)
		}
	}
}

// HandleDeactivate broadcasts and journals a deactivation notification.
func (r *Relay) HandleDeactivate(reason string) {
	r.hub.Broadcast(Event{
		Type: "deactivate",
		Data: DeactivateData{Reason: reason},
	})

	if r.store != nil {
		if err := r.store.RecordDeactivate(reason); err != nil {
			slog.Error("failed to journal deactivate event", "error", err)
		}
	}
}
