package connector

import (
	"context"
	"testing"

	"github.com/dieptv1999/trustkeys-connector/internal/config"
)

// activatedConnector returns a connector activated against w with a
// recording notifier attached.
func activatedConnector(t *testing.T, w *fakeWallet) (*Connector, *recordingNotifier) {
	t.Helper()

	if w.requestFn == nil {
		w.requestFn = respond(map[string]string{
			config.MethodRequestAccounts: `["0xABC"]`,
		})
	}

	n := &recordingNotifier{}
	c := NewWithHandle(w, n)
	if _, err := c.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	return c, n
}

func TestRelay_ChainChanged(t *testing.T) {
	w := newFakeWallet()
	_, n := activatedConnector(t, w)

	w.emit(config.EventChainChanged, `"0x38"`)

	updates, deactivations := n.snapshot()
	if len(deactivations) != 0 {
		t.Errorf("deactivations = %v, want none", deactivations)
	}
	if len(updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(updates))
	}
	if updates[0].ChainID != "0x38" {
		t.Errorf("ChainID = %q, want %q", updates[0].ChainID, "0x38")
	}
	if updates[0].Provider != w {
		t.Error("update does not carry the provider handle")
	}
}

func TestRelay_NetworkChangedLegacyAlias(t *testing.T) {
	w := newFakeWallet()
	_, n := activatedConnector(t, w)

	w.emit(config.EventNetworkChanged, `"3"`)

	updates, _ := n.snapshot()
	if len(updates) != 1 || updates[0].ChainID != "3" {
		t.Fatalf("updates = %+v, want one update with chain id 3", updates)
	}
}

func TestRelay_AccountsChanged_NonEmpty(t *testing.T) {
	w := newFakeWallet()
	_, n := activatedConnector(t, w)

	w.emit(config.EventAccountsChanged, `["0xDEF"]`)

	updates, deactivations := n.snapshot()
	if len(deactivations) != 0 {
		t.Errorf("deactivations = %v, want none", deactivations)
	}
	if len(updates) != 1 || updates[0].Account != "0xDEF" {
		t.Fatalf("updates = %+v, want one update with account 0xDEF", updates)
	}
}

func TestRelay_AccountsChanged_EmptyDeactivates(t *testing.T) {
	w := newFakeWallet()
	_, n := activatedConnector(t, w)

	w.emit(config.EventAccountsChanged, `[]`)

	updates, deactivations := n.snapshot()
	if len(updates) != 0 {
		t.Errorf("updates = %+v, want none", updates)
	}
	if len(deactivations) != 1 {
		t.Fatalf("deactivations = %v, want 1", deactivations)
	}
}

func TestRelay_CloseDeactivates(t *testing.T) {
	w := newFakeWallet()
	_, n := activatedConnector(t, w)

	w.emit(config.EventClose, `{"code":1000,"reason":"session ended"}`)

	_, deactivations := n.snapshot()
	if len(deactivations) != 1 {
		t.Fatalf("deactivations = %v, want 1", deactivations)
	}
}

func TestRelay_UnparseablePayloadIgnored(t *testing.T) {
	w := newFakeWallet()
	_, n := activatedConnector(t, w)

	w.emit(config.EventChainChanged, `{{not json`)
	w.emit(config.EventAccountsChanged, `42`)

	updates, deactivations := n.snapshot()
	if len(updates) != 0 || len(deactivations) != 0 {
		t.Errorf("notifications = %v / %v, want none for garbage payloads", updates, deactivations)
	}
}

func TestRelay_SilentAfterDeactivate(t *testing.T) {
	w := newFakeWallet()
	c, n := activatedConnector(t, w)

	c.Deactivate()
	w.emit(config.EventChainChanged, `"0x1"`)
	w.emit(config.EventAccountsChanged, `[]`)

	updates, deactivations := n.snapshot()
	if len(updates) != 0 || len(deactivations) != 0 {
		t.Errorf("notifications after deactivate: %v / %v, want none", updates, deactivations)
	}
}

func TestRelay_NilNotifierSafe(t *testing.T) {
	w := newFakeWallet()
	w.requestFn = respond(map[string]string{
		config.MethodRequestAccounts: `["0xABC"]`,
	})
	c := NewWithHandle(w, nil)
	if _, err := c.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}

	// Must not panic without a notifier.
	w.emit(config.EventChainChanged, `"0x1"`)
	w.emit(config.EventClose, `{}`)
}
