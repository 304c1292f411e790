package connector

import (
	"encoding/json"
	"log/slog"

	"github.com/dieptv1999/trustkeys-connector/internal/provider"
)

// Event relay: pure translation from provider-native events to host
// notifications. No business logic lives here.

func (c *Connector) handleChainChanged(payload json.RawMessage) {
	c.relayChainChange("chainChanged", payload)
}

// networkChanged is the legacy alias older wallets emit; same translation.
func (c *Connector) handleNetworkChanged(payload json.RawMessage) {
	c.relayChainChange("networkChanged", payload)
}

func (c *Connector) relayChainChange(event string, payload json.RawMessage) {
	id, err := provider.DecodeChainID(provider.Normalize(payload))
	if err != nil {
		slog.Warn("undecodable chain change payload", "event", event, "error", err)
		return
	}

	slog.Debug("provider chain changed", "event", event, "chainId", id)
	c.pushUpdate(Update{Provider: c.Provider(), ChainID: id})
}

// handleAccountsChanged translates an empty account list into a
// deactivation and a non-empty one into an update with the first account.
func (c *Connector) handleAccountsChanged(payload json.RawMessage) {
	accounts, err := provider.DecodeAccounts(provider.Normalize(payload))
	if err != nil {
		slog.Warn("undecodable accountsChanged payload", "error", err)
		return
	}

	if len(accounts) == 0 {
		slog.Info("provider reported zero accounts")
		c.pushDeactivate("accounts revoked")
		return
	}

	slog.Debug("provider account changed", "account", accounts[0])
	c.pushUpdate(Update{Account: accounts[0]})
}

// handleClose always deactivates; code and reason are diagnostics only.
func (c *Connector) handleClose(payload json.RawMessage) {
	var info struct {
		Code   int    `json:"code"`
		Reason string `json:"reason"`
	}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &info); err != nil {
			slog.Debug("undecodable close payload", "error", err)
		}
	}

	slog.Info("provider connection closed", "code", info.Code, "reason", info.Reason)
	c.pushDeactivate("connection closed")
}

func (c *Connector) pushUpdate(u Update) {
	if c.notifier == nil {
		return
	}
	c.notifier.HandleUpdate(u)
}

func (c *Connector) pushDeactivate(reason string) {
	if c.notifier == nil {
		return
	}
	c.notifier.HandleDeactivate(reason)
}
