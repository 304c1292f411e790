// Package connector adapts an injected wallet provider handle to the
// uniform connector surface a hosting dApp consumes: activation, chain and
// account queries negotiated across incompatible provider implementations,
// and relay of provider lifecycle events.
package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/dieptv1999/trustkeys-connector/internal/config"
	"github.com/dieptv1999/trustkeys-connector/internal/provider"
)

// Locator returns the current raw provider handle, or nil when none is
// reachable. The connector re-reads it on every operation and caches
// nothing derived from it.
type Locator func() any

// Update carries the fields reported to the host on activation and on
// provider-driven change events. Empty ChainID/Account mean "not included".
type Update struct {
	Provider any
	ChainID  string
	Account  string
}

// Notifier receives notifications pushed by the connector between Activate
// and Deactivate.
type Notifier interface {
	HandleUpdate(Update)
	HandleDeactivate(reason string)
}

// Connector is the provider adapter. Its only mutable state is the four
// bound event handlers, created once at construction so the same identities
// can be registered at activation and removed at deactivation.
type Connector struct {
	locate   Locator
	notifier Notifier

	onChainChanged    provider.Handler
	onAccountsChanged provider.Handler
	onClose           provider.Handler
	onNetworkChanged  provider.Handler
}

// New creates a connector reading the provider handle through locate.
// notifier may be nil when the host does not consume pushed notifications.
func New(locate Locator, notifier Notifier) *Connector {
	c := &Connector{locate: locate, notifier: notifier}
	c.onChainChanged = c.handleChainChanged
	c.onAccountsChanged = c.handleAccountsChanged
	c.onClose = c.handleClose
	c.onNetworkChanged = c.handleNetworkChanged
	return c
}

// NewWithHandle creates a connector over a fixed provider handle.
func NewWithHandle(handle any, notifier Notifier) *Connector {
	return New(func() any { return handle }, notifier)
}

// caps re-detects the capability set of the current handle. Nil when no
// handle is reachable.
func (c *Connector) caps() *provider.Caps {
	if c.locate == nil {
		return nil
	}
	return provider.Detect(c.locate())
}

// Provider returns the current raw provider handle. Never fails.
func (c *Connector) Provider() any {
	if c.locate == nil {
		return nil
	}
	return c.locate()
}

// Activate requests account access and registers for provider lifecycle
// events. The returned Update always carries the provider handle; Account
// is set only when one of the access requests produced one. A missing
// account is not an error — the host treats it as not-yet-authorized.
func (c *Connector) Activate(ctx context.Context) (Update, error) {
	caps := c.caps()
	if caps == nil {
		return Update{}, config.ErrProviderUnavailable
	}

	if caps.Events != nil {
		caps.Events.On(config.EventChainChanged, &c.onChainChanged)
		caps.Events.On(config.EventAccountsChanged, &c.onAccountsChanged)
		caps.Events.On(config.EventClose, &c.onClose)
		caps.Events.On(config.EventNetworkChanged, &c.onNetworkChanged)
	} else {
		slog.Debug("provider lacks event subscription, relay disabled")
	}

	// MetaMask reloads the page on network change unless told not to.
	if caps.Flavor() == provider.FlavorMetaMask && caps.Refresher != nil {
		caps.Refresher.SetAutoRefresh(false)
		slog.Debug("disabled provider auto refresh on network change")
	}

	account, err := c.requestPrimaryAccount(ctx, caps)
	if err != nil {
		return Update{}, err
	}

	if account == "" && caps.Enabler != nil {
		raw, enableErr := caps.Enabler.Enable(ctx)
		if enableErr != nil {
			slog.Warn("legacy enable fallback failed", "error", enableErr)
		} else if accounts, decErr := provider.DecodeAccounts(provider.Normalize(raw)); decErr != nil {
			slog.Warn("legacy enable returned undecodable accounts", "error", decErr)
		} else if len(accounts) > 0 {
			account = accounts[0]
		}
	}

	slog.Info("connector activated",
		"flavor", caps.Flavor().String(),
		"hasAccount", account != "",
		"eventRelay", caps.Events != nil,
	)

	return Update{Provider: caps.Raw, Account: account}, nil
}

// requestPrimaryAccount runs the primary eth_requestAccounts attempt. A user
// rejection is the only fatal outcome; every other failure is swallowed so
// activation can fall through to enable().
func (c *Connector) requestPrimaryAccount(ctx context.Context, caps *provider.Caps) (string, error) {
	if caps.Requester == nil {
		slog.Warn("provider lacks modern send, skipping eth_requestAccounts")
		return "", nil
	}

	raw, err := caps.Requester.Request(ctx, config.MethodRequestAccounts)
	if err != nil {
		if isUserRejection(err) {
			return "", fmt.Errorf("%w: %s", config.ErrUserRejected, err)
		}
		slog.Warn("eth_requestAccounts failed, will try legacy enable", "error", err)
		return "", nil
	}

	accounts, err := provider.DecodeAccounts(provider.Normalize(raw))
	if err != nil {
		slog.Warn("eth_requestAccounts returned undecodable accounts", "error", err)
		return "", nil
	}
	if len(accounts) == 0 {
		return "", nil
	}
	return accounts[0], nil
}

// ChainID negotiates the chain identifier across the provider call variants.
// Every step failure is absorbed; when all steps come up empty the result is
// the empty string, not an error.
func (c *Connector) ChainID(ctx context.Context) (string, error) {
	caps := c.caps()
	if caps == nil {
		return "", config.ErrProviderUnavailable
	}

	attempts := []attempt[string]{
		{name: "eth_chainId", run: func(ctx context.Context) (string, error) {
			return requestChainID(ctx, caps, config.MethodChainID)
		}},
		{name: "net_version", run: func(ctx context.Context) (string, error) {
			return requestChainID(ctx, caps, config.MethodNetVersion)
		}},
		{name: "net_version (legacy send)", run: func(_ context.Context) (string, error) {
			return legacyChainID(caps, config.MethodNetVersion)
		}},
		{name: "vendor statics", run: func(_ context.Context) (string, error) {
			return staticChainID(caps)
		}},
	}

	return firstUsable(ctx, "chain id", attempts, nonEmpty, false)
}

// Account negotiates the active account. The final legacy step's failure is
// not absorbed: with no further fallback it propagates to the caller.
func (c *Connector) Account(ctx context.Context) (string, error) {
	caps := c.caps()
	if caps == nil {
		return "", config.ErrProviderUnavailable
	}

	attempts := []attempt[string]{
		{name: "eth_accounts", run: func(ctx context.Context) (string, error) {
			return requestFirstAccount(ctx, caps, config.MethodAccounts)
		}},
		{name: "enable()", run: func(ctx context.Context) (string, error) {
			return enableFirstAccount(ctx, caps)
		}},
		{name: "eth_accounts (legacy send)", run: func(_ context.Context) (string, error) {
			return legacyFirstAccount(caps, config.MethodAccounts)
		}},
	}

	return firstUsable(ctx, "account", attempts, nonEmpty, true)
}

// IsAuthorized probes whether account access is already granted. Best
// effort: it degrades to false instead of failing, whatever the provider
// does.
func (c *Connector) IsAuthorized(ctx context.Context) bool {
	caps := c.caps()
	if caps == nil || caps.Requester == nil {
		return false
	}

	raw, err := caps.Requester.Request(ctx, config.MethodAccounts)
	if err != nil {
		slog.Debug("authorization probe failed", "error", err)
		return false
	}

	accounts, err := provider.DecodeAccounts(provider.Normalize(raw))
	if err != nil {
		slog.Debug("authorization probe returned undecodable accounts", "error", err)
		return false
	}
	return len(accounts) > 0
}

// Deactivate unregisters the handlers registered at activation, using the
// same bound identities. A missing handle or missing unsubscribe support is
// a no-op, never an error; calling it twice is safe.
func (c *Connector) Deactivate() {
	caps := c.caps()
	if caps == nil || caps.Events == nil {
		return
	}

	caps.Events.RemoveListener(config.EventChainChanged, &c.onChainChanged)
	caps.Events.RemoveListener(config.EventAccountsChanged, &c.onAccountsChanged)
	caps.Events.RemoveListener(config.EventClose, &c.onClose)
	caps.Events.RemoveListener(config.EventNetworkChanged, &c.onNetworkChanged)

	slog.Info("connector deactivated")
}

func nonEmpty(s string) bool { return s != "" }

// isUserRejection reports whether err carries the EIP-1193 user-rejection
// code.
func isUserRejection(err error) bool {
	var coded gethrpc.Error
	if errors.As(err, &coded) {
		return coded.ErrorCode() == config.CodeUserRejectedRequest
	}
	return false
}

func requestChainID(ctx context.Context, caps *provider.Caps, method string) (string, error) {
	if caps.Requester == nil {
		return "", errNoModernSend
	}
	raw, err := caps.Requester.Request(ctx, method)
	if err != nil {
		return "", err
	}
	return provider.DecodeChainID(provider.Normalize(raw))
}

func legacyChainID(caps *provider.Caps, method string) (string, error) {
	if caps.Legacy == nil {
		return "", errNoLegacySend
	}
	raw, err := caps.Legacy.SendPayload(provider.Payload{Method: method})
	if err != nil {
		return "", err
	}
	return provider.DecodeChainID(provider.Normalize(raw))
}

// staticChainID is the last-resort lookup over ad-hoc vendor fields. Dapper
// caches its net_version result instead of exposing a static field.
func staticChainID(caps *provider.Caps) (string, error) {
	if caps.Vendor == nil {
		return "", nil
	}

	if caps.Vendor.Flavor() == provider.FlavorDapper {
		if raw, ok := caps.Vendor.CachedResult(config.MethodNetVersion); ok {
			return provider.DecodeChainID(provider.Normalize(raw))
		}
		return "", nil
	}

	for _, field := range config.StaticChainFieldPriority {
		if v, ok := caps.Vendor.StaticField(field); ok && v != "" {
			return v, nil
		}
	}
	return "", nil
}

func requestFirstAccount(ctx context.Context, caps *provider.Caps, method string) (string, error) {
	if caps.Requester == nil {
		return "", errNoModernSend
	}
	raw, err := caps.Requester.Request(ctx, method)
	if err != nil {
		return "", err
	}
	return firstAccount(raw)
}

func enableFirstAccount(ctx context.Context, caps *provider.Caps) (string, error) {
	if caps.Enabler == nil {
		return "", errNoEnable
	}
	raw, err := caps.Enabler.Enable(ctx)
	if err != nil {
		return "", err
	}
	return firstAccount(raw)
}

func legacyFirstAccount(caps *provider.Caps, method string) (string, error) {
	if caps.Legacy == nil {
		return "", errNoLegacySend
	}
	raw, err := caps.Legacy.SendPayload(provider.Payload{Method: method})
	if err != nil {
		return "", err
	}
	return firstAccount(raw)
}

func firstAccount(raw []byte) (string, error) {
	accounts, err := provider.DecodeAccounts(provider.Normalize(raw))
	if err != nil {
		return "", err
	}
	if len(accounts) == 0 {
		return "", nil
	}
	return accounts[0], nil
}
