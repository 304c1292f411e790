package provider

import (
	"context"
	"encoding/json"
)

// Handler is a provider lifecycle event callback. Subscription identity is
// the *Handler pointer: the same pointer registered with On must be passed
// to RemoveListener, so callers keep their handlers alive as fields.
type Handler func(payload json.RawMessage)

// RequestSender is the modern calling convention: positional method and
// params, result delivered when the call returns.
type RequestSender interface {
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)
}

// Payload is the single-argument options object used by the legacy send
// convention.
type Payload struct {
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// PayloadSender is the legacy calling convention. Older wallets only accept
// this shape and answer synchronously.
type PayloadSender interface {
	SendPayload(p Payload) (json.RawMessage, error)
}

// Enabler is the legacy full-access request (enable()). Wallets that predate
// eth_requestAccounts expose only this.
type Enabler interface {
	Enable(ctx context.Context) (json.RawMessage, error)
}

// EventSource is the optional subscription surface. Providers without it
// simply get no event relay.
type EventSource interface {
	On(event string, h *Handler)
	RemoveListener(event string, h *Handler)
}

// Flavor identifies well-known wallet implementations that need
// compatibility handling.
type Flavor int

const (
	FlavorUnknown Flavor = iota
	FlavorMetaMask
	FlavorDapper
)

func (f Flavor) String() string {
	switch f {
	case FlavorMetaMask:
		return "metamask"
	case FlavorDapper:
		return "dapper"
	default:
		return "unknown"
	}
}

// Vendor exposes the ad-hoc identity flags, static fields, and cached call
// results some wallets attach to their provider object. Used only as
// last-resort fallbacks.
type Vendor interface {
	Flavor() Flavor
	StaticField(name string) (string, bool)
	CachedResult(method string) (json.RawMessage, bool)
}

// AutoRefreshToggler controls the page-reload-on-network-change behavior
// MetaMask enables by default.
type AutoRefreshToggler interface {
	SetAutoRefresh(enabled bool)
}
