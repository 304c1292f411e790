// Package rpcbridge adapts a remote wallet-bridge endpoint to the provider
// capability surface. The bridge speaks JSON-RPC (ws or http); lifecycle
// events arrive over a wallet_subscribe("lifecycle") subscription, which
// requires a websocket endpoint.
package rpcbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/dieptv1999/trustkeys-connector/internal/config"
	"github.com/dieptv1999/trustkeys-connector/internal/provider"
)

// Bridge implements the modern request convention, legacy enable, and event
// subscription over a JSON-RPC connection to a wallet bridge.
type Bridge struct {
	url     string
	client  *gethrpc.Client
	limiter *RateLimiter

	mu          sync.Mutex
	listeners   map[string]map[*provider.Handler]struct{}
	sub         *gethrpc.ClientSubscription
	unsupported bool
}

var (
	_ provider.RequestSender = (*Bridge)(nil)
	_ provider.Enabler       = (*Bridge)(nil)
	_ provider.EventSource   = (*Bridge)(nil)
)

// lifecycleEvent is the notification shape the bridge pushes for its
// lifecycle subscription.
type lifecycleEvent struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Dial connects to the wallet bridge at url. rps caps outbound requests.
func Dial(ctx context.Context, url string, rps int) (*Bridge, error) {
	dialCtx, cancel := context.WithTimeout(ctx, config.BridgeDialTimeout)
	defer cancel()

	client, err := gethrpc.DialContext(dialCtx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to dial wallet bridge %q: %w", url, err)
	}

	slog.Info("wallet bridge connected", "url", url, "rps", rps)

	return &Bridge{
		url:       url,
		client:    client,
		limiter:   NewRateLimiter("bridge", rps),
		listeners: make(map[string]map[*provider.Handler]struct{}),
	}, nil
}

// Request performs a modern-convention call against the bridge. Errors from
// the bridge carry their JSON-RPC error code (gethrpc.Error), which callers
// inspect for the user-rejection code.
func (b *Bridge) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var result json.RawMessage
	if err := b.client.CallContext(ctx, &result, method, params...); err != nil {
		return nil, err
	}
	return result, nil
}

// Enable is the legacy full-access request; the bridge maps it to the
// account prompt.
func (b *Bridge) Enable(ctx context.Context) (json.RawMessage, error) {
	return b.Request(ctx, config.MethodRequestAccounts)
}

// On registers h for a lifecycle event channel. The underlying subscription
// is established on first use; endpoints without notification support
// (plain http) get a warning and no relay.
func (b *Bridge) On(event string, h *provider.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.listeners[event]
	if !ok {
		set = make(map[*provider.Handler]struct{})
		b.listeners[event] = set
	}
	set[h] = struct{}{}

	b.ensureSubscribedLocked()
}

// RemoveListener unregisters h. Unknown handlers are ignored.
func (b *Bridge) RemoveListener(event string, h *provider.Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.listeners[event], h)
}

// ensureSubscribedLocked starts the lifecycle subscription once. Callers
// hold b.mu.
func (b *Bridge) ensureSubscribedLocked() {
	if b.sub != nil || b.unsupported || b.client == nil {
		return
	}

	ch := make(chan lifecycleEvent, config.SSEHubBuffer)
	sub, err := b.client.Subscribe(context.Background(), "wallet", ch, "lifecycle")
	if err != nil {
		b.unsupported = true
		slog.Warn("bridge does not support lifecycle notifications, event relay disabled",
			"url", b.url,
			"error", err,
		)
		return
	}

	b.sub = sub
	go b.forward(sub, ch)

	slog.Info("bridge lifecycle subscription established", "url", b.url)
}

func (b *Bridge) forward(sub *gethrpc.ClientSubscription, ch chan lifecycleEvent) {
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return
			}
			b.dispatch(ev)
		case err := <-sub.Err():
			if err != nil {
				slog.Warn("bridge lifecycle subscription dropped", "error", err)
			}
			b.mu.Lock()
			b.sub = nil
			b.mu.Unlock()
			return
		}
	}
}

// dispatch fans an event out to the handlers registered for its channel.
func (b *Bridge) dispatch(ev lifecycleEvent) {
	b.mu.Lock()
	handlers := make([]*provider.Handler, 0, len(b.listeners[ev.Event]))
	for h := range b.listeners[ev.Event] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	slog.Debug("bridge lifecycle event", "event", ev.Event, "handlers", len(handlers))

	for _, h := range handlers {
		(*h)(ev.Payload)
	}
}

// Close tears down the subscription and the RPC connection.
func (b *Bridge) Close() {
	b.mu.Lock()
	sub := b.sub
	b.sub = nil
	b.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if b.client != nil {
		b.client.Close()
	}

	slog.Info("wallet bridge closed", "url", b.url)
}
