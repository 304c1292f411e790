package connector

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dieptv1999/trustkeys-connector/internal/provider"
)

// rpcError mimics the coded errors wallet bridges return; it satisfies
// go-ethereum's rpc.Error.
type rpcError struct {
	code int
	msg  string
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }

// fakeEmitter implements provider.EventSource with pointer-identity
// listener tracking, and can emit events from tests.
type fakeEmitter struct {
	mu        sync.Mutex
	listeners map[string][]*provider.Handler
}

func newFakeEmitter() *fakeEmitter {
	return &fakeEmitter{listeners: make(map[string][]*provider.Handler)}
}

func (e *fakeEmitter) On(event string, h *provider.Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners[event] = append(e.listeners[event], h)
}

func (e *fakeEmitter) RemoveListener(event string, h *provider.Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.listeners[event][:0]
	for _, reg := range e.listeners[event] {
		if reg != h {
			kept = append(kept, reg)
		}
	}
	e.listeners[event] = kept
}

func (e *fakeEmitter) emit(event, payload string) {
	e.mu.Lock()
	handlers := append([]*provider.Handler(nil), e.listeners[event]...)
	e.mu.Unlock()
	for _, h := range handlers {
		(*h)(json.RawMessage(payload))
	}
}

func (e *fakeEmitter) listenerCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, hs := range e.listeners {
		n += len(hs)
	}
	return n
}

// fakeWallet is a configurable provider handle exposing every capability.
type fakeWallet struct {
	*fakeEmitter

	requestFn func(method string, params ...any) (json.RawMessage, error)
	enableFn  func() (json.RawMessage, error)
	sendFn    func(p provider.Payload) (json.RawMessage, error)

	flavor  provider.Flavor
	statics map[string]string
	cached  map[string]json.RawMessage

	requestCalls []string
	sendCalls    []string
	enableCalls  int
	refreshSets  []bool
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{fakeEmitter: newFakeEmitter()}
}

func (w *fakeWallet) Request(_ context.Context, method string, params ...any) (json.RawMessage, error) {
	w.requestCalls = append(w.requestCalls, method)
	if w.requestFn == nil {
		return nil, errors.New("no request handler configured")
	}
	return w.requestFn(method, params...)
}

func (w *fakeWallet) Enable(_ context.Context) (json.RawMessage, error) {
	w.enableCalls++
	if w.enableFn == nil {
		return nil, errors.New("no enable handler configured")
	}
	return w.enableFn()
}

func (w *fakeWallet) SendPayload(p provider.Payload) (json.RawMessage, error) {
	w.sendCalls = append(w.sendCalls, p.Method)
	if w.sendFn == nil {
		return nil, errors.New("no send handler configured")
	}
	return w.sendFn(p)
}

func (w *fakeWallet) Flavor() provider.Flavor { return w.flavor }

func (w *fakeWallet) StaticField(name string) (string, bool) {
	v, ok := w.statics[name]
	return v, ok
}

func (w *fakeWallet) CachedResult(method string) (json.RawMessage, bool) {
	v, ok := w.cached[method]
	return v, ok
}

func (w *fakeWallet) SetAutoRefresh(enabled bool) {
	w.refreshSets = append(w.refreshSets, enabled)
}

// modernWallet supports only the modern request convention.
type modernWallet struct {
	requestFn func(method string, params ...any) (json.RawMessage, error)
}

func (w *modernWallet) Request(_ context.Context, method string, params ...any) (json.RawMessage, error) {
	return w.requestFn(method, params...)
}

// legacyWallet supports only the legacy payload convention.
type legacyWallet struct {
	sendFn func(p provider.Payload) (json.RawMessage, error)
}

func (w *legacyWallet) SendPayload(p provider.Payload) (json.RawMessage, error) {
	return w.sendFn(p)
}

// recordingNotifier collects pushed notifications.
type recordingNotifier struct {
	mu            sync.Mutex
	updates       []Update
	deactivations []string
}

func (n *recordingNotifier) HandleUpdate(u Update) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.updates = append(n.updates, u)
}

func (n *recordingNotifier) HandleDeactivate(reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deactivations = append(n.deactivations, reason)
}

func (n *recordingNotifier) snapshot() ([]Update, []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Update(nil), n.updates...), append([]string(nil), n.deactivations...)
}

// respond builds a request handler answering from a method→result map;
// methods absent from the map fail.
func respond(results map[string]string) func(method string, params ...any) (json.RawMessage, error) {
	return func(method string, _ ...any) (json.RawMessage, error) {
		if r, ok := results[method]; ok {
			return json.RawMessage(r), nil
		}
		return nil, errors.New(method + " not supported by this wallet")
	}
}
