package connector

import (
	"context"
	"errors"
	"log/slog"
)

// Errors returned by negotiation steps when the handle lacks the needed
// calling convention. Absorbed like any other step failure.
var (
	errNoModernSend = errors.New("modern send convention not supported")
	errNoLegacySend = errors.New("legacy send convention not supported")
	errNoEnable     = errors.New("enable not supported")
)

// attempt is one step of a negotiation chain.
type attempt[T any] struct {
	name string
	run  func(ctx context.Context) (T, error)
}

// firstUsable is the negotiation engine: attempts run in order and the first
// result accepted by usable wins, short-circuiting the rest. Step failures
// are logged as warnings and absorbed so the next step can run; when
// propagateLast is set the final step's failure is returned to the caller
// instead. When every step runs and none produces a usable value, the last
// produced value is returned with no error.
func firstUsable[T any](ctx context.Context, op string, attempts []attempt[T], usable func(T) bool, propagateLast bool) (T, error) {
	var last T

	for i, a := range attempts {
		v, err := a.run(ctx)
		if err != nil {
			if propagateLast && i == len(attempts)-1 {
				var zero T
				return zero, err
			}
			slog.Warn("negotiation step failed, trying next",
				"op", op,
				"step", a.name,
				"error", err,
			)
			continue
		}

		if usable(v) {
			slog.Debug("negotiation step succeeded",
				"op", op,
				"step", a.name,
			)
			return v, nil
		}

		last = v
	}

	slog.Debug("negotiation exhausted without a usable value", "op", op)
	return last, nil
}
