package rpcbridge

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"
)

// RateLimiter wraps a token bucket limiter for bridge-bound requests.
type RateLimiter struct {
	limiter *rate.Limiter
	name    string
}

// NewRateLimiter creates a rate limiter allowing rps requests per second.
func NewRateLimiter(name string, rps int) *RateLimiter {
	slog.Debug("rate limiter created",
		"target", name,
		"rps", rps,
	)
	return &RateLimiter{
		// Burst(1) spreads requests evenly across the second; hosted
		// bridges throttle bursts even when the average rate is fine.
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		name:    name,
	}
}

// Wait blocks until the limiter allows another request or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := rl.limiter.Wait(ctx); err != nil {
		slog.Warn("rate limiter wait cancelled",
			"target", rl.name,
			"error", err,
		)
		return err
	}
	return nil
}

// Name returns the target name this limiter is associated with.
func (rl *RateLimiter) Name() string {
	return rl.name
}
