package ratelimit

import (
	"context"
	"time"
)

// Limiter throttles per-key request rates. Used for brute-force
// protection on the auth endpoints; quota enforcement for the AI
// features is the quota package's calendar-window engine, not this.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)

	Remaining(ctx context.Context, key string) (int, error)

	Limit() int

	Window() time.Duration

	Reset(ctx context.Context, key string) (time.Time, error)
}
