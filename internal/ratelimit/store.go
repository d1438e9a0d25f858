// Package ratelimit implements the fixed-window limiter placed in front of
// the upstream completion API.
package ratelimit

import (
	"context"
	"time"
)

// Default policy: ten requests per client per minute.
const (
	DefaultCapacity = 10
	DefaultWindow   = 60 * time.Second
)

// Policy bounds how many requests a client may make per window.
type Policy struct {
	Capacity int
	Window   time.Duration
}

// DefaultPolicy returns the ten-per-minute policy.
func DefaultPolicy() Policy {
	return Policy{Capacity: DefaultCapacity, Window: DefaultWindow}
}

// normalized fills zero fields with defaults.
func (p Policy) normalized() Policy {
	if p.Capacity <= 0 {
		p.Capacity = DefaultCapacity
	}
	if p.Window <= 0 {
		p.Window = DefaultWindow
	}
	return p
}

// Store decides and records admission for a client key. Implementations
// must make the check and the increment a single atomic step.
type Store interface {
	CheckAndConsume(ctx context.Context, key string) (bool, error)
}

// RateLimitEntry is the window bookkeeping for one client key.
type RateLimitEntry struct {
	Count   int
	ResetAt time.Time
}
