// Package server implements the per-connection token bucket that throttles
// inbound chat frames before they reach the protocol parser.
package server

import (
	"sync"
	"time"
)

// tokenBucket allows bursts of up to Burst frames, refilling continuously so
// that the sustained rate works out to Burst frames per RefillInterval.
// Frames arriving with no token available are discarded by the caller.
type tokenBucket struct {
	mu              sync.Mutex
	tokens          float64
	burst           float64
	refillPerSecond float64
	last            time.Time
}

func newTokenBucket(cfg RateLimitConfig) *tokenBucket {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	interval := cfg.RefillInterval
	if interval <= 0 {
		interval = time.Second
	}

	return &tokenBucket{
		tokens:          float64(burst),
		burst:           float64(burst),
		refillPerSecond: float64(burst) / interval.Seconds(),
		last:            time.Now(),
	}
}

// allow consumes one token if available, crediting the refill earned since
// the previous call first.
func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	if elapsed := now.Sub(tb.last).Seconds(); elapsed > 0 {
		tb.tokens += elapsed * tb.refillPerSecond
		if tb.tokens > tb.burst {
			tb.tokens = tb.burst
		}
	}
	tb.last = now

	if tb.tokens < 1 {
		return false
	}

	tb.tokens--
	return true
}
