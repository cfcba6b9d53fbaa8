package ratelimit

import (
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Limiter throttles diagnostic entries and counts the ones it turns away.
type Limiter struct {
	limiter *rate.Limiter
	dropped atomic.Uint64
}

// New uses 0 or negative limit for no rate limiting. burst below 1 is raised to 1.
func New(entriesPerSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}

	if entriesPerSecond <= 0 {
		return &Limiter{
			limiter: rate.NewLimiter(rate.Inf, burst),
		}
	}

	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(entriesPerSecond), burst),
	}
}

// Allow is non-blocking; a denied entry is counted as dropped.
func (l *Limiter) Allow() bool {
	if l.limiter.Allow() {
		return true
	}
	l.dropped.Add(1)
	return false
}

// Dropped returns the number of denied entries since the last call and
// resets the counter.
func (l *Limiter) Dropped() uint64 {
	return l.dropped.Swap(0)
}
