// Package ratelimit implements a per-client fixed-window request counter.
//
// Each client gets a window that opens on its first request and lasts for the
// configured duration. Up to the configured number of requests are admitted
// inside a window; later ones are rejected without being counted. Because
// windows reset at fixed boundaries, a client may be admitted up to twice the
// limit across any interval that straddles a reset.
package ratelimit

import (
	"sync"
	"time"

	"github.com/ulule/limiter/v3"
)

const (
	// DefaultWindow is the default window duration (1 minute)
	DefaultWindow = time.Minute
	// DefaultMaxRequests is the default number of requests admitted per window
	DefaultMaxRequests = 100
)

// Decision is the outcome of a single Allow call
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
	// RetryAfter is set on rejections only.
	RetryAfter time.Duration
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds
func (d Decision) RetryAfterSeconds() int {
	return int((d.RetryAfter + time.Second - 1) / time.Second)
}

type clientWindow struct {
	count     int
	resetTime time.Time
}

// Limiter owns the client window table. All access goes through its methods,
// which hold a single mutex for the whole check-and-admit step.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	clients map[string]*clientWindow
}

// New creates a limiter admitting max requests per window for each client.
// Non-positive values fall back to the defaults.
func New(window time.Duration, max int) *Limiter {
	if window <= 0 {
		window = DefaultWindow
	}
	if max <= 0 {
		max = DefaultMaxRequests
	}
	return &Limiter{
		window:  window,
		max:     max,
		clients: make(map[string]*clientWindow),
	}
}

// NewFromRate creates a limiter from a ulule rate such as the one produced by
// limiter.NewRateFromFormatted("100-M").
func NewFromRate(rate limiter.Rate) *Limiter {
	return New(rate.Period, int(rate.Limit))
}

// Window returns the window duration
func (l *Limiter) Window() time.Duration { return l.window }

// Limit returns the number of requests admitted per window
func (l *Limiter) Limit() int { return l.max }

// Allow records a request from clientID at now and reports whether it is admitted.
func (l *Limiter) Allow(clientID string, now time.Time) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.clients[clientID]
	switch {
	case !ok:
		cw = &clientWindow{count: 1, resetTime: now.Add(l.window)}
		l.clients[clientID] = cw
	case now.After(cw.resetTime):
		cw.count = 1
		cw.resetTime = now.Add(l.window)
	case cw.count >= l.max:
		retry := cw.resetTime.Sub(now)
		if retry < time.Second {
			retry = time.Second
		}
		return Decision{
			Allowed:    false,
			Limit:      l.max,
			Remaining:  0,
			ResetTime:  cw.resetTime,
			RetryAfter: retry,
		}
	default:
		cw.count++
	}

	return Decision{
		Allowed:   true,
		Limit:     l.max,
		Remaining: remaining(l.max, cw.count),
		ResetTime: cw.resetTime,
	}
}

// Peek reports the state of clientID's window at now without recording a
// request. The second return value is false when no live window exists.
func (l *Limiter) Peek(clientID string, now time.Time) (Decision, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cw, ok := l.clients[clientID]
	if !ok || now.After(cw.resetTime) {
		return Decision{Allowed: true, Limit: l.max, Remaining: l.max}, false
	}
	return Decision{
		Allowed:   cw.count < l.max,
		Limit:     l.max,
		Remaining: remaining(l.max, cw.count),
		ResetTime: cw.resetTime,
	}, true
}

// Sweep removes every window that expired before now and returns how many were
// removed. A swept client starts a fresh window on its next request, exactly
// as it would have after an in-place reset.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for id, cw := range l.clients {
		if now.After(cw.resetTime) {
			delete(l.clients, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}
