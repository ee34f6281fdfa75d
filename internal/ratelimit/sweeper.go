package ratelimit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically evicts expired client windows so the table does not
// grow for the life of the process.
type Sweeper struct {
	limiter  *Limiter
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time
}

// NewSweeper creates a sweeper for l. A non-positive interval defaults to the
// limiter's window duration.
func NewSweeper(l *Limiter, interval time.Duration, log *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = l.Window()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{
		limiter:  l,
		interval: interval,
		log:      log,
		now:      time.Now,
	}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Sweeper) sweep() int {
	n := s.limiter.Sweep(s.now())
	if n > 0 {
		s.log.Debug("rate_limit_windows_swept",
			zap.Int("removed", n),
			zap.Int("remaining_clients", s.limiter.Len()),
		)
	}
	return n
}
