package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSweeper_Sweep(t *testing.T) {
	t.Parallel()

	l := New(time.Minute, 10)
	l.Allow("a", t0)
	l.Allow("b", t0.Add(45*time.Second))

	s := NewSweeper(l, 0, zap.NewNop())
	assert.Equal(t, time.Minute, s.interval)

	s.now = func() time.Time { return t0.Add(90 * time.Second) }
	assert.Equal(t, 1, s.sweep())
	assert.Equal(t, 1, l.Len())

	s.now = func() time.Time { return t0.Add(3 * time.Minute) }
	assert.Equal(t, 1, s.sweep())
	assert.Equal(t, 0, l.Len())
}

func TestSweeper_NilLogger(t *testing.T) {
	t.Parallel()

	s := NewSweeper(New(time.Minute, 1), time.Second, nil)
	assert.NotNil(t, s.log)
	assert.Equal(t, time.Second, s.interval)
}

func TestSweeper_Start_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	s := NewSweeper(New(time.Minute, 1), time.Hour, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Start(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSweeper_Start_SweepsOnTick(t *testing.T) {
	t.Parallel()

	l := New(time.Minute, 1)
	l.Allow("a", time.Now().Add(-2*time.Minute))

	s := NewSweeper(l, 10*time.Millisecond, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return l.Len() == 0 }, time.Second, 10*time.Millisecond)
	cancel()
	<-done
}
