package xadvice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrencyLimit_FailFast(t *testing.T) {
	f := &flaky{block: make(chan struct{})}
	lim, err := NewConcurrencyLimit(1)
	require.NoError(t, err)
	p := wrap(t, f.service(), lim)

	done := make(chan error, 1)
	go func() {
		_, err := p.Fetch(context.Background(), 1)
		done <- err
	}()
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)

	_, err = p.Fetch(context.Background(), 2)
	assert.ErrorIs(t, err, ErrConcurrencyLimitReached)

	close(f.block)
	require.NoError(t, <-done)

	_, err = p.Fetch(context.Background(), 3)
	assert.NoError(t, err)
}

func TestConcurrencyLimit_BlockingHonoursContext(t *testing.T) {
	f := &flaky{block: make(chan struct{})}
	lim, err := NewConcurrencyLimit(1, WithBlocking(true))
	require.NoError(t, err)
	p := wrap(t, f.service(), lim)

	done := make(chan error, 1)
	go func() {
		_, err := p.Fetch(context.Background(), 1)
		done <- err
	}()
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = p.Fetch(ctx, 2)
	assert.ErrorIs(t, err, ErrConcurrencyLimitReached)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(f.block)
	require.NoError(t, <-done)
}

func TestConcurrencyLimit_Invalid(t *testing.T) {
	_, err := NewConcurrencyLimit(0)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}
