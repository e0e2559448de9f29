package xtarget

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLazy_CreatesOnce(t *testing.T) {
	var created atomic.Int32
	l, err := NewLazy(func(context.Context) (*service, error) {
		created.Add(1)
		return &service{id: 7}, nil
	})
	require.NoError(t, err)
	assert.True(t, l.IsStatic())
	assert.Equal(t, reflect.TypeFor[*service](), l.TargetType())
	assert.False(t, l.Initialized())

	var wg sync.WaitGroup
	results := make([]any, 16)
	for i := range results {
		wg.Go(func() {
			results[i], _ = l.Target(context.Background())
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.True(t, l.Initialized())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
	assert.NoError(t, l.Release(results[0]))
}

func TestLazy_RetriesAfterFailure(t *testing.T) {
	boom := errors.New("not yet")
	var calls int
	l, err := NewLazy(func(context.Context) (*service, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return &service{id: calls}, nil
	})
	require.NoError(t, err)

	_, err = l.Target(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.False(t, l.Initialized())

	got, err := l.Target(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.(*service).id)
}

func TestLazy_NilFactory(t *testing.T) {
	_, err := NewLazy[*service](nil)
	assert.ErrorIs(t, err, ErrNilFactory)
}
