package xaop

import (
	"context"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type multiAdvice struct {
	calls *[]string
}

func (a multiAdvice) Invoke(inv MethodInvocation) ([]any, error) {
	*a.calls = append(*a.calls, "around")
	return inv.Proceed()
}

func (a multiAdvice) Before(context.Context, Method, []any, any) error {
	*a.calls = append(*a.calls, "before")
	return nil
}

func TestAdapterRegistry_Wrap(t *testing.T) {
	r := NewAdapterRegistry()

	_, err := r.Wrap(nil)
	require.ErrorIs(t, err, ErrNilAdvice)

	_, err = r.Wrap(42)
	require.ErrorIs(t, err, ErrUnknownAdviceType)

	adv := NewAdvisor(nil, MethodInterceptorFunc(func(inv MethodInvocation) ([]any, error) { return inv.Proceed() }))
	got, err := r.Wrap(adv)
	require.NoError(t, err)
	assert.Same(t, adv, got)

	got, err = r.Wrap(BeforeAdviceFunc(func(context.Context, Method, []any, any) error { return nil }))
	require.NoError(t, err)
	pa, ok := got.(PointcutAdvisor)
	require.True(t, ok)
	assert.Equal(t, PointcutTrue, pa.Pointcut())
}

func TestAdapterRegistry_Interceptors(t *testing.T) {
	r := NewAdapterRegistry()

	var calls []string
	ics, err := r.Interceptors(NewAdvisor(nil, multiAdvice{calls: &calls}))
	require.NoError(t, err)
	require.Len(t, ics, 2)

	inv := newFakeInvocation(greetMethod(), nil, []any{context.Background(), "x"},
		func([]any) ([]any, error) { calls = append(calls, "target"); return []any{"ok"}, nil }, ics...)
	out, err := inv.Proceed()
	require.NoError(t, err)
	assert.Equal(t, []any{"ok"}, out)
	assert.Equal(t, []string{"around", "before", "target"}, calls)

	_, err = r.Interceptors(NewAdvisor(nil, "not advice"))
	assert.ErrorIs(t, err, ErrUnknownAdviceType)
	_, err = r.Interceptors(nil)
	assert.ErrorIs(t, err, ErrNilAdvice)
}

type stringAdvice string

type stringAdapter struct{}

func (stringAdapter) SupportsAdvice(a Advice) bool {
	_, ok := a.(stringAdvice)
	return ok
}

func (stringAdapter) Interceptor(a Advisor) MethodInterceptor {
	tag := string(a.Advice().(stringAdvice))
	return MethodInterceptorFunc(func(inv MethodInvocation) ([]any, error) {
		out, err := inv.Proceed()
		return append(out, tag), err
	})
}

func TestAdapterRegistry_Register(t *testing.T) {
	r := NewAdapterRegistry()
	r.Register(nil)
	_, err := r.Wrap(stringAdvice("t"))
	require.ErrorIs(t, err, ErrUnknownAdviceType)

	r.Register(stringAdapter{})
	a, err := r.Wrap(stringAdvice("t"))
	require.NoError(t, err)
	ics, err := r.Interceptors(a)
	require.NoError(t, err)
	require.Len(t, ics, 1)
}

func TestBeforeAdvice_AbortsOnError(t *testing.T) {
	boom := errors.New("denied")
	ics, err := DefaultAdapterRegistry().Interceptors(NewAdvisor(nil,
		BeforeAdviceFunc(func(context.Context, Method, []any, any) error { return boom })))
	require.NoError(t, err)

	reached := false
	inv := newFakeInvocation(greetMethod(), nil, nil, func([]any) ([]any, error) { reached = true; return nil, nil }, ics...)
	_, err = inv.Proceed()
	assert.ErrorIs(t, err, boom)
	assert.False(t, reached)
}

func TestBeforeAdvice_CanRewriteArguments(t *testing.T) {
	ics, err := DefaultAdapterRegistry().Interceptors(NewAdvisor(nil,
		BeforeAdviceFunc(func(_ context.Context, _ Method, args []any, _ any) error {
			args[1] = "rewritten"
			return nil
		})))
	require.NoError(t, err)

	inv := newFakeInvocation(greetMethod(), nil, []any{context.Background(), "orig"},
		func(args []any) ([]any, error) { return []any{args[1]}, nil }, ics...)
	out, err := inv.Proceed()
	require.NoError(t, err)
	assert.Equal(t, []any{"rewritten"}, out)
}

func TestAfterReturningAdvice(t *testing.T) {
	var seen []any
	ics, err := DefaultAdapterRegistry().Interceptors(NewAdvisor(nil,
		AfterReturningAdviceFunc(func(_ context.Context, results []any, _ Method, _ []any, _ any) error {
			seen = results
			return nil
		})))
	require.NoError(t, err)

	inv := newFakeInvocation(greetMethod(), nil, nil, func([]any) ([]any, error) { return []any{"r"}, nil }, ics...)
	out, err := inv.Proceed()
	require.NoError(t, err)
	assert.Equal(t, []any{"r"}, out)
	assert.Equal(t, []any{"r"}, seen)

	seen = nil
	inv = newFakeInvocation(greetMethod(), nil, nil, func([]any) ([]any, error) { return nil, errors.New("x") }, ics...)
	_, err = inv.Proceed()
	assert.Error(t, err)
	assert.Nil(t, seen, "after-returning must not run on failure")
}

func TestThrowsAdvice(t *testing.T) {
	orig := errors.New("orig")
	replaced := errors.New("replaced")

	passthrough := ThrowsAdviceFunc(func(context.Context, Method, []any, any, error) error { return nil })
	replace := ThrowsAdviceFunc(func(context.Context, Method, []any, any, error) error { return replaced })

	for name, tc := range map[string]struct {
		advice ThrowsAdvice
		want   error
	}{
		"rethrow original": {passthrough, orig},
		"replace":          {replace, replaced},
	} {
		t.Run(name, func(t *testing.T) {
			ics, err := DefaultAdapterRegistry().Interceptors(NewAdvisor(nil, tc.advice))
			require.NoError(t, err)
			inv := newFakeInvocation(greetMethod(), nil, nil, func([]any) ([]any, error) { return nil, orig }, ics...)
			_, err = inv.Proceed()
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestThrowsFor(t *testing.T) {
	var hits int
	advice := ThrowsFor(func(_ context.Context, _ Method, _ []any, _ any, e *fs.PathError) error {
		hits++
		return nil
	})

	assert.NoError(t, advice.AfterThrowing(context.Background(), Method{}, nil, nil, errors.New("plain")))
	assert.Equal(t, 0, hits)

	pe := &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}
	assert.NoError(t, advice.AfterThrowing(context.Background(), Method{}, nil, nil, pe))
	assert.Equal(t, 1, hits)
}

func TestUndeclaredError(t *testing.T) {
	cause := errors.New("cause")
	var err error = &UndeclaredError{Method: greetMethod(), Cause: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Greeter.Greet")

	var ue *UndeclaredError
	require.ErrorAs(t, err, &ue)
	assert.Same(t, cause, ue.Cause)
}
