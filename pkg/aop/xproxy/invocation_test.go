package xproxy

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

func greetMethod(t *testing.T) xaop.Method {
	t.Helper()
	m, ok := xaop.LookupMethod(typeOf[Greeter](), "Greet")
	require.True(t, ok)
	return m
}

func passThrough() xaop.MethodInterceptor {
	return xaop.MethodInterceptorFunc(func(inv xaop.MethodInvocation) ([]any, error) {
		return inv.Proceed()
	})
}

func TestInvocation_ProceedCount(t *testing.T) {
	for n := range 5 {
		t.Run(fmt.Sprintf("chain=%d", n), func(t *testing.T) {
			chain := make(Chain, n)
			for i := range chain {
				chain[i] = Link{Interceptor: passThrough()}
			}
			g := newGreeter("hi ")
			ctx := context.Background()
			inv := NewInvocation(ctx, nil, g, greetMethod(t), []any{ctx, "ann"}, chain, nil)

			out, err := inv.Proceed()
			require.NoError(t, err)
			assert.Equal(t, []any{"hi ann"}, out)
			assert.Equal(t, n+1, inv.(*invocation).proceeds)
			assert.Equal(t, int32(1), g.calls.Load())
		})
	}
}

func TestInvocation_ProceedAfterJoinpoint(t *testing.T) {
	var inner xaop.MethodInvocation
	chain := Chain{{Interceptor: xaop.MethodInterceptorFunc(func(inv xaop.MethodInvocation) ([]any, error) {
		inner = inv
		return inv.Proceed()
	})}}
	ctx := context.Background()
	inv := NewInvocation(ctx, nil, newGreeter(""), greetMethod(t), []any{ctx, "a"}, chain, nil)
	_, err := inv.Proceed()
	require.NoError(t, err)

	_, err = inner.Proceed()
	assert.ErrorIs(t, err, ErrInvocationCompleted)
}

func TestInvocation_CloneProceedsIndependently(t *testing.T) {
	retryOnce := xaop.MethodInterceptorFunc(func(inv xaop.MethodInvocation) ([]any, error) {
		if _, err := inv.Clone().Proceed(); err == nil {
			return nil, fmt.Errorf("first attempt should fail")
		}
		inv.SetArguments(inv.Arguments()[0], "second")
		return inv.Proceed()
	})
	g := newGreeter("hi ")
	ctx := context.Background()
	inv := NewInvocation(ctx, nil, g, greetMethod(t), []any{ctx, ""}, Chain{{Interceptor: retryOnce}}, nil)

	out, err := inv.Proceed()
	require.NoError(t, err)
	assert.Equal(t, []any{"hi second"}, out)
	assert.Equal(t, int32(2), g.calls.Load())
}

func TestInvocation_DynamicLinkSkipped(t *testing.T) {
	var hits int
	onlyBob := xaop.DynamicMatcherFunc(func(_ xaop.Method, _ reflect.Type, args []any) bool {
		return len(args) > 1 && args[1] == "bob"
	})
	chain := Chain{{
		Interceptor: xaop.MethodInterceptorFunc(func(inv xaop.MethodInvocation) ([]any, error) {
			hits++
			return inv.Proceed()
		}),
		Matcher: onlyBob,
	}}
	assert.True(t, chain.Dynamic())

	ctx := context.Background()
	for _, name := range []string{"bob", "al", "bob"} {
		inv := NewInvocation(ctx, nil, newGreeter(""), greetMethod(t), []any{ctx, name}, chain, nil)
		_, err := inv.Proceed()
		require.NoError(t, err)
	}
	assert.Equal(t, 2, hits)
}

func TestInvocation_JoinpointFunc(t *testing.T) {
	var seen []any
	jp := func(_ context.Context, args []any) ([]any, error) {
		seen = args
		return []any{"remote"}, nil
	}
	upper := xaop.MethodInterceptorFunc(func(inv xaop.MethodInvocation) ([]any, error) {
		args := inv.Arguments()
		inv.SetArguments(args[0], strings.ToUpper(args[1].(string)))
		return inv.Proceed()
	})
	ctx := context.Background()
	inv := NewInvocation(ctx, nil, nil, greetMethod(t), []any{ctx, "x"}, Chain{{Interceptor: upper}}, jp)

	out, err := inv.Proceed()
	require.NoError(t, err)
	assert.Equal(t, []any{"remote"}, out)
	assert.Equal(t, "X", seen[1])
}

func TestInvocation_Attributes(t *testing.T) {
	ctx := context.Background()
	inv := NewInvocation(ctx, nil, nil, greetMethod(t), []any{ctx, "x"}, nil, nil)
	_, ok := inv.Attribute("k")
	assert.False(t, ok)

	inv.SetAttribute("k", 1)
	c := inv.Clone()
	c.SetAttribute("k", 2)

	v, _ := inv.Attribute("k")
	assert.Equal(t, 1, v)
	v, _ = c.Attribute("k")
	assert.Equal(t, 2, v)
}

func TestInvocation_ContextPrefersArgument(t *testing.T) {
	type key struct{}
	base := context.Background()
	argCtx := context.WithValue(base, key{}, "arg")
	inv := NewInvocation(base, nil, nil, greetMethod(t), []any{argCtx, "x"}, nil, nil)
	assert.Equal(t, "arg", inv.Context().Value(key{}))
}

// 链上 n 个拦截器严格按 a>, b>, ..., 目标, ..., <b, <a 嵌套执行。
func TestInvocation_NestingLaw(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 6).Draw(rt, "n")
		rec := &recorder{}
		chain := make(Chain, n)
		for i := range n {
			chain[i] = Link{Interceptor: rec.around(fmt.Sprint(i))}
		}
		jp := func(context.Context, []any) ([]any, error) {
			rec.add("target")
			return []any{"ok"}, nil
		}
		ctx := context.Background()
		inv := NewInvocation(ctx, nil, nil, greetMethod(t), []any{ctx, "x"}, chain, jp)
		if _, err := inv.Proceed(); err != nil {
			rt.Fatalf("proceed: %v", err)
		}

		want := make([]string, 0, 2*n+1)
		for i := range n {
			want = append(want, fmt.Sprint(i)+">")
		}
		want = append(want, "target")
		for i := n - 1; i >= 0; i-- {
			want = append(want, "<"+fmt.Sprint(i))
		}
		got := rec.entries()
		if fmt.Sprint(got) != fmt.Sprint(want) {
			rt.Fatalf("got %v, want %v", got, want)
		}
	})
}
