package xadvice

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xaop/pkg/aop/xaop"
	"github.com/omeyang/xaop/pkg/aop/xproxy"
)

var errTransient = errors.New("transient")

type service struct {
	Fetch func(ctx context.Context, id int) (string, error)
	Ping  func(ctx context.Context) error
}

// flaky 的 Fetch 前 failures 次返回 errTransient，负 id 总是失败。
type flaky struct {
	failures int32
	calls    atomic.Int32
	pings    atomic.Int32
	block    chan struct{}
	seen     atomic.Pointer[context.Context]
}

func (f *flaky) service() *service {
	return &service{
		Fetch: func(ctx context.Context, id int) (string, error) {
			f.seen.Store(&ctx)
			n := f.calls.Add(1)
			if f.block != nil {
				<-f.block
			}
			if id < 0 || n <= f.failures {
				return "", errTransient
			}
			return fmt.Sprintf("item-%d", id), nil
		},
		Ping: func(context.Context) error {
			f.pings.Add(1)
			return nil
		},
	}
}

func wrap(t *testing.T, target *service, advice ...xaop.Advice) *service {
	t.Helper()
	p, err := xproxy.Wrap(target, advice...)
	require.NoError(t, err)
	return p
}

var typeOfService = reflect.TypeFor[*service]()
