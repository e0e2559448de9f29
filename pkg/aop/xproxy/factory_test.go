package xproxy

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

func TestFactory_Selection(t *testing.T) {
	tests := []struct {
		name    string
		factory func() *Factory
		check   func(t *testing.T, p any, err error)
	}{
		{
			name:    "interfaces detected",
			factory: func() *Factory { return NewFactory(newGreeter("")) },
			check: func(t *testing.T, p any, err error) {
				require.NoError(t, err)
				assert.IsType(t, &greeterStub{}, p)
			},
		},
		{
			name:    "no interfaces falls back to class",
			factory: func() *Factory { return NewFactory(newCalculator()) },
			check: func(t *testing.T, p any, err error) {
				require.NoError(t, err)
				assert.IsType(t, &calculator{}, p)
			},
		},
		{
			name:    "no interfaces without fallback",
			factory: func() *Factory { return NewFactory(newCalculator(), WithClassFallback(false)) },
			check: func(t *testing.T, _ any, err error) {
				assert.ErrorIs(t, err, ErrNoInterfaces)
			},
		},
		{
			name:    "proxy target class overrides interfaces",
			factory: func() *Factory { return NewFactory(newGreeter(""), WithProxyTargetClass(true)) },
			check: func(t *testing.T, _ any, err error) {
				assert.ErrorIs(t, err, ErrFinalClass)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.factory().Proxy()
			tt.check(t, p, err)
		})
	}
}

func TestFactory_EachProxyIsNew(t *testing.T) {
	f := NewFactory(newGreeter(""))
	a, err := f.Proxy()
	require.NoError(t, err)
	b, err := f.Proxy()
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestFactory_ProxyOfWrongType(t *testing.T) {
	_, err := ProxyOf[Shouter](NewFactory(newGreeter("")))
	assert.ErrorIs(t, err, ErrProxyType)
}

type stubbornFactory struct{ err error }

func (s stubbornFactory) CreateAopProxy(*Config) (AopProxy, error) { return nil, s.err }

func TestFactory_CustomAopProxyFactory(t *testing.T) {
	errCustom := errors.New("custom")
	f := NewFactory(newGreeter(""))
	f.SetAopProxyFactory(stubbornFactory{err: errCustom})
	_, err := f.Proxy()
	assert.ErrorIs(t, err, errCustom)

	f.SetAopProxyFactory(nil)
	_, err = f.Proxy()
	assert.NoError(t, err)
}

func TestWrap_Interface(t *testing.T) {
	rec := &recorder{}
	var g Greeter = newGreeter("hi ")
	p, err := Wrap(g, rec.around("log"))
	require.NoError(t, err)

	s, err := p.Greet(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "hi x", s)
	assert.Equal(t, []string{"log>", "<log"}, rec.entries())
}

func TestWrap_UnknownAdvice(t *testing.T) {
	_, err := Wrap[Greeter](newGreeter(""), struct{}{})
	assert.ErrorIs(t, err, xaop.ErrUnknownAdviceType)
}

func TestStubRegistry(t *testing.T) {
	reg := NewStubRegistry()
	assert.ErrorIs(t, RegisterStub[*greeter](reg, func(Handler) *greeter { return nil }), ErrNotInterface)
	assert.ErrorIs(t, RegisterStub[Greeter](reg, nil), ErrNilStub)

	MustRegisterStub(reg, func(h Handler) Greeter { return &greeterStub{h} })
	MustRegisterStub(reg, func(h Handler) GreeterAuditor { return &greeterAuditorStub{greeterStub{h}} })

	it, _, ok := reg.Lookup([]reflect.Type{typeOf[Greeter]()})
	require.True(t, ok)
	assert.Equal(t, typeOf[Greeter](), it)

	it, _, ok = reg.Lookup([]reflect.Type{typeOf[Greeter](), typeOf[Auditor]()})
	require.True(t, ok)
	assert.Equal(t, typeOf[GreeterAuditor](), it)

	_, _, ok = reg.Lookup([]reflect.Type{typeOf[Shouter]()})
	assert.False(t, ok)

	assert.Equal(t, []reflect.Type{typeOf[Greeter]()}, reg.InterfacesOf(typeOf[*greeter]()))
	assert.Nil(t, reg.InterfacesOf(nil))
}

func TestOut(t *testing.T) {
	assert.Equal(t, "a", Out[string]([]any{"a"}, 0))
	assert.Equal(t, "", Out[string](nil, 0))
	assert.Nil(t, Out[Fluent]([]any{nil}, 0))
	assert.PanicsWithError(t, "xproxy: unexpected result type: result 0 is int, want string", func() {
		Out[string]([]any{1}, 0)
	})
}
