package xproxy

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

type Greeter interface {
	Greet(ctx context.Context, name string) (string, error)
	Twice(ctx context.Context, name string) (string, error)
}

type Auditor interface {
	Audits() int
}

type GreeterAuditor interface {
	Greeter
	Auditor
}

type Shouter interface {
	Shout(name string) string
}

type Fluent interface {
	With(name string) Fluent
	Name() string
}

var (
	errEmptyName = errors.New("empty name")
	errBoom      = errors.New("boom")
	errDivZero   = errors.New("divide by zero")
)

// ==================== stub ====================

type greeterStub struct{ h Handler }

func (s *greeterStub) Greet(ctx context.Context, name string) (string, error) {
	out, err := s.h.Invoke("Greet", ctx, name)
	return Out[string](out, 0), err
}

func (s *greeterStub) Twice(ctx context.Context, name string) (string, error) {
	out, err := s.h.Invoke("Twice", ctx, name)
	return Out[string](out, 0), err
}

type greeterAuditorStub struct{ greeterStub }

func (s *greeterAuditorStub) Audits() int {
	out, _ := s.h.Invoke("Audits")
	return Out[int](out, 0)
}

type shouterStub struct{ h Handler }

func (s *shouterStub) Shout(name string) string {
	out, _ := s.h.Invoke("Shout", name)
	return Out[string](out, 0)
}

type fluentStub struct{ h Handler }

func (s *fluentStub) With(name string) Fluent {
	out, _ := s.h.Invoke("With", name)
	return Out[Fluent](out, 0)
}

func (s *fluentStub) Name() string {
	out, _ := s.h.Invoke("Name")
	return Out[string](out, 0)
}

func init() {
	r := DefaultStubs()
	MustRegisterStub(r, func(h Handler) Greeter { return &greeterStub{h} })
	MustRegisterStub(r, func(h Handler) GreeterAuditor { return &greeterAuditorStub{greeterStub{h}} })
	MustRegisterStub(r, func(h Handler) Shouter { return &shouterStub{h} })
	MustRegisterStub(r, func(h Handler) Fluent { return &fluentStub{h} })
}

// ==================== 目标 ====================

type greeter struct {
	prefix  string
	calls   atomic.Int32
	lastCtx atomic.Pointer[context.Context]
}

func newGreeter(prefix string) *greeter { return &greeter{prefix: prefix} }

func (g *greeter) Greet(ctx context.Context, name string) (string, error) {
	g.calls.Add(1)
	g.lastCtx.Store(&ctx)
	if name == "" {
		return "", errEmptyName
	}
	return g.prefix + name, nil
}

// Twice 在开启暴露代理时经过代理调用 Greet。
func (g *greeter) Twice(ctx context.Context, name string) (string, error) {
	var self Greeter = g
	if p, err := ProxyFrom[Greeter](ctx); err == nil {
		self = p
	}
	s, err := self.Greet(ctx, name)
	if err != nil {
		return "", err
	}
	return s + "|" + s, nil
}

type shouter struct{}

func (shouter) Shout(name string) string { return strings.ToUpper(name) }

type builder struct {
	mu    sync.Mutex
	parts []string
}

func (b *builder) With(name string) Fluent {
	b.mu.Lock()
	b.parts = append(b.parts, name)
	b.mu.Unlock()
	return b
}

func (b *builder) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.Join(b.parts, ".")
}

type calculator struct {
	Add  func(a, b int) int
	Div  func(a, b int) (int, error)
	Join func(sep string, parts ...string) string
	Ping func(ctx context.Context) (any, error)
}

func newCalculator() *calculator {
	return &calculator{
		Add: func(a, b int) int { return a + b },
		Div: func(a, b int) (int, error) {
			if b == 0 {
				return 0, errDivZero
			}
			return a / b, nil
		},
		Join: func(sep string, parts ...string) string { return strings.Join(parts, sep) },
		Ping: func(ctx context.Context) (any, error) { return CurrentProxy(ctx) },
	}
}

func (*calculator) Label() string { return "calc" }

type noFuncs struct {
	N int
}

type auditCounter struct{ n atomic.Int32 }

func (a *auditCounter) Audits() int { return int(a.n.Add(1)) }

// ==================== 拦截器 ====================

func counting(n *atomic.Int32) xaop.MethodInterceptor {
	return xaop.MethodInterceptorFunc(func(inv xaop.MethodInvocation) ([]any, error) {
		n.Add(1)
		return inv.Proceed()
	})
}

// recorder 记录拦截器进出顺序。
type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	r.log = append(r.log, s)
	r.mu.Unlock()
}

func (r *recorder) entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

func (r *recorder) around(name string) xaop.MethodInterceptor {
	return xaop.MethodInterceptorFunc(func(inv xaop.MethodInvocation) ([]any, error) {
		r.add(name + ">")
		out, err := inv.Proceed()
		r.add("<" + name)
		return out, err
	})
}

func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

func typeOf[T any]() reflect.Type { return reflect.TypeFor[T]() }
