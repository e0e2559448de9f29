package xaop

import (
	"context"
	"reflect"
)

type Greeter interface {
	Greet(ctx context.Context, name string) (string, error)
}

type Counter interface {
	Count() int
}

type greeter struct {
	prefix string
}

func (g *greeter) Greet(_ context.Context, name string) (string, error) {
	return g.prefix + name, nil
}

func (g *greeter) Self() *greeter { return g }

type fields struct {
	Sum  func(a, b int) int
	Join func(sep string, parts ...string) string
	Fail func(ctx context.Context) error
	none int
}

// fakeInvocation 是测试用的最小 MethodInvocation，joinpoint 在链耗尽时执行。
type fakeInvocation struct {
	ctx       context.Context
	method    Method
	args      []any
	target    any
	proxy     any
	chain     []MethodInterceptor
	cursor    int
	joinpoint func(args []any) ([]any, error)
	attrs     map[string]any
}

func newFakeInvocation(m Method, target any, args []any, jp func([]any) ([]any, error), chain ...MethodInterceptor) *fakeInvocation {
	return &fakeInvocation{ctx: context.Background(), method: m, args: args, target: target, chain: chain, cursor: -1, joinpoint: jp}
}

func (f *fakeInvocation) Context() context.Context { return f.ctx }
func (f *fakeInvocation) Method() Method           { return f.method }
func (f *fakeInvocation) Arguments() []any         { return f.args }
func (f *fakeInvocation) SetArguments(args ...any) { f.args = args }
func (f *fakeInvocation) This() any                { return f.target }
func (f *fakeInvocation) Proxy() any               { return f.proxy }

func (f *fakeInvocation) Proceed() ([]any, error) {
	f.cursor++
	if f.cursor == len(f.chain) {
		return f.joinpoint(f.args)
	}
	return f.chain[f.cursor].Invoke(f)
}

func (f *fakeInvocation) Clone() MethodInvocation {
	c := *f
	c.args = append([]any(nil), f.args...)
	return &c
}

func (f *fakeInvocation) Attribute(key string) (any, bool) {
	v, ok := f.attrs[key]
	return v, ok
}

func (f *fakeInvocation) SetAttribute(key string, value any) {
	if f.attrs == nil {
		f.attrs = make(map[string]any)
	}
	f.attrs[key] = value
}

func greetMethod() Method {
	m, _ := LookupMethod(reflect.TypeFor[Greeter](), "Greet")
	return m
}
