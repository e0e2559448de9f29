package xautoproxy

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/omeyang/xaop/internal/typeinfo"
	"github.com/omeyang/xaop/pkg/aop/xaop"
	"github.com/omeyang/xaop/pkg/aop/xpointcut"
	"github.com/omeyang/xaop/pkg/aop/xproxy"
	"github.com/omeyang/xaop/pkg/aop/xtarget"
)

// Creator 为容器中的对象按需生成代理。并发安全。
type Creator struct {
	source  AdvisorSource
	opts    options
	applies *lru.Cache[applyKey, bool]
}

type applyKey struct {
	advisor string
	t       reflect.Type
}

// New 创建 Creator。
func New(source AdvisorSource, opts ...Option) (*Creator, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.cacheSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCacheSize, o.cacheSize)
	}
	cache, err := lru.New[applyKey, bool](o.cacheSize)
	if err != nil {
		return nil, fmt.Errorf("xautoproxy: create cache: %w", err)
	}
	return &Creator{source: source, opts: o, applies: cache}, nil
}

type ranked struct {
	advisor xaop.Advisor
	order   int
}

// EligibleAdvisors 返回适用于类型 t 的 Advisor，按顺序值稳定排序。
//
// 正在创建中的 Advisor 被跳过；AdvisorSource 返回的其它错误原样返回。
func (c *Creator) EligibleAdvisors(t reflect.Type) ([]xaop.Advisor, error) {
	var out []ranked
	for _, name := range c.source.AdvisorNames() {
		a, err := c.source.Advisor(name)
		if errors.Is(err, ErrCurrentlyInCreation) {
			c.opts.logger.Debug("xautoproxy: skip advisor in creation", slog.String("advisor", name))
			continue
		}
		if err != nil {
			return nil, err
		}
		if !c.canApply(name, a, t) {
			continue
		}
		order, ok := c.opts.orderOverrides[name]
		if !ok {
			order = xaop.OrderOf(a)
		}
		out = append(out, ranked{advisor: a, order: order})
	}
	slices.SortStableFunc(out, func(a, b ranked) int { return cmp.Compare(a.order, b.order) })

	advisors := make([]xaop.Advisor, len(out))
	for i, r := range out {
		advisors[i] = r.advisor
	}
	return advisors, nil
}

func (c *Creator) canApply(name string, a xaop.Advisor, t reflect.Type) bool {
	key := applyKey{advisor: name, t: t}
	if v, ok := c.applies.Get(key); ok {
		return v
	}
	v := xpointcut.CanApply(a, t)
	c.applies.Add(key, v)
	return v
}

// WrapIfNecessary 为名为 name 的对象按需生成代理。
//
// 基础设施对象、nil 以及没有适用 Advisor 的对象原样返回。
func (c *Creator) WrapIfNecessary(name string, target any) (any, error) {
	if target == nil || isInfrastructure(target) {
		return target, nil
	}
	t := reflect.TypeOf(target)
	advisors, err := c.EligibleAdvisors(t)
	if err != nil {
		return nil, err
	}
	if len(advisors) == 0 {
		return target, nil
	}

	var ts xaop.TargetSource
	if c.opts.targetSource != nil {
		ts = c.opts.targetSource(name, target)
	}
	if ts == nil {
		ts = xtarget.NewSingleton(target)
	}
	f := xproxy.NewFactoryFor(ts,
		xproxy.WithLogger(c.opts.logger),
		xproxy.WithAdapterRegistry(c.opts.registry),
		xproxy.WithStubs(c.opts.stubs),
		xproxy.WithProxyTargetClass(c.opts.proxyTargetClass),
		xproxy.WithExposeProxy(c.opts.exposeProxy),
		xproxy.WithClassFallback(c.opts.classFallback),
	)
	for _, a := range advisors {
		if err := f.AddAdvisor(a); err != nil {
			return nil, fmt.Errorf("xautoproxy: %s: %w", name, err)
		}
	}
	if c.opts.freeze {
		f.Freeze()
	}
	p, err := f.Proxy()
	if err != nil {
		return nil, fmt.Errorf("xautoproxy: %s: %w", name, err)
	}
	c.opts.logger.Debug("xautoproxy: proxy created",
		slog.String("name", name),
		slog.String("type", typeinfo.FullName(t)),
		slog.Int("advisors", len(advisors)))
	return p, nil
}

// Reset 清空适用性缓存，Advisor 集合变化后调用。
func (c *Creator) Reset() {
	c.applies.Purge()
}

func isInfrastructure(v any) bool {
	switch v.(type) {
	case xaop.Advisor, xaop.Pointcut, xaop.TargetSource,
		xaop.MethodInterceptor, xaop.BeforeAdvice, xaop.AfterReturningAdvice, xaop.ThrowsAdvice:
		return true
	}
	return false
}
