package xproxy

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xaop/pkg/aop/xaop"
	"github.com/omeyang/xaop/pkg/aop/xpointcut"
	"github.com/omeyang/xaop/pkg/aop/xtarget"
)

// Config 是一个代理的完整配置：目标来源、有序 Advisor 列表、暴露的接口和行为开关。
//
// Advisor 列表采用写时复制：每次修改生成新的快照（连同匹配缓存和链缓存），
// 调用路径只读取快照，不持有锁。Freeze 之后 Advisor 和接口不可再修改。
type Config struct {
	opts options

	mu     sync.RWMutex
	ts     xaop.TargetSource
	ifaces []reflect.Type
	frozen bool

	proxyTargetClass atomic.Bool
	exposeProxy      atomic.Bool

	gen atomic.Pointer[generation]
}

// generation 是某一时刻 Advisor 列表的不可变快照及其缓存。
type generation struct {
	advisors []xaop.Advisor
	matches  *xpointcut.MatchCache
	chains   sync.Map // chainKey -> Chain
}

type chainKey struct {
	class reflect.Type
	owner reflect.Type
	name  string
	kind  xaop.MethodKind
}

func newGeneration(advisors []xaop.Advisor) *generation {
	return &generation{advisors: advisors, matches: xpointcut.NewMatchCache()}
}

// NewConfig 创建配置。ts 为 nil 时使用 xtarget.Empty。
func NewConfig(ts xaop.TargetSource, opts ...Option) *Config {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if ts == nil {
		ts = xtarget.NewEmpty(nil)
	}
	c := &Config{opts: o, ts: ts}
	c.proxyTargetClass.Store(o.proxyTargetClass)
	c.exposeProxy.Store(o.exposeProxy)
	for _, t := range o.interfaces {
		if !slices.Contains(c.ifaces, t) {
			c.ifaces = append(c.ifaces, t)
		}
	}
	c.gen.Store(newGeneration(nil))
	return c
}

// TargetSource 返回目标来源。
func (c *Config) TargetSource() xaop.TargetSource {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ts
}

// SetTargetSource 替换目标来源，nil 表示没有目标。已创建的代理在下一次调用时生效。
func (c *Config) SetTargetSource(ts xaop.TargetSource) {
	if ts == nil {
		ts = xtarget.NewEmpty(nil)
	}
	c.mu.Lock()
	c.ts = ts
	c.gen.Store(newGeneration(c.gen.Load().advisors))
	c.mu.Unlock()
}

// Advisors 返回 Advisor 列表的副本。
func (c *Config) Advisors() []xaop.Advisor {
	return slices.Clone(c.gen.Load().advisors)
}

// AddAdvice 把 Advice 包装为 Advisor 后追加到末尾。
func (c *Config) AddAdvice(advice xaop.Advice) error {
	a, err := c.opts.registry.Wrap(advice)
	if err != nil {
		return err
	}
	return c.AddAdvisor(a)
}

// AddAdvisor 追加 Advisor。
func (c *Config) AddAdvisor(a xaop.Advisor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(len(c.gen.Load().advisors), a)
}

// AddAdvisorAt 在下标 pos 处插入 Advisor。
func (c *Config) AddAdvisorAt(pos int, a xaop.Advisor) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(pos, a)
}

func (c *Config) insertLocked(pos int, a xaop.Advisor) error {
	if c.frozen {
		return ErrConfigFrozen
	}
	if a == nil {
		return xaop.ErrNilAdvice
	}
	cur := c.gen.Load().advisors
	if pos < 0 || pos > len(cur) {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidPosition, pos, len(cur))
	}
	if _, err := c.opts.registry.Interceptors(a); err != nil {
		return err
	}
	if ia, ok := a.(xaop.IntroductionAdvisor); ok {
		if err := ia.ValidateInterfaces(); err != nil {
			return err
		}
		for _, t := range ia.Interfaces() {
			if !slices.Contains(c.ifaces, t) {
				c.ifaces = append(c.ifaces, t)
			}
		}
	}
	c.gen.Store(newGeneration(slices.Insert(slices.Clone(cur), pos, a)))
	return nil
}

// RemoveAdvisorAt 删除下标 i 处的 Advisor。
func (c *Config) RemoveAdvisorAt(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return ErrConfigFrozen
	}
	cur := c.gen.Load().advisors
	if i < 0 || i >= len(cur) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidPosition, i, len(cur))
	}
	if ia, ok := cur[i].(xaop.IntroductionAdvisor); ok {
		for _, t := range ia.Interfaces() {
			c.ifaces = slices.DeleteFunc(c.ifaces, func(x reflect.Type) bool { return x == t })
		}
	}
	c.gen.Store(newGeneration(slices.Delete(slices.Clone(cur), i, i+1)))
	return nil
}

// RemoveAdvisor 删除与 a 为同一对象的 Advisor，返回是否找到。
func (c *Config) RemoveAdvisor(a xaop.Advisor) (bool, error) {
	i := c.IndexOf(a)
	if i < 0 {
		return false, nil
	}
	if err := c.RemoveAdvisorAt(i); err != nil {
		return false, err
	}
	return true, nil
}

// IndexOf 返回 Advisor 的下标，不存在时返回 -1。
func (c *Config) IndexOf(a xaop.Advisor) int {
	return slices.IndexFunc(c.gen.Load().advisors, func(x xaop.Advisor) bool {
		return xaop.SameObject(x, a)
	})
}

// AddInterface 增加一个代理接口。
func (c *Config) AddInterface(t reflect.Type) error {
	if t == nil || t.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %v", ErrNotInterface, t)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return ErrConfigFrozen
	}
	if !slices.Contains(c.ifaces, t) {
		c.ifaces = append(c.ifaces, t)
	}
	return nil
}

// RemoveInterface 删除一个代理接口，返回是否存在。
func (c *Config) RemoveInterface(t reflect.Type) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return false, ErrConfigFrozen
	}
	i := slices.Index(c.ifaces, t)
	if i < 0 {
		return false, nil
	}
	c.ifaces = slices.Delete(c.ifaces, i, i+1)
	return true, nil
}

// Interfaces 返回代理接口列表（含引入的接口）的副本。
func (c *Config) Interfaces() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.ifaces)
}

// IsInterfaceProxied 报告代理是否暴露了接口 t。
func (c *Config) IsInterfaceProxied(t reflect.Type) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, x := range c.ifaces {
		if x == t || (t != nil && t.Kind() == reflect.Interface && x.Implements(t)) {
			return true
		}
	}
	return false
}

// ProxyTargetClass 报告是否强制使用子类代理。
func (c *Config) ProxyTargetClass() bool { return c.proxyTargetClass.Load() }

// SetProxyTargetClass 设置是否强制使用子类代理，影响之后创建的代理。
func (c *Config) SetProxyTargetClass(v bool) { c.proxyTargetClass.Store(v) }

// ExposeProxy 报告是否在 context 中暴露当前代理。
func (c *Config) ExposeProxy() bool { return c.exposeProxy.Load() }

// SetExposeProxy 设置是否暴露当前代理，对已创建的代理的后续调用立即生效。
func (c *Config) SetExposeProxy(v bool) { c.exposeProxy.Store(v) }

// ClassFallback 报告没有接口时是否回退到子类代理。
func (c *Config) ClassFallback() bool { return c.opts.classFallback }

// Freeze 冻结配置。之后的 Advisor 和接口修改返回 ErrConfigFrozen。
func (c *Config) Freeze() {
	c.mu.Lock()
	c.frozen = true
	c.mu.Unlock()
}

// Frozen 报告配置是否已冻结。
func (c *Config) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// Logger 返回配置使用的日志记录器。
func (c *Config) Logger() *slog.Logger { return c.opts.logger }

// Interceptors 返回方法 m 在目标类型 class 上的拦截器链。
//
// 目标来源为静态且链中没有运行时匹配器时，结果按 (class, 方法) 缓存在当前快照中。
func (c *Config) Interceptors(m xaop.Method, class reflect.Type) (Chain, error) {
	g := c.gen.Load()
	key := chainKey{class: class, owner: m.Owner, name: m.Name, kind: m.Kind}
	if v, ok := g.chains.Load(key); ok {
		return v.(Chain), nil
	}
	chain, dynamic, err := BuildChain(c.opts.registry, g.advisors, m, class, g.matches)
	if err != nil {
		return nil, err
	}
	if !dynamic && c.TargetSource().IsStatic() {
		g.chains.Store(key, chain)
	}
	return chain, nil
}

// introducedInterfaces 返回类型过滤匹配 class 的引入 Advisor 所引入的接口。
func (c *Config) introducedInterfaces(class reflect.Type) []reflect.Type {
	var out []reflect.Type
	for _, a := range c.gen.Load().advisors {
		ia, ok := a.(xaop.IntroductionAdvisor)
		if !ok || !ia.ClassFilter().Matches(class) {
			continue
		}
		for _, t := range ia.Interfaces() {
			if !slices.Contains(out, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

func (c *Config) String() string {
	var b strings.Builder
	ts := c.TargetSource()
	fmt.Fprintf(&b, "xproxy.Config{target=%v, static=%t, interfaces=[", ts.TargetType(), ts.IsStatic())
	for i, t := range c.Interfaces() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	fmt.Fprintf(&b, "], advisors=%d, proxyTargetClass=%t, exposeProxy=%t, frozen=%t}",
		len(c.gen.Load().advisors), c.ProxyTargetClass(), c.ExposeProxy(), c.Frozen())
	return b.String()
}
