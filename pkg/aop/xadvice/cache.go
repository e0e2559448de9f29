package xadvice

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

const defaultCacheEntries = 10_000

// KeyFunc 为一次调用生成缓存键。返回 false 表示该调用不缓存。
type KeyFunc func(m xaop.Method, args []any) (string, bool)

// DefaultKey 以方法全名和除 context 外的实参生成键。
func DefaultKey(m xaop.Method, args []any) (string, bool) {
	var b strings.Builder
	b.WriteString(m.String())
	for _, a := range args {
		if _, ok := a.(context.Context); ok {
			continue
		}
		fmt.Fprintf(&b, "|%#v", a)
	}
	return b.String(), true
}

// CacheOption 配置 Cache。
type CacheOption func(*cacheOptions)

type cacheOptions struct {
	maxEntries int64
	ttl        time.Duration
	key        KeyFunc
}

// WithMaxEntries 设置最多缓存的结果数。默认 10000。
func WithMaxEntries(n int64) CacheOption {
	return func(o *cacheOptions) { o.maxEntries = n }
}

// WithTTL 设置结果存活时间。0 表示不过期。
func WithTTL(d time.Duration) CacheOption {
	return func(o *cacheOptions) { o.ttl = d }
}

// WithKeyFunc 设置缓存键生成函数。默认 DefaultKey。
func WithKeyFunc(fn KeyFunc) CacheOption {
	return func(o *cacheOptions) {
		if fn != nil {
			o.key = fn
		}
	}
}

// Cache 缓存方法的成功结果，命中时直接返回而不继续执行链。
//
// 错误结果不缓存。同一键上并发的未命中只执行一次链，其余调用共享结果。
// 写入是异步的，刚写入的结果可能要稍后才能命中。
type Cache struct {
	store *ristretto.Cache[uint64, []any]
	group singleflight.Group
	opts  cacheOptions
}

var _ xaop.MethodInterceptor = (*Cache)(nil)

// NewCache 创建 Cache。不再使用时必须调用 Close。
func NewCache(opts ...CacheOption) (*Cache, error) {
	o := cacheOptions{maxEntries: defaultCacheEntries, key: DefaultKey}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.maxEntries <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCacheSize, o.maxEntries)
	}
	store, err := ristretto.NewCache(&ristretto.Config[uint64, []any]{
		NumCounters: o.maxEntries * 10,
		MaxCost:     o.maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("xadvice: create cache: %w", err)
	}
	return &Cache{store: store, opts: o}, nil
}

// Invoke 实现 xaop.MethodInterceptor。
func (c *Cache) Invoke(inv xaop.MethodInvocation) ([]any, error) {
	key, ok := c.opts.key(inv.Method(), inv.Arguments())
	if !ok {
		return inv.Proceed()
	}
	h := xxhash.Sum64String(key)
	if out, ok := c.store.Get(h); ok {
		return slices.Clone(out), nil
	}
	v, err, _ := c.group.Do(strconv.FormatUint(h, 16), func() (any, error) {
		out, err := inv.Proceed()
		if err == nil {
			c.store.SetWithTTL(h, slices.Clone(out), 1, c.opts.ttl)
		}
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]any)), nil
}

// Wait 等待已提交的写入生效。
func (c *Cache) Wait() { c.store.Wait() }

// Clear 清空缓存。
func (c *Cache) Clear() { c.store.Clear() }

// Close 停止缓存的后台 goroutine。
func (c *Cache) Close() { c.store.Close() }
