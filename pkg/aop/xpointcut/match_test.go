package xpointcut

import (
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

type nopInterceptor struct{}

func (nopInterceptor) Invoke(inv xaop.MethodInvocation) ([]any, error) { return inv.Proceed() }

type counterIntro struct{}

func (counterIntro) Invoke(inv xaop.MethodInvocation) ([]any, error) { return inv.Proceed() }
func (counterIntro) ImplementsInterface(reflect.Type) bool           { return true }

type plainAdvisor struct{}

func (plainAdvisor) Advice() xaop.Advice { return nopInterceptor{} }

func TestClassAndMethodMatches(t *testing.T) {
	onlyPlain := xaop.NewAdvisor(xaop.NewPointcut(TypeFilter(plainType), NameMatch("Hello")), nopInterceptor{})
	assert.True(t, ClassMatches(onlyPlain, plainType))
	assert.False(t, ClassMatches(onlyPlain, orderImpl))
	assert.True(t, MethodMatches(onlyPlain, method(plainType, "Hello"), plainType))
	assert.False(t, MethodMatches(onlyPlain, method(orderIface, "Cancel"), orderImpl))

	intro, err := xaop.NewIntroductionAdvisor(counterIntro{},
		xaop.WithInterfaces(reflect.TypeFor[interface{ Count() int }]()),
		xaop.WithClassFilter(TypeFilterFor[Auditable]()))
	require.NoError(t, err)
	assert.True(t, ClassMatches(intro, orderImpl))
	assert.True(t, MethodMatches(intro, method(orderIface, "Cancel"), orderImpl))
	assert.False(t, MethodMatches(intro, method(plainType, "Hello"), plainType))

	assert.True(t, ClassMatches(plainAdvisor{}, plainType))
	assert.True(t, MethodMatches(plainAdvisor{}, method(plainType, "Hello"), plainType))
}

func TestCanApplyAndFilter(t *testing.T) {
	getters := xaop.NewAdvisor(xaop.NewPointcut(nil, NameMatch("Get*")), nopInterceptor{})
	refresh := xaop.NewAdvisor(xaop.NewPointcut(nil, NameMatch("Refresh")), nopInterceptor{})
	all := xaop.NewAdvisor(nil, nopInterceptor{})
	onlyPlain := xaop.NewAdvisor(xaop.NewPointcut(TypeFilter(plainType), nil), nopInterceptor{})

	assert.True(t, CanApply(getters, orderImpl))
	assert.False(t, CanApply(getters, plainType))
	assert.True(t, CanApply(refresh, orderImpl), "func fields count as methods")
	assert.True(t, CanApply(all, plainType))
	assert.True(t, CanApply(plainAdvisor{}, plainType))

	got := FilterAdvisors([]xaop.Advisor{onlyPlain, getters, refresh, all}, orderImpl)
	assert.Equal(t, []xaop.Advisor{getters, refresh, all}, got)
}

func TestMatchCache(t *testing.T) {
	var classCalls, methodCalls atomic.Int32
	cf := xaop.ClassFilterFunc(func(reflect.Type) bool { classCalls.Add(1); return true })
	mm := xaop.StaticMatcherFunc(func(xaop.Method, reflect.Type) bool { methodCalls.Add(1); return true })
	m := method(orderIface, "GetOrder")

	c := NewMatchCache()
	for range 3 {
		assert.True(t, c.ClassMatches(0, cf, orderImpl))
		assert.True(t, c.MethodMatches(0, mm, m, orderImpl))
	}
	assert.Equal(t, int32(1), classCalls.Load())
	assert.Equal(t, int32(1), methodCalls.Load())

	c.ClassMatches(1, cf, orderImpl)
	assert.Equal(t, int32(2), classCalls.Load(), "slots are cached independently")

	var nilCache *MatchCache
	nilCache.ClassMatches(0, cf, orderImpl)
	nilCache.MethodMatches(0, mm, m, orderImpl)
	assert.Equal(t, int32(3), classCalls.Load())
	assert.Equal(t, int32(2), methodCalls.Load())
}

func TestMatchCache_RuntimeNotCached(t *testing.T) {
	var calls atomic.Int32
	dyn := dynCounting{calls: &calls}
	c := NewMatchCache()
	m := method(orderIface, "GetOrder")
	c.MethodMatches(0, dyn, m, orderImpl)
	c.MethodMatches(0, dyn, m, orderImpl)
	assert.Equal(t, int32(2), calls.Load())
}

type dynCounting struct{ calls *atomic.Int32 }

func (d dynCounting) Matches(xaop.Method, reflect.Type) bool {
	d.calls.Add(1)
	return true
}
func (dynCounting) IsRuntime() bool                                       { return true }
func (dynCounting) MatchesArgs(xaop.Method, reflect.Type, []any) bool { return true }
