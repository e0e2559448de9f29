package xaop

import "context"

// MethodInvocation 表示一次被拦截的调用在拦截器链中的状态。
//
// 每次代理调用都有独立的 MethodInvocation，不在 goroutine 间共享。
// 拦截器调用 Proceed 进入链上的下一个拦截器，最后一个拦截器之后是连接点本身。
type MethodInvocation interface {
	// Context 返回调用的 context：方法首参为 context.Context 时即为该实参。
	Context() context.Context

	// Method 返回被调用方法的描述符。
	Method() Method

	// Arguments 返回实参切片，修改元素会影响后续拦截器和连接点。
	Arguments() []any

	// SetArguments 整体替换实参。
	SetArguments(args ...any)

	// This 返回当前目标对象，无目标时为 nil。
	This() any

	// Proxy 返回发起调用的代理对象。
	Proxy() any

	// Proceed 执行链上的下一个拦截器，链耗尽时调用连接点。
	Proceed() ([]any, error)

	// Clone 复制当前调用（含游标位置），供需要多次执行链剩余部分的通知使用。
	Clone() MethodInvocation

	// Attribute 读取调用级属性。
	Attribute(key string) (any, bool)

	// SetAttribute 写入调用级属性，在同一调用的各拦截器之间共享。
	SetAttribute(key string, value any)
}
