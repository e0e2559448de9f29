package xproxy

import "errors"

var (
	// ErrConfigFrozen 表示配置已冻结，不能再修改 Advisor 或接口。
	ErrConfigFrozen = errors.New("xproxy: config is frozen")

	// ErrInvalidPosition 表示 Advisor 下标越界。
	ErrInvalidPosition = errors.New("xproxy: advisor position out of range")

	// ErrNotInterface 表示期望接口类型却得到了其它类型。
	ErrNotInterface = errors.New("xproxy: not an interface type")

	// ErrNoInterfaces 表示没有可代理的接口且禁止回退到子类代理。
	ErrNoInterfaces = errors.New("xproxy: no interfaces to proxy")

	// ErrNoStub 表示没有注册覆盖全部代理接口的 stub。
	ErrNoStub = errors.New("xproxy: no stub registered for interfaces")

	// ErrNilStub 表示注册的 stub 工厂为 nil。
	ErrNilStub = errors.New("xproxy: stub factory cannot be nil")

	// ErrFinalClass 表示目标类型无法生成子类代理：
	// 不是结构体指针，或没有可覆盖的导出函数字段。
	ErrFinalClass = errors.New("xproxy: type cannot be subclassed")

	// ErrFinalMethod 表示 Advisor 显式匹配了子类代理无法覆盖的声明方法。
	ErrFinalMethod = errors.New("xproxy: method cannot be overridden")

	// ErrIntroductionNeedsInterface 表示引入只能用于接口代理。
	ErrIntroductionNeedsInterface = errors.New("xproxy: introductions require an interface proxy")

	// ErrTargetMismatch 表示目标类型没有实现被代理的接口。
	ErrTargetMismatch = errors.New("xproxy: target does not implement proxied interface")

	// ErrMethodNotExposed 表示 stub 调用了代理未暴露的方法。
	ErrMethodNotExposed = errors.New("xproxy: method not exposed by proxy")

	// ErrInvocationCompleted 表示在同一个调用上越过连接点继续 Proceed。
	// 需要多次执行链剩余部分的通知应先 Clone。
	ErrInvocationCompleted = errors.New("xproxy: invocation already reached the joinpoint")

	// ErrNoCurrentProxy 表示当前 context 中没有暴露的代理。
	// 需要开启 WithExposeProxy，且方法首参为 context.Context。
	ErrNoCurrentProxy = errors.New("xproxy: no current proxy in context")

	// ErrProxyType 表示代理对象不是期望的类型。
	ErrProxyType = errors.New("xproxy: unexpected proxy type")

	// ErrResultType 表示拦截器链返回的结果类型与方法签名不符。
	ErrResultType = errors.New("xproxy: unexpected result type")
)
