package xaop

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownAdviceType 表示没有任何适配器能把该 Advice 转换为 MethodInterceptor。
	ErrUnknownAdviceType = errors.New("xaop: unknown advice type")

	// ErrNilAdvice 表示 Advice 或 Advisor 为 nil。
	ErrNilAdvice = errors.New("xaop: advice cannot be nil")

	// ErrInvalidIntroduction 表示引入的类型不是接口，或拦截器并未实现它。
	ErrInvalidIntroduction = errors.New("xaop: invalid introduction")

	// ErrNoTarget 表示调用到达连接点时没有可用的目标对象。
	ErrNoTarget = errors.New("xaop: no target object")

	// ErrMethodNotFound 表示目标对象上不存在被调用的方法或函数字段。
	ErrMethodNotFound = errors.New("xaop: method not found on target")

	// ErrNilFunc 表示目标对象上的函数字段为 nil。
	ErrNilFunc = errors.New("xaop: target func field is nil")

	// ErrArgumentMismatch 表示参数个数或类型与方法签名不符。
	ErrArgumentMismatch = errors.New("xaop: argument mismatch")
)

// UndeclaredError 包装在方法签名未声明 error 返回值时由拦截器链产生的错误。
//
// 代理在边界处以 panic(*UndeclaredError) 的方式抛出，Cause 保留原始错误。
type UndeclaredError struct {
	Method Method
	Cause  error
}

func (e *UndeclaredError) Error() string {
	return fmt.Sprintf("xaop: undeclared error from %s: %v", e.Method, e.Cause)
}

// Unwrap 返回原始错误。
func (e *UndeclaredError) Unwrap() error { return e.Cause }
