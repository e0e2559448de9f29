package xaop

import (
	"context"
	"reflect"
)

// TargetSource 决定代理每次调用时使用哪个目标对象。
//
// IsStatic 为 true 时每次返回同一对象，代理可以缓存拦截器链，也无需调用 Release。
// 非静态来源在每次调用结束时（包括 panic）都会被 Release 一次。
type TargetSource interface {
	// TargetType 返回目标类型，无法确定时返回 nil。
	TargetType() reflect.Type

	// IsStatic 报告 Target 是否总是返回同一对象。
	IsStatic() bool

	// Target 获取本次调用的目标对象。
	Target(ctx context.Context) (any, error)

	// Release 归还 Target 返回的对象。
	Release(target any) error
}
