package xadvice

import (
	"context"
	"slices"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// pushContext 把 ctx 写回方法首参，之后的拦截器和目标都能看到它。
// 方法首参不是 context.Context 时什么也不做。
func pushContext(inv xaop.MethodInvocation, ctx context.Context) {
	args := inv.Arguments()
	if !inv.Method().HasContext() || len(args) == 0 {
		return
	}
	args = slices.Clone(args)
	args[0] = ctx
	inv.SetArguments(args...)
}
