// Package xaop 定义动态拦截（AOP）引擎的核心模型。
//
// 本包只包含与代理生成无关的抽象：
//   - Advice 的各种形态：MethodInterceptor（环绕）、BeforeAdvice、
//     AfterReturningAdvice、ThrowsAdvice、IntroductionInterceptor
//   - Advisor：Advice 与适用范围（Pointcut 或 ClassFilter）的组合
//   - Pointcut：ClassFilter + MethodMatcher，MethodMatcher 可以是静态或运行时的
//   - Method：方法描述符，统一表示声明方法和可覆盖的导出函数字段
//   - TargetSource：代理每次调用时获取目标对象的策略
//   - MethodInvocation：一次调用在拦截器链中的状态
//   - AdapterRegistry：把非环绕 Advice 适配为 MethodInterceptor
//
// # 异常模型
//
// 被拦截方法最后一个返回值为 error 时，错误沿拦截器链原样传播。
// 方法签名中没有 error 返回值而链上产生了错误时，代理边界会 panic
// 一个 *UndeclaredError，调用方可通过 errors.As 取出原始错误。
// 目标对象或拦截器自身的 panic 不做任何转换。
//
// # 基本用法
//
//	advisor := xaop.NewAdvisor(xaop.PointcutTrue, xaop.MethodInterceptorFunc(
//	    func(inv xaop.MethodInvocation) ([]any, error) {
//	        start := time.Now()
//	        defer func() { slog.Info("call", "method", inv.Method(), "cost", time.Since(start)) }()
//	        return inv.Proceed()
//	    }))
//
// 代理的创建见 pkg/aop/xproxy，自动代理见 pkg/aop/xautoproxy。
package xaop
