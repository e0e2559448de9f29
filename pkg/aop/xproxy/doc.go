// Package xproxy 生成代理对象：每次方法调用经过按配置顺序构建的拦截器链，最后到达目标。
//
// # 代理方式
//
// 接口代理：由登记在 StubRegistry 中的 stub 承载，stub 的每个方法把调用转发给 Handler。
// 代理实现配置中的全部接口（包括 Advisor 引入的接口）。
//
// 子类代理：对结构体指针类型生成同类型的新实例，用 reflect.MakeFunc 替换导出的函数字段。
// 声明方法（带接收者的方法）无法被覆盖，显式匹配它们的 Advisor 会导致创建失败。
//
// DefaultAopProxyFactory 在有接口且未强制子类代理时选择接口代理，否则选择子类代理。
//
// # 调用语义
//
//   - 链为空时直接调用目标，不创建调用对象
//   - 拦截器、目标返回的错误原样返回，不包装
//   - 方法签名没有 error 返回值时，错误以 *xaop.UndeclaredError panic
//   - 目标返回自身时，调用方拿到的是代理
//   - 非静态目标来源的对象在调用结束时归还，panic 路径也会归还
//
// # 暴露代理
//
// 开启 WithExposeProxy 后，方法首参 context.Context 中携带当前代理，
// 目标内部通过 CurrentProxy 或 ProxyFrom 取得代理后自调用即可经过通知。
//
// # 并发
//
// 配置修改采用写时复制，代理调用不持有锁。Freeze 之后配置不可修改。
package xproxy
