// Package xpointcut 提供切点实现和切点匹配引擎。
//
// # 切点
//
//   - TypeFilter：按类型层次（嵌入链或接口实现）过滤目标类型
//   - NameMatch：按方法名通配符（*）匹配
//   - Regexp：按 "包路径.类型名.方法名" 正则匹配，支持排除模式
//   - Expression / DynamicExpression：expr-lang 表达式，可访问 Type、Method、Args
//   - Composable：对 ClassFilter、MethodMatcher 和 Pointcut 做并集、交集
//
// # 匹配引擎
//
// ClassMatches 和 MethodMatches 回答"Advisor 是否适用于某类型/方法"。
// MatchCache 缓存静态匹配结果，运行时匹配器的结果从不缓存。
// CanApply 和 FilterAdvisors 供自动代理筛选候选 Advisor。
package xpointcut
