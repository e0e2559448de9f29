// Package xaopconf 从 YAML 或 JSON 文件加载自动代理的声明式配置。
//
// 配置文件描述自动代理协调器的开关和一组命名切点，每个切点引用一个按名字查找的 Advice：
//
//	proxy_target_class: false
//	expose_proxy: true
//	order_overrides:
//	  audit: -10
//	pointcuts:
//	  - name: audit
//	    expression: 'Method.Name startsWith "Save"'
//	    advice: auditLog
//	  - name: repo-retry
//	    patterns: ['.*Repo\.Find.*']
//	    excludes: ['.*Repo\.FindCached']
//	    advice: retry
//	    order: 5
//
// 切点三选一：expression（expr 表达式，dynamic 为 true 时在调用期对实参求值）、
// patterns（正则，匹配 "包路径.类型名.方法名"，可配 excludes）、names（简单通配名）。
//
// 基本用法：
//
//	s, err := xaopconf.Load("/etc/app/aop.yaml")
//	if err != nil {
//	    return err
//	}
//	src, err := s.Source(lookup)
//	if err != nil {
//	    return err
//	}
//	creator, err := xautoproxy.New(src, s.CreatorOptions()...)
//
// Watch 监视配置文件，变更后重新加载并回调。
package xaopconf
