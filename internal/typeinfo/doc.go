// Package typeinfo 提供基于 reflect.Type 的类型描述能力，供 pkg/aop 下的子包共享。
//
// 本包是 internal 包，外部用户不应直接导入。
//
// Go 没有类继承，本包把"父类"定义为结构体的嵌入字段（含指针嵌入），
// 把"实现接口"定义为值或指针的方法集满足接口。层次遍历使用显式 frontier
// 的广度优先搜索，不依赖递归深度。
package typeinfo
