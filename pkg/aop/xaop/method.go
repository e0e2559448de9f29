package xaop

import (
	"context"
	"fmt"
	"reflect"

	"github.com/omeyang/xaop/internal/typeinfo"
)

// MethodKind 区分方法描述符的来源。
type MethodKind uint8

const (
	// KindMethod 声明在方法集上的方法（接口方法或具体类型的方法）。
	// 具体类型的声明方法无法被子类代理覆盖，相当于 final。
	KindMethod MethodKind = iota

	// KindField 结构体上导出的函数类型字段，子类代理可以替换它。
	KindField
)

func (k MethodKind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	default:
		return fmt.Sprintf("MethodKind(%d)", uint8(k))
	}
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// Method 描述一个可被拦截的调用点。
//
// Type 是不含接收者的函数签名；Owner 是声明它的类型（接口、*T 或 T）。
type Method struct {
	Name  string
	Type  reflect.Type
	Owner reflect.Type
	Kind  MethodKind
}

// NewFuncMethod 用任意函数签名构造方法描述符，供非反射来源（如 gRPC）使用。
func NewFuncMethod(owner reflect.Type, name string, fnType reflect.Type) Method {
	return Method{Name: name, Type: fnType, Owner: owner, Kind: KindMethod}
}

// HasContext 报告第一个参数是否为 context.Context。
func (m Method) HasContext() bool {
	return m.Type != nil && m.Type.NumIn() > 0 && m.Type.In(0) == contextType
}

// ReturnsError 报告最后一个返回值是否为 error。
func (m Method) ReturnsError() bool {
	return m.Type != nil && m.Type.NumOut() > 0 && m.Type.Out(m.Type.NumOut()-1) == errorType
}

// NumResults 返回除 error 外的返回值个数。
func (m Method) NumResults() int {
	if m.Type == nil {
		return 0
	}
	n := m.Type.NumOut()
	if m.ReturnsError() {
		n--
	}
	return n
}

// String 返回 "包路径.类型名.方法名"，正则切点按这个格式匹配。
func (m Method) String() string {
	return typeinfo.FullName(m.Owner) + "." + m.Name
}

// MethodsOf 返回类型 t 上所有可拦截的声明方法。
//
// 接口类型返回其全部方法；具体类型返回导出方法集（不含接收者参数）。
func MethodsOf(t reflect.Type) []Method {
	if t == nil {
		return nil
	}
	out := make([]Method, 0, t.NumMethod())
	for i := range t.NumMethod() {
		out = append(out, methodAt(t, i))
	}
	return out
}

func methodAt(t reflect.Type, i int) Method {
	rm := t.Method(i)
	ft := rm.Type
	if t.Kind() != reflect.Interface {
		ft = dropReceiver(ft)
	}
	return Method{Name: rm.Name, Type: ft, Owner: t, Kind: KindMethod}
}

// FuncFieldsOf 返回结构体（或其指针）t 上可覆盖的导出函数字段。
func FuncFieldsOf(t reflect.Type) []Method {
	fields := typeinfo.FuncFields(t)
	out := make([]Method, 0, len(fields))
	for _, f := range fields {
		out = append(out, Method{Name: f.Name, Type: f.Type, Owner: t, Kind: KindField})
	}
	return out
}

// LookupMethod 在 t 上按名字查找声明方法，找不到时再查找导出函数字段。
func LookupMethod(t reflect.Type, name string) (Method, bool) {
	if t == nil {
		return Method{}, false
	}
	if rm, ok := t.MethodByName(name); ok {
		return methodAt(t, rm.Index), true
	}
	for _, m := range FuncFieldsOf(t) {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// dropReceiver 从方法表达式类型中去掉第一个（接收者）参数。
func dropReceiver(ft reflect.Type) reflect.Type {
	in := make([]reflect.Type, 0, ft.NumIn()-1)
	for i := 1; i < ft.NumIn(); i++ {
		in = append(in, ft.In(i))
	}
	out := make([]reflect.Type, 0, ft.NumOut())
	for i := range ft.NumOut() {
		out = append(out, ft.Out(i))
	}
	return reflect.FuncOf(in, out, ft.IsVariadic())
}
