package xpointcut

import (
	"fmt"
	"reflect"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/omeyang/xaop/internal/typeinfo"
	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// Descriptor 是方法的名字级描述，表达式在它上面求值。
// 命令行工具可以不经反射直接构造 Descriptor。
type Descriptor struct {
	TypeName     string
	PkgPath      string
	Method       string
	Field        bool
	NumIn        int
	NumOut       int
	HasContext   bool
	ReturnsError bool
}

// DescriptorOf 从方法描述符和目标类型构造 Descriptor，t 为 nil 时取声明类型。
func DescriptorOf(m xaop.Method, t reflect.Type) Descriptor {
	if t == nil {
		t = m.Owner
	}
	d := Descriptor{
		Method:       m.Name,
		Field:        m.Kind == xaop.KindField,
		HasContext:   m.HasContext(),
		ReturnsError: m.ReturnsError(),
	}
	if base := typeinfo.Deref(t); base != nil {
		d.TypeName = base.Name()
		d.PkgPath = base.PkgPath()
	}
	if m.Type != nil {
		d.NumIn = m.Type.NumIn()
		d.NumOut = m.Type.NumOut()
	}
	return d
}

// FullName 返回 "包路径.类型名.方法名"。
func (d Descriptor) FullName() string {
	if d.PkgPath == "" {
		return d.TypeName + "." + d.Method
	}
	return d.PkgPath + "." + d.TypeName + "." + d.Method
}

func (d Descriptor) env(args []any) map[string]any {
	return map[string]any{
		"Type": map[string]any{
			"Name":     d.TypeName,
			"PkgPath":  d.PkgPath,
			"FullName": d.PkgPath + "." + d.TypeName,
		},
		"Method": map[string]any{
			"Name":         d.Method,
			"FullName":     d.FullName(),
			"Field":        d.Field,
			"NumIn":        d.NumIn,
			"NumOut":       d.NumOut,
			"HasContext":   d.HasContext,
			"ReturnsError": d.ReturnsError,
		},
		"Args": args,
	}
}

// Expression 是基于 expr-lang 的切点，表达式必须求值为 bool。
//
// 可用变量：
//
//	Type.Name Type.PkgPath Type.FullName
//	Method.Name Method.FullName Method.Field Method.NumIn Method.NumOut
//	Method.HasContext Method.ReturnsError
//	Args（仅动态表达式有意义）
//
// 示例：`Type.Name == "OrderService" && Method.Name startsWith "Get"`。
type Expression struct {
	source  string
	program *vm.Program
	runtime bool
}

var (
	_ xaop.Pointcut      = (*Expression)(nil)
	_ xaop.MethodMatcher = (*Expression)(nil)
)

// NewExpression 编译静态表达式切点，结果可以缓存。
func NewExpression(source string) (*Expression, error) {
	return compile(source, false)
}

// NewDynamicExpression 编译运行时表达式切点，每次调用用实参重新求值。
func NewDynamicExpression(source string) (*Expression, error) {
	return compile(source, true)
}

func compile(source string, runtime bool) (*Expression, error) {
	if source == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidExpression)
	}
	program, err := expr.Compile(source, expr.AllowUndefinedVariables(), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExpression, err)
	}
	return &Expression{source: source, program: program, runtime: runtime}, nil
}

// Source 返回表达式源码。
func (e *Expression) Source() string { return e.source }

func (e *Expression) String() string { return "Expression(" + e.source + ")" }

// ClassFilter 实现 xaop.Pointcut。表达式在方法匹配阶段整体求值。
func (e *Expression) ClassFilter() xaop.ClassFilter { return xaop.ClassFilterTrue }

// MethodMatcher 实现 xaop.Pointcut。
func (e *Expression) MethodMatcher() xaop.MethodMatcher { return e }

// Matches 静态表达式直接求值；动态表达式在静态阶段总是通过。
func (e *Expression) Matches(m xaop.Method, t reflect.Type) bool {
	if e.runtime {
		return true
	}
	ok, _ := e.MatchDescriptor(DescriptorOf(m, t), nil)
	return ok
}

// IsRuntime 实现 xaop.MethodMatcher。
func (e *Expression) IsRuntime() bool { return e.runtime }

// MatchesArgs 用实参求值。求值出错视为不匹配。
func (e *Expression) MatchesArgs(m xaop.Method, t reflect.Type, args []any) bool {
	ok, _ := e.MatchDescriptor(DescriptorOf(m, t), args)
	return ok
}

// MatchDescriptor 在名字级描述上求值表达式。
func (e *Expression) MatchDescriptor(d Descriptor, args []any) (bool, error) {
	out, err := vm.Run(e.program, d.env(args))
	if err != nil {
		return false, err
	}
	ok, _ := out.(bool)
	return ok, nil
}
