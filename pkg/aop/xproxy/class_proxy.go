package xproxy

import (
	"fmt"
	"reflect"

	"github.com/omeyang/xaop/internal/typeinfo"
	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// classProxy 生成目标结构体类型的新实例，用 reflect.MakeFunc 替换其导出函数字段。
//
// 代理实例不复制目标的状态；声明方法无法覆盖，调用它们不经过拦截器。
type classProxy struct {
	cfg     *Config
	class   reflect.Type
	methods []xaop.Method
}

func newClassProxy(cfg *Config) (*classProxy, error) {
	class := cfg.TargetSource().TargetType()
	if class == nil || class.Kind() != reflect.Pointer || class.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v is not a pointer to struct", ErrFinalClass, class)
	}
	methods := xaop.FuncFieldsOf(class)
	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: %v has no exported func fields", ErrFinalClass, class)
	}
	if introduced := cfg.introducedInterfaces(class); len(introduced) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrIntroductionNeedsInterface, introduced)
	}
	if err := checkFinalMethods(cfg, class, methods); err != nil {
		return nil, err
	}
	return &classProxy{cfg: cfg, class: class, methods: methods}, nil
}

// checkFinalMethods 拒绝只匹配声明方法的 Advisor。
// 运行时匹配器、匹配全部方法或同时匹配可覆盖字段的 Advisor 只作用于字段，声明方法被跳过。
func checkFinalMethods(cfg *Config, class reflect.Type, fields []xaop.Method) error {
	declared := xaop.MethodsOf(class)
	if len(declared) == 0 {
		return nil
	}
	for _, a := range cfg.Advisors() {
		pa, ok := a.(xaop.PointcutAdvisor)
		if !ok {
			continue
		}
		pc := pa.Pointcut()
		mm := pc.MethodMatcher()
		if mm == xaop.MethodMatcherTrue || !pc.ClassFilter().Matches(class) {
			continue
		}
		if mm.IsRuntime() {
			cfg.Logger().Debug("xproxy: runtime matcher skips declared methods",
				"type", typeinfo.FullName(class), "advisor", fmt.Sprintf("%T", a))
			continue
		}
		hit, ok := firstMatch(mm, declared, class)
		if !ok {
			continue
		}
		if _, overridable := firstMatch(mm, fields, class); !overridable {
			return fmt.Errorf("%w: %s", ErrFinalMethod, hit)
		}
	}
	cfg.Logger().Debug("xproxy: declared methods are not advised on class proxies",
		"type", typeinfo.FullName(class), "methods", len(declared))
	return nil
}

func firstMatch(mm xaop.MethodMatcher, methods []xaop.Method, class reflect.Type) (xaop.Method, bool) {
	for _, m := range methods {
		if mm.Matches(m, class) {
			return m, true
		}
	}
	return xaop.Method{}, false
}

func (p *classProxy) Proxy() (any, error) {
	pv := reflect.New(p.class.Elem())
	d := &dispatcher{cfg: p.cfg, proxy: pv.Interface()}
	for _, m := range p.methods {
		pv.Elem().FieldByName(m.Name).Set(reflect.MakeFunc(m.Type, trampoline(d, m)))
	}
	p.cfg.Logger().Debug("xproxy: class proxy created",
		"type", typeinfo.FullName(p.class),
		"methods", len(p.methods))
	return d.proxy, nil
}

func trampoline(d *dispatcher, m xaop.Method) func([]reflect.Value) []reflect.Value {
	return func(in []reflect.Value) []reflect.Value {
		out, err := d.invoke(m, xaop.ArgsOf(in))
		if err != nil && !m.ReturnsError() {
			panic(&xaop.UndeclaredError{Method: m, Cause: err})
		}
		values, cerr := xaop.ResultValues(m.Type, out, err)
		if cerr != nil {
			panic(fmt.Errorf("%w: %w", ErrResultType, cerr))
		}
		return values
	}
}

func (p *classProxy) methodSet() []xaop.Method { return p.methods }
