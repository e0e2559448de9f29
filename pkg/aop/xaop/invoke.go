package xaop

import (
	"fmt"
	"reflect"
)

// Invoke 通过反射在 target 上调用 m，返回除 error 外的结果和 error。
//
// KindMethod 按方法集查找，KindField 按导出函数字段查找。
// nil 实参按形参零值传递；变参方法的最后一个实参应为切片。
func Invoke(target any, m Method, args []any) ([]any, error) {
	fn, err := resolve(target, m)
	if err != nil {
		return nil, err
	}
	in, err := buildArgs(fn.Type(), args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArgumentMismatch, m, err)
	}
	var results []reflect.Value
	if fn.Type().IsVariadic() {
		results = fn.CallSlice(in)
	} else {
		results = fn.Call(in)
	}
	return splitResults(fn.Type(), results)
}

func resolve(target any, m Method) (reflect.Value, error) {
	if target == nil {
		return reflect.Value{}, ErrNoTarget
	}
	rv := reflect.ValueOf(target)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return reflect.Value{}, ErrNoTarget
	}
	if m.Kind == KindField {
		sv := reflect.Indirect(rv)
		if sv.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrMethodNotFound, m)
		}
		f := sv.FieldByName(m.Name)
		if !f.IsValid() || f.Kind() != reflect.Func {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrMethodNotFound, m)
		}
		if f.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: %s", ErrNilFunc, m)
		}
		return f, nil
	}
	fn := rv.MethodByName(m.Name)
	if !fn.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %s on %T", ErrMethodNotFound, m, target)
	}
	return fn, nil
}

func buildArgs(ft reflect.Type, args []any) ([]reflect.Value, error) {
	if ft.NumIn() != len(args) {
		return nil, fmt.Errorf("want %d arguments, got %d", ft.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := toValue(a, ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		in[i] = v
	}
	return in, nil
}

// toValue 把 a 转换为类型 t 的 reflect.Value，结果的类型与 t 完全一致。
func toValue(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(a)
	if v.Type() == t {
		return v, nil
	}
	if v.Type().AssignableTo(t) {
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%s is not assignable to %s", v.Type(), t)
}

func splitResults(ft reflect.Type, results []reflect.Value) ([]any, error) {
	n := len(results)
	var err error
	if n > 0 && ft.Out(n-1) == errorType {
		n--
		if e := results[n]; !e.IsNil() {
			err, _ = e.Interface().(error)
		}
	}
	out := make([]any, n)
	for i := range n {
		out[i] = results[i].Interface()
	}
	return out, err
}

// ResultValues 把拦截器链的结果转换为签名 ft 要求的返回值，供 reflect.MakeFunc 使用。
//
// 缺失或 nil 的结果取零值；ft 以 error 结尾时 err 填入最后一个返回值。
func ResultValues(ft reflect.Type, out []any, err error) ([]reflect.Value, error) {
	n := ft.NumOut()
	values := make([]reflect.Value, n)
	last := n
	if n > 0 && ft.Out(n-1) == errorType {
		last = n - 1
		if err != nil {
			values[last] = reflect.ValueOf(&err).Elem()
		} else {
			values[last] = reflect.Zero(errorType)
		}
	}
	for i := range last {
		var a any
		if i < len(out) {
			a = out[i]
		}
		v, cerr := toValue(a, ft.Out(i))
		if cerr != nil {
			return nil, fmt.Errorf("%w: result %d: %w", ErrArgumentMismatch, i, cerr)
		}
		values[i] = v
	}
	return values, nil
}

// ArgsOf 把 reflect 实参转换为 []any。
func ArgsOf(in []reflect.Value) []any {
	args := make([]any, len(in))
	for i, v := range in {
		args[i] = v.Interface()
	}
	return args
}
