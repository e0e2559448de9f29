package typeinfo

import "reflect"

// Deref 去掉所有指针层，返回底层类型。nil 原样返回。
func Deref(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// FullName 返回 "包路径.类型名" 形式的名称，用于正则匹配和日志。
// 匿名类型返回 reflect 的字符串形式。
func FullName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	d := Deref(t)
	if d.Name() == "" {
		return t.String()
	}
	if d.PkgPath() == "" {
		return d.Name()
	}
	return d.PkgPath() + "." + d.Name()
}

// Supertypes 返回 t 的直接"父类"，即结构体的嵌入字段类型（去掉指针）。
func Supertypes(t reflect.Type) []reflect.Type {
	d := Deref(t)
	if d == nil || d.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.Type
	for i := range d.NumField() {
		f := d.Field(i)
		if f.Anonymous {
			out = append(out, Deref(f.Type))
		}
	}
	return out
}

// IsSubtype 判断 t 是否为 root 本身、嵌入了 root，或（root 为接口时）实现了 root。
//
// 嵌入链使用显式 frontier 做广度优先遍历，visited 集合防止自引用结构死循环。
func IsSubtype(t, root reflect.Type) bool {
	if t == nil || root == nil {
		return false
	}
	if root.Kind() == reflect.Interface {
		return Implements(t, root)
	}
	target := Deref(root)
	visited := make(map[reflect.Type]struct{})
	frontier := []reflect.Type{Deref(t)}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		if cur == target {
			return true
		}
		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}
		frontier = append(frontier, Supertypes(cur)...)
	}
	return false
}

// Implements 判断 t 或 *t 是否实现了接口 iface。
func Implements(t, iface reflect.Type) bool {
	if t == nil || iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	if t.Implements(iface) {
		return true
	}
	return t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface &&
		reflect.PointerTo(t).Implements(iface)
}

// FuncFields 返回结构体（或结构体指针）直接声明的导出函数类型字段。
// 嵌入字段中的函数字段不计入：代理只能安全地改写顶层字段。
func FuncFields(t reflect.Type) []reflect.StructField {
	d := Deref(t)
	if d == nil || d.Kind() != reflect.Struct {
		return nil
	}
	var out []reflect.StructField
	for i := range d.NumField() {
		f := d.Field(i)
		if f.Anonymous || !f.IsExported() || f.Type.Kind() != reflect.Func {
			continue
		}
		out = append(out, f)
	}
	return out
}
