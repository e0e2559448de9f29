package xpointcut

import (
	"fmt"
	"reflect"

	"github.com/omeyang/xaop/internal/typeinfo"
	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// TypeFilter 匹配 root 本身、嵌入了 root 的结构体，以及 root 为接口时实现了它的类型。
func TypeFilter(root reflect.Type) xaop.ClassFilter {
	return typeFilter{root: root}
}

// TypeFilterFor 是 TypeFilter(reflect.TypeFor[T]()) 的简写。
func TypeFilterFor[T any]() xaop.ClassFilter {
	return TypeFilter(reflect.TypeFor[T]())
}

type typeFilter struct {
	root reflect.Type
}

func (f typeFilter) Matches(t reflect.Type) bool { return typeinfo.IsSubtype(t, f.root) }

func (f typeFilter) String() string { return fmt.Sprintf("TypeFilter(%s)", typeinfo.FullName(f.root)) }

// UnionClassFilter 匹配任一 filter 匹配的类型。
func UnionClassFilter(filters ...xaop.ClassFilter) xaop.ClassFilter {
	return classFilters{filters: filters, all: false}
}

// IntersectClassFilter 匹配全部 filter 都匹配的类型。
func IntersectClassFilter(filters ...xaop.ClassFilter) xaop.ClassFilter {
	return classFilters{filters: filters, all: true}
}

type classFilters struct {
	filters []xaop.ClassFilter
	all     bool
}

func (c classFilters) Matches(t reflect.Type) bool {
	for _, f := range c.filters {
		if f.Matches(t) != c.all {
			return !c.all
		}
	}
	return c.all
}
