package xpointcut

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/omeyang/xaop/internal/typeinfo"
	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// RegexpMatcher 用正则匹配方法全名 "包路径.类型名.方法名"。
//
// 模式整体匹配（隐式加 ^...$）。声明类型和目标类型两种全名任一命中即可，
// 命中的全名若同时匹配排除模式则不算命中。
type RegexpMatcher struct {
	patterns []*regexp.Regexp
	excludes []*regexp.Regexp
	sources  []string
}

var _ xaop.MethodMatcher = (*RegexpMatcher)(nil)

// Regexp 编译正则匹配器。patterns 不能为空。
func Regexp(patterns []string, excludes ...string) (*RegexpMatcher, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: no patterns", ErrInvalidPattern)
	}
	r := &RegexpMatcher{sources: patterns}
	var err error
	if r.patterns, err = compileAll(patterns); err != nil {
		return nil, err
	}
	if r.excludes, err = compileAll(excludes); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegexp 与 Regexp 相同，编译失败时 panic。
func MustRegexp(patterns []string, excludes ...string) *RegexpMatcher {
	r, err := Regexp(patterns, excludes...)
	if err != nil {
		panic(err)
	}
	return r
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, p, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// Matches 实现 xaop.MethodMatcher。
func (r *RegexpMatcher) Matches(m xaop.Method, t reflect.Type) bool {
	if r.MatchString(m.String()) {
		return true
	}
	return t != nil && t != m.Owner && r.MatchString(typeinfo.FullName(t)+"."+m.Name)
}

// MatchString 对方法全名做包含/排除判断。
func (r *RegexpMatcher) MatchString(full string) bool {
	for _, re := range r.patterns {
		if re.MatchString(full) {
			return !r.excluded(full)
		}
	}
	return false
}

func (r *RegexpMatcher) excluded(full string) bool {
	for _, re := range r.excludes {
		if re.MatchString(full) {
			return true
		}
	}
	return false
}

// IsRuntime 实现 xaop.MethodMatcher。
func (*RegexpMatcher) IsRuntime() bool { return false }

// MatchesArgs 实现 xaop.MethodMatcher。
func (r *RegexpMatcher) MatchesArgs(m xaop.Method, t reflect.Type, _ []any) bool { return r.Matches(m, t) }

func (r *RegexpMatcher) String() string { return fmt.Sprintf("Regexp%q", r.sources) }
