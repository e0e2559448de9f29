package xpointcut

import (
	"reflect"
	"strings"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// NameMatcher 按方法名匹配，模式支持 "*" 通配（如 "Get*"、"*By*"）。
type NameMatcher struct {
	patterns []string
}

var _ xaop.MethodMatcher = (*NameMatcher)(nil)

// NameMatch 创建方法名匹配器，任一模式匹配即通过。
func NameMatch(patterns ...string) *NameMatcher {
	return &NameMatcher{patterns: patterns}
}

// Matches 实现 xaop.MethodMatcher。
func (n *NameMatcher) Matches(m xaop.Method, _ reflect.Type) bool {
	return n.MatchName(m.Name)
}

// MatchName 判断名字是否匹配任一模式。
func (n *NameMatcher) MatchName(name string) bool {
	for _, p := range n.patterns {
		if SimpleMatch(p, name) {
			return true
		}
	}
	return false
}

// IsRuntime 实现 xaop.MethodMatcher。
func (*NameMatcher) IsRuntime() bool { return false }

// MatchesArgs 实现 xaop.MethodMatcher。
func (n *NameMatcher) MatchesArgs(m xaop.Method, t reflect.Type, _ []any) bool { return n.Matches(m, t) }

// SimpleMatch 判断 s 是否匹配只含 "*" 通配符的模式。
func SimpleMatch(pattern, s string) bool {
	first := strings.IndexByte(pattern, '*')
	if first < 0 {
		return pattern == s
	}
	if first > 0 {
		return strings.HasPrefix(s, pattern[:first]) && SimpleMatch(pattern[first:], s[first:])
	}
	if len(pattern) == 1 {
		return true
	}
	next := strings.IndexByte(pattern[1:], '*')
	if next < 0 {
		return strings.HasSuffix(s, pattern[1:])
	}
	part := pattern[1 : next+1]
	rest := pattern[next+1:]
	if part == "" {
		return SimpleMatch(rest, s)
	}
	for offset := 0; ; {
		i := strings.Index(s[offset:], part)
		if i < 0 {
			return false
		}
		pos := offset + i
		if SimpleMatch(rest, s[pos+len(part):]) {
			return true
		}
		offset = pos + 1
	}
}
