package xautoproxy

import (
	"fmt"
	"maps"
	"slices"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// AdvisorSource 提供候选 Advisor，通常由容器实现。
type AdvisorSource interface {
	// AdvisorNames 返回全部候选 Advisor 的名字。
	AdvisorNames() []string

	// Advisor 按名字取得 Advisor。
	// 暂不可用时返回包装了 ErrCurrentlyInCreation 的错误。
	Advisor(name string) (xaop.Advisor, error)
}

// AdvisorMap 是基于 map 的 AdvisorSource，名字按字典序返回。
type AdvisorMap map[string]xaop.Advisor

var _ AdvisorSource = AdvisorMap(nil)

// AdvisorNames 实现 AdvisorSource。
func (m AdvisorMap) AdvisorNames() []string {
	return slices.Sorted(maps.Keys(m))
}

// Advisor 实现 AdvisorSource。
func (m AdvisorMap) Advisor(name string) (xaop.Advisor, error) {
	a, ok := m[name]
	if !ok || a == nil {
		return nil, fmt.Errorf("xautoproxy: advisor %q not found", name)
	}
	return a, nil
}
