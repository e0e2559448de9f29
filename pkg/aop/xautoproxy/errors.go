package xautoproxy

import "errors"

var (
	// ErrCurrentlyInCreation 由 AdvisorSource 返回，表示该 Advisor 正在创建中暂不可用。
	// Creator 会跳过它，并在之后的调用中重新尝试。
	ErrCurrentlyInCreation = errors.New("xautoproxy: advisor is currently in creation")

	// ErrNilSource 表示 AdvisorSource 为 nil。
	ErrNilSource = errors.New("xautoproxy: advisor source cannot be nil")

	// ErrInvalidCacheSize 表示适用性缓存容量不合法。
	ErrInvalidCacheSize = errors.New("xautoproxy: cache size must be positive")
)
