package xpointcut

import "errors"

var (
	// ErrInvalidPattern 表示正则模式为空或无法编译。
	ErrInvalidPattern = errors.New("xpointcut: invalid pattern")

	// ErrInvalidExpression 表示切点表达式为空或无法编译。
	ErrInvalidExpression = errors.New("xpointcut: invalid expression")
)
