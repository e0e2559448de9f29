package xtarget

import "errors"

var (
	// ErrNilTarget 表示目标对象为 nil。
	ErrNilTarget = errors.New("xtarget: target cannot be nil")

	// ErrNilFactory 表示创建函数为 nil。
	ErrNilFactory = errors.New("xtarget: factory cannot be nil")

	// ErrTypeMismatch 表示替换的目标与原类型不兼容。
	ErrTypeMismatch = errors.New("xtarget: target type mismatch")

	// ErrPoolExhausted 表示对象池已满且无法在限定时间内借到对象。
	ErrPoolExhausted = errors.New("xtarget: pool exhausted")

	// ErrPoolClosed 表示对象池已关闭。
	ErrPoolClosed = errors.New("xtarget: pool is closed")

	// ErrNotBorrowed 表示归还的对象不是从池中借出的。
	ErrNotBorrowed = errors.New("xtarget: target was not borrowed from this pool")

	// ErrInvalidPoolSize 表示池容量无效。
	ErrInvalidPoolSize = errors.New("xtarget: invalid pool size")
)
