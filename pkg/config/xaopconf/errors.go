package xaopconf

import "errors"

var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xaopconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xaopconf: unsupported config format")

	// ErrLoadFailed 表示读取配置文件失败。
	ErrLoadFailed = errors.New("xaopconf: failed to load config")

	// ErrParseFailed 表示配置内容无法解析。
	ErrParseFailed = errors.New("xaopconf: failed to parse config")

	// ErrInvalidSettings 表示配置内容不合法。
	ErrInvalidSettings = errors.New("xaopconf: invalid settings")

	// ErrUnknownAdvice 表示切点引用的 Advice 找不到。
	ErrUnknownAdvice = errors.New("xaopconf: unknown advice")
)
