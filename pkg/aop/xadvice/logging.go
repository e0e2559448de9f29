package xadvice

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/omeyang/xaop/pkg/aop/xaop"
)

// AttrInvocationID 是 Logging 写入的调用属性名，值为 uuid 字符串。
const AttrInvocationID = "xadvice.invocation_id"

// LoggingOption 配置 Logging。
type LoggingOption func(*Logging)

// WithLevel 设置成功调用的日志级别。默认 Debug；失败调用至少为 Warn。
func WithLevel(level slog.Level) LoggingOption {
	return func(l *Logging) { l.level = level }
}

// WithArguments 在日志中记录实参。
func WithArguments(v bool) LoggingOption {
	return func(l *Logging) { l.args = v }
}

// Logging 记录每次调用的方法、耗时和结果。
type Logging struct {
	logger *slog.Logger
	level  slog.Level
	args   bool
}

var _ xaop.MethodInterceptor = (*Logging)(nil)

// NewLogging 创建 Logging。logger 为 nil 时使用 slog.Default()。
func NewLogging(logger *slog.Logger, opts ...LoggingOption) *Logging {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Logging{logger: logger, level: slog.LevelDebug}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Invoke 实现 xaop.MethodInterceptor。
func (l *Logging) Invoke(inv xaop.MethodInvocation) ([]any, error) {
	id := uuid.NewString()
	inv.SetAttribute(AttrInvocationID, id)

	ctx := inv.Context()
	m := inv.Method()
	attrs := []slog.Attr{
		slog.String("invocation_id", id),
		slog.String("method", m.String()),
	}
	if l.args {
		attrs = append(attrs, slog.Any("args", inv.Arguments()))
	}

	start := time.Now()
	out, err := inv.Proceed()
	attrs = append(attrs, slog.Duration("elapsed", time.Since(start)))

	if err != nil {
		level := max(l.level, slog.LevelWarn)
		l.logger.LogAttrs(ctx, level, "xadvice: call failed", append(attrs, slog.Any("error", err))...)
		return out, err
	}
	l.logger.LogAttrs(ctx, l.level, "xadvice: call completed", attrs...)
	return out, nil
}

// InvocationID 返回 Logging 为调用分配的 id。
func InvocationID(inv xaop.MethodInvocation) (string, bool) {
	v, ok := inv.Attribute(AttrInvocationID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
