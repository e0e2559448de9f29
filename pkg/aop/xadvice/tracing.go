package xadvice

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/omeyang/xaop/internal/typeinfo"
	"github.com/omeyang/xaop/pkg/aop/xaop"
)

const (
	defaultInstrumentationName = "github.com/omeyang/xaop/pkg/aop/xadvice"

	metricCallTotal    = "xaop.call.total"
	metricCallDuration = "xaop.call.duration"
)

// TracingOption 配置 Tracing。
type TracingOption func(*tracingConfig)

type tracingConfig struct {
	instrumentationName string
	tracerProvider      trace.TracerProvider
	meterProvider       metric.MeterProvider
}

// WithInstrumentationName 设置 instrumentation 名称，空值将被忽略。
func WithInstrumentationName(name string) TracingOption {
	return func(cfg *tracingConfig) {
		if name != "" {
			cfg.instrumentationName = name
		}
	}
}

// WithTracerProvider 设置 TracerProvider。默认 otel.GetTracerProvider()。
func WithTracerProvider(provider trace.TracerProvider) TracingOption {
	return func(cfg *tracingConfig) {
		if provider != nil {
			cfg.tracerProvider = provider
		}
	}
}

// WithMeterProvider 设置 MeterProvider。默认 otel.GetMeterProvider()。
func WithMeterProvider(provider metric.MeterProvider) TracingOption {
	return func(cfg *tracingConfig) {
		if provider != nil {
			cfg.meterProvider = provider
		}
	}
}

// Tracing 为每次调用创建 span，并记录调用次数和耗时。
//
// span 以方法全名命名。方法首参为 context.Context 时，
// 带 span 的 context 会写回首参，后续拦截器和目标可以创建子 span。
type Tracing struct {
	tracer   trace.Tracer
	total    metric.Int64Counter
	duration metric.Float64Histogram
}

var _ xaop.MethodInterceptor = (*Tracing)(nil)

// NewTracing 创建 Tracing。
func NewTracing(opts ...TracingOption) (*Tracing, error) {
	cfg := &tracingConfig{
		instrumentationName: defaultInstrumentationName,
		tracerProvider:      otel.GetTracerProvider(),
		meterProvider:       otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	meter := cfg.meterProvider.Meter(cfg.instrumentationName)
	total, err := meter.Int64Counter(
		metricCallTotal,
		metric.WithDescription("total advised calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xadvice: create counter failed: %w", err)
	}
	duration, err := meter.Float64Histogram(
		metricCallDuration,
		metric.WithDescription("advised call duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xadvice: create histogram failed: %w", err)
	}
	return &Tracing{
		tracer:   cfg.tracerProvider.Tracer(cfg.instrumentationName),
		total:    total,
		duration: duration,
	}, nil
}

// Invoke 实现 xaop.MethodInterceptor。
func (t *Tracing) Invoke(inv xaop.MethodInvocation) ([]any, error) {
	m := inv.Method()
	ctx, span := t.tracer.Start(inv.Context(), m.String(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("aop.owner", typeinfo.FullName(m.Owner)),
			attribute.String("aop.method", m.Name),
			attribute.String("aop.kind", m.Kind.String()),
		),
	)
	defer span.End()
	pushContext(inv, ctx)

	start := time.Now()
	out, err := inv.Proceed()

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	attrs := metric.WithAttributes(
		attribute.String("method", m.String()),
		attribute.String("status", status),
	)
	metricsCtx := context.WithoutCancel(ctx)
	t.total.Add(metricsCtx, 1, attrs)
	t.duration.Record(metricsCtx, time.Since(start).Seconds(), attrs)
	return out, err
}
