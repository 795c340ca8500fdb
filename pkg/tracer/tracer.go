// Package tracer 初始化 jaeger opentracing 追踪器
package tracer

import (
	"io"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
)

// NewJaegerTracer creates a const-sampled tracer reporting to agentHostPort
// and installs it as the opentracing global tracer.
// NewJaegerTracer 创建上报到 agentHostPort 的追踪器并设置为全局追踪器
func NewJaegerTracer(serviceName, agentHostPort string) (opentracing.Tracer, io.Closer, error) {
	cfg := &jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans:            false,
			BufferFlushInterval: time.Second,
			LocalAgentHostPort:  agentHostPort,
		},
	}

	t, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, nil, errors.Wrap(err, "create jaeger tracer failed")
	}
	opentracing.SetGlobalTracer(t)
	return t, closer, nil
}

// TraceIDOf returns the jaeger trace id of span, or "" for other tracers.
func TraceIDOf(span opentracing.Span) string {
	if span == nil {
		return ""
	}
	if sc, ok := span.Context().(jaeger.SpanContext); ok && sc.IsValid() {
		return sc.TraceID().String()
	}
	return ""
}
