package utils

import (
	"context"

	"github.com/sirupsen/logrus"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// NewTracerProvider builds an SDK tracer provider whose finished spans are
// written to logger at debug level. When enabled is false nothing is sampled.
func NewTracerProvider(logger *logrus.Logger, enabled bool) *sdktrace.TracerProvider {
	sampler := sdktrace.NeverSample()
	if enabled {
		sampler = sdktrace.AlwaysSample()
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sampler),
		sdktrace.WithSpanProcessor(&logSpanProcessor{logger: logger}),
	)
}

// logSpanProcessor logs ended spans
type logSpanProcessor struct {
	logger *logrus.Logger
}

func (p *logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p *logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	fields := logrus.Fields{
		"span":        s.Name(),
		"trace_id":    s.SpanContext().TraceID().String(),
		"duration_ms": s.EndTime().Sub(s.StartTime()).Milliseconds(),
		"status":      s.Status().Code.String(),
	}
	for _, attr := range s.Attributes() {
		fields[string(attr.Key)] = attr.Value.AsInterface()
	}
	p.logger.WithFields(fields).Debug("Span finished")
}

func (p *logSpanProcessor) Shutdown(context.Context) error { return nil }

func (p *logSpanProcessor) ForceFlush(context.Context) error { return nil }
