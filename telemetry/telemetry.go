// Package telemetry carries the logging, metrics and tracing hooks used by the
// generator. The Clue implementations delegate to goa.design/clue/log and the
// global OpenTelemetry providers; the Noop implementations discard
// everything and are the default for library callers and tests.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation scope and metric names.
const (
	// Scope is the OpenTelemetry instrumentation scope name.
	Scope = "goa.design/contractgen"

	// MetricContracts counts processed contracts, tagged status=ok|failed.
	MetricContracts = "contractgen.contracts"
	// MetricArtifacts counts written (or planned) artifacts.
	MetricArtifacts = "contractgen.artifacts"
	// MetricGenerateDuration records the time spent generating one contract.
	MetricGenerateDuration = "contractgen.generate.duration"
	// MetricSelected records the number of contracts selected by a run.
	MetricSelected = "contractgen.selected"
)

// Logger is the structured logger used by the generator. keyvals alternate
// string keys and values; an error value under the "err" key is reported as
// the log error.
type Logger interface {
	Debug(ctx context.Context, msg string, keyvals ...any)
	Info(ctx context.Context, msg string, keyvals ...any)
	Warn(ctx context.Context, msg string, keyvals ...any)
	Error(ctx context.Context, msg string, keyvals ...any)
}

// Metrics records counters, timers and gauges. tags alternate keys and
// values.
type Metrics interface {
	IncCounter(name string, value float64, tags ...string)
	RecordTimer(name string, duration time.Duration, tags ...string)
	RecordGauge(name string, value float64, tags ...string)
}

// Tracer starts spans.
type Tracer interface {
	Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, Span)
}

// Span is an in-flight tracing span.
type Span interface {
	End(opts ...trace.SpanEndOption)
	AddEvent(name string, attrs ...any)
	SetStatus(code codes.Code, description string)
	RecordError(err error, opts ...trace.EventOption)
}

// Set bundles the three telemetry hooks.
type Set struct {
	Logger  Logger
	Metrics Metrics
	Tracer  Tracer
}

// NewClue returns a Set backed by Clue logging and the global OpenTelemetry
// providers.
func NewClue() Set {
	return Set{Logger: NewClueLogger(), Metrics: NewClueMetrics(), Tracer: NewClueTracer()}
}

// NewNoop returns a Set that discards everything.
func NewNoop() Set {
	return Set{Logger: NewNoopLogger(), Metrics: NewNoopMetrics(), Tracer: NewNoopTracer()}
}

// WithDefaults returns s with every nil hook replaced by its no-op
// implementation.
func (s Set) WithDefaults() Set {
	if s.Logger == nil {
		s.Logger = NewNoopLogger()
	}
	if s.Metrics == nil {
		s.Metrics = NewNoopMetrics()
	}
	if s.Tracer == nil {
		s.Tracer = NewNoopTracer()
	}
	return s
}
