package otel

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

// endpointExcluder drops root spans for noisy routes such as health probes
// and samples everything else by ratio.
type endpointExcluder struct {
	excluded map[string]struct{}
	ratio    sdktrace.Sampler
}

func newEndpointExcluder(excluded map[string]struct{}, probability float64) sdktrace.Sampler {
	return sdktrace.ParentBased(endpointExcluder{
		excluded: excluded,
		ratio:    sdktrace.TraceIDRatioBased(probability),
	})
}

func (e endpointExcluder) ShouldSample(p sdktrace.SamplingParameters) sdktrace.SamplingResult {
	if _, ok := e.excluded[p.Name]; ok {
		return sdktrace.SamplingResult{
			Decision:   sdktrace.Drop,
			Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
		}
	}
	for _, attr := range p.Attributes {
		if attr.Key != semconv.HTTPTargetKey {
			continue
		}
		if _, ok := e.excluded[attr.Value.AsString()]; ok {
			return sdktrace.SamplingResult{
				Decision:   sdktrace.Drop,
				Tracestate: trace.SpanContextFromContext(p.ParentContext).TraceState(),
			}
		}
	}
	return e.ratio.ShouldSample(p)
}

func (e endpointExcluder) Description() string { return "endpointExcluder" }
