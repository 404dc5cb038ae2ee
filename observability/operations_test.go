package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestOperationSpans(t *testing.T) {
	sr := setupRecorder(t)
	ctx := context.Background()

	_, span := StartParseSpan(ctx, "net45")
	EndSpanWithError(span, nil)

	cctx, span := StartCompatibilitySpan(ctx, "net45", "netstandard1.1")
	RecordDecision(cctx, "netstandard-generation", true)
	EndSpanWithError(span, nil)

	_, span = StartRangeSpan(ctx, "[1.0,2.0)")
	EndSpanWithError(span, errors.New("bad range"))

	_, span = StartScanSpan(ctx, "/tmp/pkg")
	span.End()

	spans := sr.Ended()
	if len(spans) != 4 {
		t.Fatalf("ended spans = %d, want 4", len(spans))
	}

	wantNames := []string{"framework.parse", "framework.compatible", "version.range", "package.scan"}
	for i, name := range wantNames {
		if spans[i].Name() != name {
			t.Errorf("spans[%d].Name() = %s, want %s", i, spans[i].Name(), name)
		}
	}

	var rule string
	for _, kv := range spans[1].Attributes() {
		if kv.Key == AttrRule {
			rule = kv.Value.AsString()
		}
	}
	if rule != "netstandard-generation" {
		t.Errorf("rule attribute = %q, want netstandard-generation", rule)
	}

	if spans[0].Status().Code != codes.Ok {
		t.Errorf("parse span status = %v, want Ok", spans[0].Status().Code)
	}
	if spans[2].Status().Code != codes.Error {
		t.Errorf("range span status = %v, want Error", spans[2].Status().Code)
	}
	if len(spans[2].Events()) == 0 {
		t.Error("range span should carry the recorded error event")
	}
}
