package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// TracerName is the tracer name for nugetcompat operations
	TracerName = "github.com/willibrandon/nugetcompat"
)

// Common attribute keys
const (
	AttrMoniker       = attribute.Key("nuget.framework.moniker")
	AttrFramework     = attribute.Key("nuget.framework")
	AttrProject       = attribute.Key("nuget.framework.project")
	AttrPackage       = attribute.Key("nuget.framework.package")
	AttrRule          = attribute.Key("nuget.compat.rule")
	AttrCompatible    = attribute.Key("nuget.compat.compatible")
	AttrVersionRange  = attribute.Key("nuget.version.range")
	AttrOperation     = attribute.Key("nuget.operation")
	AttrScanRoot      = attribute.Key("nuget.scan.root")
	AttrScanFileCount = attribute.Key("nuget.scan.files")
)

// StartParseSpan starts a span for parsing one moniker.
func StartParseSpan(ctx context.Context, moniker string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "framework.parse",
		trace.WithAttributes(
			AttrMoniker.String(moniker),
			AttrOperation.String("parse"),
		),
	)
}

// StartCompatibilitySpan starts a span for one compatibility check.
func StartCompatibilitySpan(ctx context.Context, project, pkg string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "framework.compatible",
		trace.WithAttributes(
			AttrProject.String(project),
			AttrPackage.String(pkg),
			AttrOperation.String("compatible"),
		),
	)
}

// RecordDecision attaches the deciding rule and verdict to the current span.
func RecordDecision(ctx context.Context, rule string, compatible bool) {
	SetAttributes(ctx, AttrRule.String(rule), AttrCompatible.Bool(compatible))
}

// StartRangeSpan starts a span for parsing or evaluating a version range.
func StartRangeSpan(ctx context.Context, expression string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "version.range",
		trace.WithAttributes(
			AttrVersionRange.String(expression),
			AttrOperation.String("range"),
		),
	)
}

// StartScanSpan starts a span for scanning an extracted package directory.
func StartScanSpan(ctx context.Context, root string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "package.scan",
		trace.WithAttributes(
			AttrScanRoot.String(root),
			AttrOperation.String("scan"),
		),
	)
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
