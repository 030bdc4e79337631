package google

import (
	"context"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const scopeName = "github.com/menschrobotics/ruby-core/core/speechtotext/google"

var (
	tracer = otel.Tracer(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

func tracerSpan(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
