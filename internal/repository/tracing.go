package repository

import (
	"context"
	"sync"
	"time"

	"marketplace/utils"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "marketplace/internal/repository"

var slowQuery struct {
	mu        sync.RWMutex
	threshold time.Duration
}

// SetSlowQueryThreshold enables warning logs for queries slower than threshold.
// Zero disables them.
func SetSlowQueryThreshold(threshold time.Duration) {
	slowQuery.mu.Lock()
	defer slowQuery.mu.Unlock()
	slowQuery.threshold = threshold
}

func slowQueryThreshold() time.Duration {
	slowQuery.mu.RLock()
	defer slowQuery.mu.RUnlock()
	return slowQuery.threshold
}

// traceQuery starts a client span for a store operation. Call the returned
// function with the operation's error once it completes.
func traceQuery(ctx context.Context, operation, statement string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.statement", statement),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if threshold := slowQueryThreshold(); threshold > 0 {
			if elapsed := time.Since(start); elapsed >= threshold {
				fields := map[string]any{
					"operation": operation,
					"duration":  elapsed.String(),
				}
				if err != nil {
					fields["error"] = err.Error()
				}
				utils.Warn("slow query detected", fields)
			}
		}
	}
}
