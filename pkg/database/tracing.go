package database

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "storefront/redis"

// tracingHook opens a client span per Redis command or pipeline and logs
// commands slower than threshold.
type tracingHook struct {
	tracer    trace.Tracer
	threshold time.Duration
	logger    *slog.Logger
}

var _ redis.Hook = (*tracingHook)(nil)

func newTracingHook(threshold time.Duration, logger *slog.Logger) *tracingHook {
	return &tracingHook{tracer: otel.Tracer(tracerName), threshold: threshold, logger: logger}
}

func (h *tracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *tracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, end := h.start(ctx, "redis."+cmd.Name(), cmd.Name())
		err := next(ctx, cmd)
		end(err)
		return err
	}
}

func (h *tracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		names := make([]string, 0, len(cmds))
		for _, c := range cmds {
			names = append(names, c.Name())
		}
		ctx, end := h.start(ctx, "redis.pipeline", strings.Join(names, " "))
		err := next(ctx, cmds)
		end(err)
		return err
	}
}

func (h *tracingHook) start(ctx context.Context, spanName, operation string) (context.Context, func(error)) {
	begin := time.Now()
	ctx, span := h.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "redis"),
			attribute.String("db.operation", operation),
		),
	)

	return ctx, func(err error) {
		if err != nil && !errors.Is(err, redis.Nil) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if h.threshold <= 0 || h.logger == nil {
			return
		}
		if elapsed := time.Since(begin); elapsed >= h.threshold {
			h.logger.WarnContext(ctx, "slow redis command",
				slog.String("operation", operation),
				slog.Duration("duration", elapsed),
			)
		}
	}
}
