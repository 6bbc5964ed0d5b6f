package scope

import (
	"context"

	"go.uber.org/zap"
)

// With returns ctx whose logger carries fields.
func With(ctx context.Context, fields ...zap.Field) context.Context {
	if len(fields) == 0 {
		return ctx
	}
	return WithLogger(ctx, Logger(ctx).With(fields...))
}

func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKeyZapLogger, logger)
}

// Logger returns the logger stored in ctx, or the global one.
func Logger(ctx context.Context) *zap.Logger {
	logger := contextGet[*zap.Logger](ctx, contextKeyZapLogger)
	if logger == nil {
		logger = zap.L()
	}
	return logger
}
