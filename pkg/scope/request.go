package scope

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type requestLogger struct {
	sync.Mutex
	fields   []zap.Field
	start    time.Time
	finished bool
}

// RequestBegin starts collecting fields for a single summary line about the
// request handled under ctx.
func RequestBegin(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyRequestLogger, &requestLogger{start: time.Now()})
}

func RequestWith(ctx context.Context, fields ...zap.Field) {
	q := contextGet[*requestLogger](ctx, contextKeyRequestLogger)
	if q == nil {
		return
	}
	q.Lock()
	q.fields = append(q.fields, fields...)
	q.Unlock()
}

// RequestFinish writes the summary line once. Requests that failed are logged
// at error level.
func RequestFinish(ctx context.Context, err error) {
	q := contextGet[*requestLogger](ctx, contextKeyRequestLogger)
	if q == nil {
		return
	}

	q.Lock()
	defer q.Unlock()

	if q.finished {
		return
	}
	q.finished = true

	fields := append(q.fields, zap.Int64("elapsed_ms", time.Since(q.start).Milliseconds()))
	if err != nil {
		Logger(ctx).Error("request", append(fields, zap.Error(err))...)
		return
	}
	Logger(ctx).Info("request", fields...)
}
