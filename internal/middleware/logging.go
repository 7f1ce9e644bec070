// Package middleware decorates share dispatchers with cross-cutting
// behaviour. Each Middleware wraps a share.Dispatcher and returns another.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/share"
)

// Middleware wraps a dispatcher.
type Middleware func(next share.Dispatcher) share.Dispatcher

// Chain wraps d with mws. The first middleware is the outermost.
func Chain(d share.Dispatcher, mws ...Middleware) share.Dispatcher {
	for i := len(mws) - 1; i >= 0; i-- {
		d = mws[i](d)
	}
	return d
}

// LoggingDispatcher logs every dispatch: channel, participant, split ID,
// duration, and any error. Message bodies are not logged.
func LoggingDispatcher(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next share.Dispatcher) share.Dispatcher {
		return share.DispatcherFunc(func(ctx context.Context, req share.Request) error {
			start := time.Now()

			err := next.Dispatch(ctx, req)

			attrs := []any{
				"channel", req.Channel,
				"participant_id", req.ParticipantID,
				"split_id", GetSplitID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err == nil:
				logger.Info("share ok", attrs...)
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				logger.Warn("share cancelled", append(attrs, "error", err)...)
			default:
				logger.Error("share error", append(attrs, "error", err)...)
			}

			return err
		})
	}
}

// MetricsDispatcher records the outcome and duration of every dispatch.
func MetricsDispatcher(m *metrics.Metrics) Middleware {
	return func(next share.Dispatcher) share.Dispatcher {
		return share.DispatcherFunc(func(ctx context.Context, req share.Request) error {
			start := time.Now()
			err := next.Dispatch(ctx, req)
			m.ObserveShare(string(req.Channel), err, start)
			return err
		})
	}
}
