package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/govledger/internal/metrics"
)

// LoggingInterceptor logs one line per RPC and records its latency to m,
// which may be nil. Lifecycle rejections surface as Connect errors and log at
// WARN; anything that is not a Connect error logs at ERROR.
func LoggingInterceptor(m *metrics.Metrics) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			// Runs outside the auth interceptors, so the caller is not known
			// here. Services log it.
			attrs := []any{
				"procedure", procedure,
				"duration_ms", elapsed.Milliseconds(),
			}

			code := "ok"
			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr):
				code = connectErr.Code().String()
				slog.Warn("RPC rejected", append(attrs, "code", code, "error", connectErr.Message())...)
			default:
				code = connect.CodeOf(err).String()
				slog.Error("RPC failed", append(attrs, "error", err)...)
			}
			m.ObserveRPC(procedure, code, elapsed.Seconds())

			return resp, err
		}
	}
}
