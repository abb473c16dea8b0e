package mcp

import (
	"context"
	"log/slog"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// LoggingMiddleware returns middleware that logs every incoming method call
// with its duration. Failures are logged at error level with the message
// attached.
func LoggingMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			start := time.Now()

			result, err := next(ctx, method, req)

			attrs := []slog.Attr{
				slog.String("method", method),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			}
			level := slog.LevelInfo
			msg := "method call completed"
			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				level = slog.LevelError
				msg = "method call failed"
			}
			slog.LogAttrs(ctx, level, msg, attrs...)

			return result, err
		}
	}
}
