package middleware

import (
	"context"
	"log/slog"
	"time"

	"homestay/internal/app/commands"
)

// Logging records every dispatched command with its outcome and duration.
func Logging(logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if logger == nil {
				return nextFn(ctx, cmd)
			}
			start := time.Now()
			result, err := nextFn(ctx, cmd)
			attrs := []any{"command", cmd.Key(), "duration", time.Since(start)}
			if err != nil {
				logger.Warn("command failed", append(attrs, "error", err)...)
				return result, err
			}
			logger.Info("command handled", attrs...)
			return result, nil
		})
	}
}
