package gateway

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/cricket-scoreboard-service/internal/logging"
)

// logWithGateway emits a log entry on the request logger when available and always tags the gateway name.
func logWithGateway(ctx context.Context, fallback *slog.Logger, level slog.Level, gateway string, msg string, args ...any) {
	logger := logging.FromContext(ctx, fallback)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldGateway, gateway))
	logger.Log(ctx, level, msg, args...)
}
