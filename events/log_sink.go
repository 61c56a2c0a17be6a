package events

import (
	"context"
	"log/slog"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
)

type logSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) ledger_core.EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &logSink{
		logger: logger,
	}
}

// Emit implements ledger_core.EventSink.
func (l *logSink) Emit(ctx context.Context, name string, payload any) error {
	l.logger.InfoContext(ctx, "ledger event",
		slog.String("event", name),
		slog.Any("payload", payload),
	)
	return nil
}
