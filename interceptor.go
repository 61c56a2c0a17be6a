package bookkeeping_service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
)

// NewLoggingInterceptor logs every failed call with its error code. Internal
// failures log at error level, business rule rejections at info.
func NewLoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			res, err := next(ctx, req)
			if err == nil {
				return res, nil
			}

			code := ledger_core.ErrorCode(err)
			attrs := []any{
				slog.String("procedure", req.Spec().Procedure),
				slog.String("code", string(code)),
				slog.Duration("elapsed", time.Since(start)),
				slog.String("error", err.Error()),
			}

			if code == ledger_core.CodeInternal {
				slog.ErrorContext(ctx, "request failed", attrs...)
			} else {
				slog.InfoContext(ctx, "request rejected", attrs...)
			}
			return res, err
		}
	}
}
