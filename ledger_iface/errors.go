package ledger_iface

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
)

const ErrorCodeHeader = "Ledger-Error-Code"

// ConnectError maps the ledger error taxonomy to connect codes. The stable
// ledger code travels in the Ledger-Error-Code metadata.
func ConnectError(err error) error {
	if err == nil {
		return nil
	}

	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return err
	}

	code := ledger_core.ErrorCode(err)
	var connCode connect.Code
	switch code {
	case ledger_core.CodeNotFound:
		connCode = connect.CodeNotFound
	case ledger_core.CodeValidation:
		connCode = connect.CodeInvalidArgument
	case ledger_core.CodeConflict:
		connCode = connect.CodeAborted
	default:
		connCode = connect.CodeInternal
	}

	cerr = connect.NewError(connCode, err)
	cerr.Meta().Set(ErrorCodeHeader, string(code))
	return cerr
}

func NewErrorInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			res, err := next(ctx, req)
			if err != nil {
				return res, ConnectError(err)
			}
			return res, nil
		}
	}
}
