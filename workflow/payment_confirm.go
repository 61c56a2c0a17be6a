package workflow

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
)

// PaymentConfirm implements ledger_iface.WorkflowServiceHandler.
func (w *workflowServiceImpl) PaymentConfirm(
	ctx context.Context,
	req *connect.Request[ledger_iface.PaymentConfirmRequest],
) (*connect.Response[ledger_iface.WorkflowResponse], error) {
	var err error
	res := connect.NewResponse(&ledger_iface.WorkflowResponse{})

	accType := ledger_core.PaymentAccountType(req.Msg.AccountType)
	if !accType.Valid() {
		return res, ledger_core.NewValidation("account_type", "account type must be company or personal")
	}

	res.Msg.Data, err = w.transition(ctx, req.Msg.Id, ledger_core.EntryPaymentConfirmedEvent, func(entry *ledger_core.Entry, now time.Time) error {
		entry.PaymentConfirmed = true
		entry.PaymentAccountType = &accType
		entry.PaymentConfirmedAt = &now
		return nil
	})

	return res, err
}
