package workflow

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
)

// TaxConfirm implements ledger_iface.WorkflowServiceHandler.
func (w *workflowServiceImpl) TaxConfirm(
	ctx context.Context,
	req *connect.Request[ledger_iface.TaxConfirmRequest],
) (*connect.Response[ledger_iface.WorkflowResponse], error) {
	var err error
	res := connect.NewResponse(&ledger_iface.WorkflowResponse{})

	period := req.Msg.TaxPeriod
	res.Msg.Data, err = w.transition(ctx, req.Msg.Id, ledger_core.EntryTaxDeclaredEvent, func(entry *ledger_core.Entry, now time.Time) error {
		entry.TaxDeclared = true
		entry.TaxDeclaredAt = &now
		entry.TaxPeriod = &period
		return nil
	})

	return res, err
}
