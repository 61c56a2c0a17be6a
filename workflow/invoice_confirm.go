package workflow

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
)

// InvoiceConfirm implements ledger_iface.WorkflowServiceHandler.
func (w *workflowServiceImpl) InvoiceConfirm(
	ctx context.Context,
	req *connect.Request[ledger_iface.InvoiceConfirmRequest],
) (*connect.Response[ledger_iface.WorkflowResponse], error) {
	var err error
	res := connect.NewResponse(&ledger_iface.WorkflowResponse{})

	invoiceID := req.Msg.InvoiceId
	res.Msg.Data, err = w.transition(ctx, req.Msg.Id, ledger_core.EntryInvoiceConfirmedEvent, func(entry *ledger_core.Entry, now time.Time) error {
		entry.InvoiceCompleted = true
		entry.InvoiceConfirmedAt = &now
		if invoiceID != nil && *invoiceID != "" {
			entry.InvoiceID = invoiceID
		}
		return nil
	})

	return res, err
}

// InvoiceSkip implements ledger_iface.WorkflowServiceHandler.
func (w *workflowServiceImpl) InvoiceSkip(
	ctx context.Context,
	req *connect.Request[ledger_iface.InvoiceSkipRequest],
) (*connect.Response[ledger_iface.WorkflowResponse], error) {
	var err error
	res := connect.NewResponse(&ledger_iface.WorkflowResponse{})

	res.Msg.Data, err = w.transition(ctx, req.Msg.Id, ledger_core.EntryInvoiceSkippedEvent, func(entry *ledger_core.Entry, now time.Time) error {
		entry.InvoiceNeeded = false
		return nil
	})

	return res, err
}
