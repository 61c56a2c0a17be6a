package workflow

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/entry"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
)

func (w *workflowServiceImpl) pendingList(ctx context.Context, req *ledger_iface.PendingListRequest, filter *entry.EntryFilter) (*connect.Response[ledger_iface.EntryListResponse], error) {
	result := ledger_iface.EntryListResponse{
		Data: []*ledger_iface.Entry{},
	}

	entries, info, err := entry.ListEntries(ctx, w.db, filter, ledger_core.PageQuery{
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	result.PageInfo = info
	if err != nil {
		return connect.NewResponse(&result), err
	}

	result.Data, err = w.enricher.Entries(ctx, entries)
	return connect.NewResponse(&result), err
}

// PendingPaymentList implements ledger_iface.WorkflowServiceHandler.
func (w *workflowServiceImpl) PendingPaymentList(
	ctx context.Context,
	req *connect.Request[ledger_iface.PendingListRequest],
) (*connect.Response[ledger_iface.EntryListResponse], error) {
	return w.pendingList(ctx, req.Msg, &entry.EntryFilter{UnconfirmedPayment: true})
}

// PendingInvoiceList implements ledger_iface.WorkflowServiceHandler.
func (w *workflowServiceImpl) PendingInvoiceList(
	ctx context.Context,
	req *connect.Request[ledger_iface.PendingListRequest],
) (*connect.Response[ledger_iface.EntryListResponse], error) {
	return w.pendingList(ctx, req.Msg, &entry.EntryFilter{PendingInvoice: true})
}

// PendingTaxList implements ledger_iface.WorkflowServiceHandler.
func (w *workflowServiceImpl) PendingTaxList(
	ctx context.Context,
	req *connect.Request[ledger_iface.PendingListRequest],
) (*connect.Response[ledger_iface.EntryListResponse], error) {
	return w.pendingList(ctx, req.Msg, &entry.EntryFilter{UndeclaredTax: true})
}
