package reimbursement

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
)

type reimbursementServiceImpl struct {
	manager *BatchManager
}

func NewReimbursementService(manager *BatchManager) ledger_iface.ReimbursementServiceHandler {
	return &reimbursementServiceImpl{
		manager: manager,
	}
}

// BatchCreate implements ledger_iface.ReimbursementServiceHandler.
func (r *reimbursementServiceImpl) BatchCreate(
	ctx context.Context,
	req *connect.Request[ledger_iface.BatchCreateRequest],
) (*connect.Response[ledger_iface.BatchResponse], error) {
	res := connect.NewResponse(&ledger_iface.BatchResponse{})
	pay := req.Msg

	batch, err := r.manager.Create(ctx, &CreatePayload{
		EmployeeName: pay.EmployeeName,
		EntryIDs:     pay.TransactionIds,
		Note:         pay.Note,
	})
	if err != nil {
		return res, err
	}

	res.Msg.Data = ledger_iface.NewBatch(batch)
	return res, nil
}

// BatchComplete implements ledger_iface.ReimbursementServiceHandler.
func (r *reimbursementServiceImpl) BatchComplete(
	ctx context.Context,
	req *connect.Request[ledger_iface.BatchCompleteRequest],
) (*connect.Response[ledger_iface.BatchResponse], error) {
	res := connect.NewResponse(&ledger_iface.BatchResponse{})
	pay := req.Msg

	payload := &CompletePayload{
		ActualAmount: pay.ActualAmount,
		Fee:          pay.Fee,
		FeeAccountID: pay.FeeAccountId,
	}

	if pay.CompletedDate != "" {
		completedDate, err := ledger_iface.ParseDate("completedDate", pay.CompletedDate)
		if err != nil {
			return res, err
		}
		payload.CompletedDate = completedDate
	}

	batch, err := r.manager.Complete(ctx, pay.Id, payload)
	if err != nil {
		return res, err
	}

	res.Msg.Data = ledger_iface.NewBatch(batch)
	return res, nil
}

// BatchDelete implements ledger_iface.ReimbursementServiceHandler.
func (r *reimbursementServiceImpl) BatchDelete(
	ctx context.Context,
	req *connect.Request[ledger_iface.BatchDeleteRequest],
) (*connect.Response[ledger_iface.BatchDeleteResponse], error) {
	res := connect.NewResponse(&ledger_iface.BatchDeleteResponse{})

	deleted, err := r.manager.Delete(ctx, req.Msg.Id)
	res.Msg.Deleted = deleted
	return res, err
}

// BatchGet implements ledger_iface.ReimbursementServiceHandler.
func (r *reimbursementServiceImpl) BatchGet(
	ctx context.Context,
	req *connect.Request[ledger_iface.BatchGetRequest],
) (*connect.Response[ledger_iface.BatchResponse], error) {
	res := connect.NewResponse(&ledger_iface.BatchResponse{})

	batch, err := r.manager.Get(ctx, req.Msg.Id)
	if err != nil {
		return res, err
	}

	res.Msg.Data = ledger_iface.NewBatch(batch)
	return res, nil
}

// BatchList implements ledger_iface.ReimbursementServiceHandler.
func (r *reimbursementServiceImpl) BatchList(
	ctx context.Context,
	req *connect.Request[ledger_iface.BatchListRequest],
) (*connect.Response[ledger_iface.BatchListResponse], error) {
	result := ledger_iface.BatchListResponse{
		Data: []*ledger_iface.Batch{},
	}
	pay := req.Msg

	batches, info, err := r.manager.List(ctx, ledger_core.BatchStatus(pay.Status), ledger_core.PageQuery{
		Page:     pay.Page,
		PageSize: pay.PageSize,
	})
	result.PageInfo = info
	if err != nil {
		return connect.NewResponse(&result), err
	}

	for _, batch := range batches {
		result.Data = append(result.Data, ledger_iface.NewBatch(batch))
	}

	return connect.NewResponse(&result), nil
}

// BatchPendingCount implements ledger_iface.ReimbursementServiceHandler.
func (r *reimbursementServiceImpl) BatchPendingCount(
	ctx context.Context,
	req *connect.Request[ledger_iface.BatchPendingCountRequest],
) (*connect.Response[ledger_iface.BatchPendingCountResponse], error) {
	res := connect.NewResponse(&ledger_iface.BatchPendingCountResponse{})

	count, err := r.manager.PendingCount(ctx)
	res.Msg.Count = count
	return res, err
}
