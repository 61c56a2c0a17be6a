package entry

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
)

// EntryGet implements ledger_iface.EntryServiceHandler.
func (e *entryServiceImpl) EntryGet(
	ctx context.Context,
	req *connect.Request[ledger_iface.EntryGetRequest],
) (*connect.Response[ledger_iface.EntryGetResponse], error) {
	var err error
	res := connect.NewResponse(&ledger_iface.EntryGetResponse{})

	var entry ledger_core.Entry
	err = e.db.
		WithContext(ctx).
		Model(&ledger_core.Entry{}).
		Where("id = ?", req.Msg.Id).
		Limit(1).
		Find(&entry).
		Error

	if err != nil {
		return res, err
	}

	if entry.ID == "" {
		return res, ledger_core.NewNotFound("entry", req.Msg.Id)
	}

	res.Msg.Data, err = e.enricher.Entry(ctx, &entry)
	return res, err
}
