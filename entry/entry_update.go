package entry

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"gorm.io/gorm"
)

// EntryUpdate implements ledger_iface.EntryServiceHandler.
func (e *entryServiceImpl) EntryUpdate(
	ctx context.Context,
	req *connect.Request[ledger_iface.EntryUpdateRequest],
) (*connect.Response[ledger_iface.EntryUpdateResponse], error) {
	var err error
	res := connect.NewResponse(&ledger_iface.EntryUpdateResponse{})

	patch, err := req.Msg.ToPatch()
	if err != nil {
		return res, err
	}

	var updated *ledger_core.Entry
	err = e.book.OpenTransaction(ctx, "entry.update", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		mut := bookmng.
			NewEntryMutation().
			ByID(req.Msg.Id, true).
			Update(patch)

		updated = mut.Data()
		return mut.Err()
	})

	if err != nil {
		return res, err
	}

	res.Msg.Data, err = e.enricher.Entry(ctx, updated)
	return res, err
}
