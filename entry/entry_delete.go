package entry

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"gorm.io/gorm"
)

// EntryDelete implements ledger_iface.EntryServiceHandler.
func (e *entryServiceImpl) EntryDelete(
	ctx context.Context,
	req *connect.Request[ledger_iface.EntryDeleteRequest],
) (*connect.Response[ledger_iface.EntryDeleteResponse], error) {
	res := connect.NewResponse(&ledger_iface.EntryDeleteResponse{})

	err := e.book.OpenTransaction(ctx, "entry.delete", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		return bookmng.
			NewEntryMutation().
			ByID(req.Msg.Id, true).
			Delete().
			Err()
	})

	if err != nil {
		return res, err
	}

	res.Msg.Deleted = true
	return res, nil
}
