package entry

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"gorm.io/gorm"
)

// EntryCreate implements ledger_iface.EntryServiceHandler.
func (e *entryServiceImpl) EntryCreate(
	ctx context.Context,
	req *connect.Request[ledger_iface.EntryCreateRequest],
) (*connect.Response[ledger_iface.EntryCreateResponse], error) {
	var err error
	res := connect.NewResponse(&ledger_iface.EntryCreateResponse{})

	entry, attachments, err := req.Msg.ToEntry()
	if err != nil {
		return res, err
	}

	err = e.book.OpenTransaction(ctx, "entry.create", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		return bookmng.
			NewEntryMutation().
			Create(entry, attachments).
			Err()
	})

	if err != nil {
		return res, err
	}

	res.Msg.Data, err = e.enricher.Entry(ctx, entry)
	return res, err
}
