package account

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/pdcgo/bookkeeping_service/lookup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountDelete implements ledger_iface.AccountServiceHandler.
func (a *accountServiceImpl) AccountDelete(
	ctx context.Context,
	req *connect.Request[ledger_iface.AccountDeleteRequest],
) (*connect.Response[ledger_iface.AccountDeleteResponse], error) {
	res := connect.NewResponse(&ledger_iface.AccountDeleteResponse{})
	id := req.Msg.Id

	err := a.book.OpenTransaction(ctx, "account.delete", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		err := bookmng.LockAccounts(id)
		if err != nil {
			return err
		}

		var acc ledger_core.Account
		err = tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
			}).
			Model(&ledger_core.Account{}).
			Where("id = ?", id).
			Limit(1).
			Find(&acc).
			Error

		if err != nil {
			return err
		}
		if acc.ID == "" {
			return ledger_core.ErrSkipTransaction
		}

		var used int64
		err = tx.
			Model(&ledger_core.Entry{}).
			Where("account_id = ? or to_account_id = ?", id, id).
			Count(&used).
			Error

		if err != nil {
			return err
		}
		if used > 0 {
			return ledger_core.NewValidation("id", "account is still used by ledger entries")
		}

		err = tx.Where("id = ?", id).Delete(&ledger_core.Account{}).Error
		if err != nil {
			return err
		}

		res.Msg.Deleted = true
		return nil
	})

	if err != nil {
		return res, err
	}

	if res.Msg.Deleted {
		a.names.Forget(lookup.AccountKind, id)
	}
	return res, nil
}
