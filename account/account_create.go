package account

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"gorm.io/gorm"
)

// AccountCreate implements ledger_iface.AccountServiceHandler.
func (a *accountServiceImpl) AccountCreate(
	ctx context.Context,
	req *connect.Request[ledger_iface.AccountCreateRequest],
) (*connect.Response[ledger_iface.AccountResponse], error) {
	var err error
	res := connect.NewResponse(&ledger_iface.AccountResponse{})

	pay := req.Msg
	name := strings.TrimSpace(pay.Name)
	if name == "" {
		return res, ledger_core.NewValidation("name", "account name is required")
	}
	if pay.InitialBalance.IsNegative() {
		return res, ledger_core.NewValidation("initialBalance", "initial balance must not be negative")
	}

	accType := pay.Type
	if accType == "" {
		accType = "cash"
	}

	err = a.book.OpenTransaction(ctx, "account.create", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		now := bookmng.Now()
		acc := ledger_core.Account{
			ID:             uuid.New().String(),
			Name:           name,
			Type:           accType,
			Balance:        ledger_core.NewMoney(pay.InitialBalance),
			InitialBalance: ledger_core.NewMoney(pay.InitialBalance),
			Icon:           pay.Icon,
			Color:          pay.Color,
			Description:    pay.Description,
			IsDefault:      pay.IsDefault,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if acc.IsDefault {
			err := tx.
				Model(&ledger_core.Account{}).
				Where("is_default = ?", true).
				Update("is_default", false).
				Error

			if err != nil {
				return err
			}
		}

		err := tx.Create(&acc).Error
		if err != nil {
			return err
		}

		res.Msg.Data = ledger_iface.NewAccount(&acc)
		return nil
	})

	if err != nil {
		return res, err
	}

	return res, nil
}
