package account

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
)

// AccountGet implements ledger_iface.AccountServiceHandler.
func (a *accountServiceImpl) AccountGet(
	ctx context.Context,
	req *connect.Request[ledger_iface.AccountGetRequest],
) (*connect.Response[ledger_iface.AccountResponse], error) {
	res := connect.NewResponse(&ledger_iface.AccountResponse{})

	var acc ledger_core.Account
	err := a.
		db.
		WithContext(ctx).
		Model(&ledger_core.Account{}).
		Where("id = ?", req.Msg.Id).
		Limit(1).
		Find(&acc).
		Error

	if err != nil {
		return res, err
	}
	if acc.ID == "" {
		return res, ledger_core.NewNotFound("account", req.Msg.Id)
	}

	res.Msg.Data = ledger_iface.NewAccount(&acc)
	return res, nil
}

// AccountList implements ledger_iface.AccountServiceHandler.
func (a *accountServiceImpl) AccountList(
	ctx context.Context,
	req *connect.Request[ledger_iface.AccountListRequest],
) (*connect.Response[ledger_iface.AccountListResponse], error) {
	result := ledger_iface.AccountListResponse{
		Data: []*ledger_iface.Account{},
	}

	accounts := []*ledger_core.Account{}
	err := a.
		db.
		WithContext(ctx).
		Model(&ledger_core.Account{}).
		Order("created_at asc").
		Order("id asc").
		Find(&accounts).
		Error

	if err != nil {
		return connect.NewResponse(&result), err
	}

	for _, acc := range accounts {
		result.Data = append(result.Data, ledger_iface.NewAccount(acc))
	}

	return connect.NewResponse(&result), nil
}
