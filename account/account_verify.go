package account

import (
	"context"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const verifyBatchSize = 500

// AccountVerify implements ledger_iface.AccountServiceHandler.
func (a *accountServiceImpl) AccountVerify(
	ctx context.Context,
	req *connect.Request[ledger_iface.AccountVerifyRequest],
) (*connect.Response[ledger_iface.AccountVerifyResponse], error) {
	result := ledger_iface.AccountVerifyResponse{
		Data: []*ledger_iface.AccountDrift{},
	}

	drifts, err := VerifyBalances(ctx, a.db, req.Msg.Id)
	if err != nil {
		return connect.NewResponse(&result), err
	}

	result.Data = drifts
	return connect.NewResponse(&result), nil
}

// VerifyBalances recomputes initial balance plus the effect of every entry
// for one account, or for all accounts when accountID is empty, and compares
// it with the stored running balance.
func VerifyBalances(ctx context.Context, db *gorm.DB, accountID string) ([]*ledger_iface.AccountDrift, error) {
	db = db.WithContext(ctx)
	drifts := []*ledger_iface.AccountDrift{}

	accounts := []*ledger_core.Account{}
	query := db.
		Model(&ledger_core.Account{}).
		Order("created_at asc").
		Order("id asc")

	if accountID != "" {
		query = query.Where("id = ?", accountID)
	}

	err := query.Find(&accounts).Error
	if err != nil {
		return drifts, err
	}
	if accountID != "" && len(accounts) == 0 {
		return drifts, ledger_core.NewNotFound("account", accountID)
	}

	expected := map[string]decimal.Decimal{}
	for _, acc := range accounts {
		expected[acc.ID] = acc.InitialBalance.Decimal
	}

	entryQuery := db.Model(&ledger_core.Entry{})
	if accountID != "" {
		entryQuery = entryQuery.Where("account_id = ? or to_account_id = ?", accountID, accountID)
	}

	entries := []*ledger_core.Entry{}
	err = entryQuery.
		FindInBatches(&entries, verifyBatchSize, func(tx *gorm.DB, batch int) error {
			for _, entry := range entries {
				for _, delta := range ledger_core.BalanceEffect(entry, ledger_core.ApplySign) {
					total, ok := expected[delta.AccountID]
					if !ok {
						continue
					}
					expected[delta.AccountID] = total.Add(delta.Amount)
				}
			}
			return nil
		}).
		Error

	if err != nil {
		return drifts, err
	}

	for _, acc := range accounts {
		want := expected[acc.ID]
		drift := acc.Balance.Sub(want)
		drifts = append(drifts, &ledger_iface.AccountDrift{
			AccountId:  acc.ID,
			Balance:    acc.Balance.Decimal,
			Expected:   want,
			Drift:      drift,
			Consistent: drift.IsZero(),
		})
	}

	return drifts, nil
}
