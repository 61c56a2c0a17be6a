package ledger_iface

import (
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/shopspring/decimal"
)

type Account struct {
	Id             string          `json:"id"`
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Icon           string          `json:"icon"`
	Color          string          `json:"color"`
	Description    string          `json:"description"`
	IsDefault      bool            `json:"isDefault"`
	CreatedAt      string          `json:"createdAt"`
	UpdatedAt      string          `json:"updatedAt"`
}

func NewAccount(acc *ledger_core.Account) *Account {
	return &Account{
		Id:             acc.ID,
		Name:           acc.Name,
		Type:           acc.Type,
		Balance:        acc.Balance.Decimal,
		InitialBalance: acc.InitialBalance.Decimal,
		Icon:           acc.Icon,
		Color:          acc.Color,
		Description:    acc.Description,
		IsDefault:      acc.IsDefault,
		CreatedAt:      acc.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      acc.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type AccountCreateRequest struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Icon           string          `json:"icon"`
	Color          string          `json:"color"`
	Description    string          `json:"description"`
	IsDefault      bool            `json:"isDefault"`
}

type AccountResponse struct {
	Data *Account `json:"data"`
}

type AccountGetRequest struct {
	Id string `json:"id"`
}

type AccountListRequest struct{}

type AccountListResponse struct {
	Data []*Account `json:"data"`
}

type AccountDeleteRequest struct {
	Id string `json:"id"`
}

type AccountDeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// AccountVerifyRequest audits one account, or every account when Id is empty.
type AccountVerifyRequest struct {
	Id string `json:"id"`
}

type AccountDrift struct {
	AccountId  string          `json:"accountId"`
	Balance    decimal.Decimal `json:"balance"`
	Expected   decimal.Decimal `json:"expected"`
	Drift      decimal.Decimal `json:"drift"`
	Consistent bool            `json:"consistent"`
}

type AccountVerifyResponse struct {
	Data []*AccountDrift `json:"data"`
}
