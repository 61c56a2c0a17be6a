package ledger_core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	ApplySign   int64 = 1
	ReverseSign int64 = -1
)

type AccountDelta struct {
	AccountID string
	Amount    decimal.Decimal
	// Destination side of a transfer; a missing account may be skipped.
	Destination bool
}

// BalanceEffect computes the per-account deltas of an entry. sign is
// ApplySign or ReverseSign.
func BalanceEffect(entry *Entry, sign int64) []*AccountDelta {
	amount := entry.Amount.Mul(decimal.NewFromInt(sign))

	switch entry.Type {
	case IncomeEntry:
		return []*AccountDelta{
			{AccountID: entry.AccountID, Amount: amount},
		}
	case ExpenseEntry:
		return []*AccountDelta{
			{AccountID: entry.AccountID, Amount: amount.Neg()},
		}
	case TransferEntry:
		deltas := []*AccountDelta{
			{AccountID: entry.AccountID, Amount: amount.Neg()},
		}
		if entry.ToAccountID != nil && *entry.ToAccountID != "" {
			deltas = append(deltas, &AccountDelta{
				AccountID:   *entry.ToAccountID,
				Amount:      amount,
				Destination: true,
			})
		}
		return deltas
	default:
		return []*AccountDelta{}
	}
}

type DestinationPolicy int

const (
	SkipMissingDestination DestinationPolicy = iota
	RejectMissingDestination
)

type Reconciler struct {
	tx     *gorm.DB
	policy DestinationPolicy
	now    func() time.Time
}

func NewReconciler(tx *gorm.DB, policy DestinationPolicy) *Reconciler {
	return &Reconciler{
		tx:     tx,
		policy: policy,
		now:    time.Now,
	}
}

func (r *Reconciler) Apply(entry *Entry) error {
	return r.post(entry, ApplySign)
}

func (r *Reconciler) Reverse(entry *Entry) error {
	return r.post(entry, ReverseSign)
}

func (r *Reconciler) post(entry *Entry, sign int64) error {
	for _, delta := range BalanceEffect(entry, sign) {
		err := AdjustBalance(r.tx, delta.AccountID, delta.Amount, r.now())
		if err == nil {
			continue
		}

		if delta.Destination && errors.Is(err, ErrNotFound) {
			// reversal always mirrors what apply did, so only apply can reject
			if sign == ApplySign && r.policy == RejectMissingDestination {
				return NewValidation("to_account_id", "destination account "+delta.AccountID+" not found")
			}
			continue
		}

		return err
	}

	return nil
}

// AdjustBalance locks the account row and adds delta to its balance.
func AdjustBalance(tx *gorm.DB, accountID string, delta decimal.Decimal, now time.Time) error {
	var acc Account
	err := tx.
		Clauses(clause.Locking{
			Strength: "UPDATE",
		}).
		Model(&Account{}).
		Where("id = ?", accountID).
		Limit(1).
		Find(&acc).
		Error

	if err != nil {
		return err
	}

	if acc.ID == "" {
		return NewNotFound("account", accountID)
	}

	return tx.
		Model(&Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"balance":    acc.Balance.Add(delta),
			"updated_at": now,
		}).
		Error
}
