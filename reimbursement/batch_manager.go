package reimbursement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CreatePayload struct {
	EmployeeName string
	EntryIDs     []string
	Note         string
}

type CompletePayload struct {
	CompletedDate time.Time
	ActualAmount  *decimal.Decimal
	Fee           decimal.Decimal
	FeeAccountID  *string
}

// BatchManager drives the batch state machine: pending to completed, or
// pending to deleted. Completed is terminal.
type BatchManager struct {
	db   *gorm.DB
	book *ledger_core.Book
}

func NewBatchManager(db *gorm.DB, book *ledger_core.Book) *BatchManager {
	return &BatchManager{
		db:   db,
		book: book,
	}
}

func BatchNoPrefix(t time.Time) string {
	return "RB-" + t.UTC().Format("20060102") + "-"
}

func FeeDescription(batch *ledger_core.ReimbursementBatch) string {
	return fmt.Sprintf("reimbursement fee - %s (%s)", batch.BatchNo, batch.EmployeeName)
}

func (m *BatchManager) Create(ctx context.Context, pay *CreatePayload) (*ledger_core.ReimbursementBatch, error) {
	employee := strings.TrimSpace(pay.EmployeeName)
	if employee == "" {
		return nil, ledger_core.NewValidation("employee_name", "employee name is required")
	}
	if len(pay.EntryIDs) == 0 {
		return nil, ledger_core.NewValidation("entry_ids", "at least one entry is required")
	}

	seen := map[string]bool{}
	for _, id := range pay.EntryIDs {
		if seen[id] {
			return nil, ledger_core.NewEntryValidation(id, "entry listed twice")
		}
		seen[id] = true
	}

	var batch *ledger_core.ReimbursementBatch
	err := m.book.OpenTransaction(ctx, "reimbursement.create", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		now := bookmng.Now()
		prefix := BatchNoPrefix(now)

		err := bookmng.Lock(ledger_core.BatchNoLockKey(prefix))
		if err != nil {
			return err
		}
		err = bookmng.Lock(entryLockKeys(pay.EntryIDs)...)
		if err != nil {
			return err
		}

		entries := []*ledger_core.Entry{}
		err = tx.
			Clauses(clause.Locking{
				Strength: "UPDATE",
			}).
			Model(&ledger_core.Entry{}).
			Where("id IN ?", pay.EntryIDs).
			Find(&entries).
			Error

		if err != nil {
			return err
		}

		entryMap := map[string]*ledger_core.Entry{}
		for _, entry := range entries {
			entryMap[entry.ID] = entry
		}

		total := decimal.Zero
		for _, id := range pay.EntryIDs {
			entry := entryMap[id]
			err = checkEligible(id, entry)
			if err != nil {
				return err
			}
			total = total.Add(entry.Amount.Decimal)
		}

		batchNo, err := nextBatchNo(tx, prefix)
		if err != nil {
			return err
		}

		batch = &ledger_core.ReimbursementBatch{
			ID:           uuid.New().String(),
			BatchNo:      batchNo,
			EmployeeName: employee,
			EntryIDs:     datatypes.JSONSlice[string](pay.EntryIDs),
			TotalAmount:  ledger_core.NewMoney(total.Round(2)),
			Status:       ledger_core.BatchPending,
			Note:         pay.Note,
			Fee:          ledger_core.NewMoney(decimal.Zero),
			CreatedAt:    now,
		}

		err = tx.Create(batch).Error
		if err != nil {
			return err
		}

		err = tx.
			Model(&ledger_core.Entry{}).
			Where("id IN ?", pay.EntryIDs).
			Updates(map[string]any{
				"reimbursement_batch_id": batch.ID,
				"reimbursement_status":   ledger_core.ReimbursementPending,
				"updated_at":             now,
			}).
			Error

		if err != nil {
			return err
		}

		bookmng.Emit(ledger_core.BatchCreatedEvent, &ledger_core.BatchEventPayload{
			ID:       batch.ID,
			BatchNo:  batch.BatchNo,
			EntryIDs: pay.EntryIDs,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return batch, nil
}

func checkEligible(id string, entry *ledger_core.Entry) error {
	switch {
	case entry == nil:
		return ledger_core.NewEntryValidation(id, "entry does not exist")
	case entry.Type != ledger_core.ExpenseEntry:
		return ledger_core.NewEntryValidation(id, "entry is not an expense")
	case entry.PaymentAccountType == nil || *entry.PaymentAccountType != ledger_core.PersonalPayment:
		return ledger_core.NewEntryValidation(id, "entry was not paid personally")
	case entry.ReimbursementBatchID != nil && *entry.ReimbursementBatchID != "":
		return ledger_core.NewEntryValidation(id, "entry already belongs to batch "+*entry.ReimbursementBatchID)
	default:
		return nil
	}
}

// nextBatchNo numbers batches per UTC day starting from one more than the
// day's batch count. A number freed by deletion is skipped over, not reused.
func nextBatchNo(tx *gorm.DB, prefix string) (string, error) {
	var count int64
	err := tx.
		Model(&ledger_core.ReimbursementBatch{}).
		Where("batch_no LIKE ?", prefix+"%").
		Count(&count).
		Error

	if err != nil {
		return "", err
	}

	for seq := count + 1; ; seq++ {
		batchNo := fmt.Sprintf("%s%03d", prefix, seq)

		var taken int64
		err = tx.
			Model(&ledger_core.ReimbursementBatch{}).
			Where("batch_no = ?", batchNo).
			Count(&taken).
			Error

		if err != nil {
			return "", err
		}
		if taken == 0 {
			return batchNo, nil
		}
	}
}

func entryLockKeys(ids []string) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, ledger_core.EntryLockKey(id))
	}
	return keys
}

// lockPending locks the batch and returns it only when it is still pending.
func lockPending(tx *gorm.DB, bookmng ledger_core.BookManage, id string) (*ledger_core.ReimbursementBatch, error) {
	err := bookmng.Lock(ledger_core.BatchLockKey(id))
	if err != nil {
		return nil, err
	}

	var batch ledger_core.ReimbursementBatch
	err = tx.
		Clauses(clause.Locking{
			Strength: "UPDATE",
		}).
		Model(&ledger_core.ReimbursementBatch{}).
		Where("id = ?", id).
		Limit(1).
		Find(&batch).
		Error

	if err != nil {
		return nil, err
	}

	if batch.ID == "" || batch.Status != ledger_core.BatchPending {
		return nil, nil
	}

	err = bookmng.Lock(entryLockKeys(batch.EntryIDs)...)
	if err != nil {
		return nil, err
	}

	return &batch, nil
}

func (m *BatchManager) Complete(ctx context.Context, id string, pay *CompletePayload) (*ledger_core.ReimbursementBatch, error) {
	if pay.Fee.IsNegative() {
		return nil, ledger_core.NewValidation("fee", "fee must not be negative")
	}
	if pay.ActualAmount != nil && pay.ActualAmount.IsNegative() {
		return nil, ledger_core.NewValidation("actual_amount", "actual amount must not be negative")
	}

	fee := pay.Fee.Round(2)
	feeAccountID := ""
	if pay.FeeAccountID != nil {
		feeAccountID = *pay.FeeAccountID
	}

	var batch *ledger_core.ReimbursementBatch
	err := m.book.OpenTransaction(ctx, "reimbursement.complete", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		var err error
		batch, err = lockPending(tx, bookmng, id)
		if err != nil {
			return err
		}
		if batch == nil {
			return ledger_core.NewNotFound("pending reimbursement batch", id)
		}

		if fee.IsPositive() && feeAccountID == "" {
			return ledger_core.NewValidation("fee_account_id", "fee account is required when fee is above zero")
		}

		now := bookmng.Now()
		completedDate := pay.CompletedDate
		if completedDate.IsZero() {
			completedDate = now.UTC().Truncate(24 * time.Hour)
		}

		err = tx.
			Model(&ledger_core.Entry{}).
			Where("reimbursement_batch_id = ?", batch.ID).
			Updates(map[string]any{
				"reimbursement_status": ledger_core.ReimbursementCompleted,
				"payment_confirmed":    true,
				"payment_confirmed_at": now,
				"updated_at":           now,
			}).
			Error

		if err != nil {
			return err
		}

		if fee.IsPositive() {
			companyPayment := ledger_core.CompanyPayment
			feeEntry := &ledger_core.Entry{
				Type:               ledger_core.ExpenseEntry,
				Amount:             ledger_core.NewMoney(fee),
				EntryDate:          completedDate,
				AccountID:          feeAccountID,
				Description:        FeeDescription(batch),
				PaymentConfirmed:   true,
				PaymentAccountType: &companyPayment,
				InvoiceNeeded:      false,
			}

			err = bookmng.
				NewEntryMutation().
				Create(feeEntry, nil).
				Err()

			if err != nil {
				if errors.Is(err, ledger_core.ErrNotFound) {
					return ledger_core.NewValidation("fee_account_id", "fee account "+feeAccountID+" does not exist")
				}
				return err
			}

			batch.FeeEntryID = &feeEntry.ID
		}

		actual := batch.TotalAmount
		if pay.ActualAmount != nil {
			actual = ledger_core.NewMoney(*pay.ActualAmount)
		}

		batch.Status = ledger_core.BatchCompleted
		batch.CompletedAt = &now
		batch.CompletedDate = &completedDate
		batch.ActualAmount = &actual
		batch.Fee = ledger_core.NewMoney(fee)

		err = tx.Save(batch).Error
		if err != nil {
			return err
		}

		bookmng.Emit(ledger_core.BatchCompletedEvent, &ledger_core.BatchEventPayload{
			ID:         batch.ID,
			BatchNo:    batch.BatchNo,
			EntryIDs:   batch.EntryIDs,
			FeeEntryID: batch.FeeEntryID,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}
	return batch, nil
}

// Delete unlinks the member entries and removes a pending batch. It reports
// false, without error, when the batch is absent or no longer pending.
func (m *BatchManager) Delete(ctx context.Context, id string) (bool, error) {
	deleted := false
	err := m.book.OpenTransaction(ctx, "reimbursement.delete", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		batch, err := lockPending(tx, bookmng, id)
		if err != nil {
			return err
		}
		if batch == nil {
			return ledger_core.ErrSkipTransaction
		}

		err = tx.
			Model(&ledger_core.Entry{}).
			Where("reimbursement_batch_id = ?", batch.ID).
			Updates(map[string]any{
				"reimbursement_batch_id": nil,
				"reimbursement_status":   nil,
				"updated_at":             bookmng.Now(),
			}).
			Error

		if err != nil {
			return err
		}

		err = tx.Where("id = ?", batch.ID).Delete(&ledger_core.ReimbursementBatch{}).Error
		if err != nil {
			return err
		}

		deleted = true
		bookmng.Emit(ledger_core.BatchDeletedEvent, &ledger_core.BatchEventPayload{
			ID:       batch.ID,
			BatchNo:  batch.BatchNo,
			EntryIDs: batch.EntryIDs,
		})
		return nil
	})

	return deleted, err
}

func (m *BatchManager) Get(ctx context.Context, id string) (*ledger_core.ReimbursementBatch, error) {
	var batch ledger_core.ReimbursementBatch
	err := m.db.
		WithContext(ctx).
		Model(&ledger_core.ReimbursementBatch{}).
		Where("id = ?", id).
		Limit(1).
		Find(&batch).
		Error

	if err != nil {
		return nil, err
	}
	if batch.ID == "" {
		return nil, ledger_core.NewNotFound("reimbursement batch", id)
	}
	return &batch, nil
}

func (m *BatchManager) List(ctx context.Context, status ledger_core.BatchStatus, page ledger_core.PageQuery) ([]*ledger_core.ReimbursementBatch, *ledger_core.PageInfo, error) {
	batches := []*ledger_core.ReimbursementBatch{}
	page = page.Normalize()

	query := m.db.
		WithContext(ctx).
		Model(&ledger_core.ReimbursementBatch{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	err := query.
		Session(&gorm.Session{}).
		Count(&total).
		Error

	if err != nil {
		return batches, ledger_core.NewPageInfo(page, 0), err
	}

	err = query.
		Order("created_at desc").
		Order("id desc").
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&batches).
		Error

	return batches, ledger_core.NewPageInfo(page, total), err
}

func (m *BatchManager) PendingCount(ctx context.Context) (int64, error) {
	var count int64
	err := m.db.
		WithContext(ctx).
		Model(&ledger_core.ReimbursementBatch{}).
		Where("status = ?", ledger_core.BatchPending).
		Count(&count).
		Error

	return count, err
}
