package ledger_core

import (
	"time"

	"gorm.io/datatypes"
)

type EntryType string

const (
	IncomeEntry   EntryType = "income"
	ExpenseEntry  EntryType = "expense"
	TransferEntry EntryType = "transfer"
)

func (t EntryType) Valid() bool {
	switch t {
	case IncomeEntry, ExpenseEntry, TransferEntry:
		return true
	default:
		return false
	}
}

type PaymentAccountType string

const (
	CompanyPayment  PaymentAccountType = "company"
	PersonalPayment PaymentAccountType = "personal"
)

func (p PaymentAccountType) Valid() bool {
	return p == CompanyPayment || p == PersonalPayment
}

type ReimbursementStatus string

const (
	ReimbursementPending   ReimbursementStatus = "pending"
	ReimbursementCompleted ReimbursementStatus = "completed"
)

type Account struct {
	ID             string          `json:"id" gorm:"primaryKey;size:36"`
	Name           string          `json:"name" gorm:"size:100"`
	Type           string          `json:"type" gorm:"size:20"`
	Balance        Money           `json:"balance"`
	InitialBalance Money           `json:"initial_balance"`
	Icon           string          `json:"icon" gorm:"size:50"`
	Color          string          `json:"color" gorm:"size:20"`
	Description    string          `json:"description" gorm:"size:500"`
	IsDefault      bool            `json:"is_default"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Entry struct {
	ID          string                      `json:"id" gorm:"primaryKey;size:36"`
	Type        EntryType                   `json:"type" gorm:"size:20;index"`
	Amount      Money                       `json:"amount"`
	EntryDate   time.Time                   `json:"entry_date" gorm:"index"`
	CategoryID  string                      `json:"category_id" gorm:"size:36;index"`
	AccountID   string                      `json:"account_id" gorm:"size:36;index"`
	ToAccountID *string                     `json:"to_account_id" gorm:"size:36"`
	Description string                      `json:"description" gorm:"size:500"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	InvoiceID   *string                     `json:"invoice_id" gorm:"size:36"`
	BookID      string                      `json:"book_id" gorm:"size:36"`

	PaymentConfirmed   bool                `json:"payment_confirmed" gorm:"index"`
	PaymentAccountType *PaymentAccountType `json:"payment_account_type" gorm:"size:20"`
	PayerName          *string             `json:"payer_name" gorm:"size:100"`
	PaymentConfirmedAt *time.Time          `json:"payment_confirmed_at"`

	InvoiceNeeded      bool       `json:"invoice_needed"`
	InvoiceCompleted   bool       `json:"invoice_completed"`
	InvoiceConfirmedAt *time.Time `json:"invoice_confirmed_at"`
	InvoiceIssued      bool       `json:"invoice_issued"`

	InvoiceImages        datatypes.JSONSlice[Attachment] `json:"invoice_images"`
	CompanyAccountDate   *time.Time                      `json:"company_account_date"`
	CompanyAccountImages datatypes.JSONSlice[Attachment] `json:"company_account_images"`

	TaxDeclared   bool       `json:"tax_declared" gorm:"index"`
	TaxDeclaredAt *time.Time `json:"tax_declared_at"`
	TaxPeriod     *string    `json:"tax_period" gorm:"size:20"`

	ReimbursementBatchID *string              `json:"reimbursement_batch_id" gorm:"size:36;index"`
	ReimbursementStatus  *ReimbursementStatus `json:"reimbursement_status" gorm:"size:20"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccountIDs returns every account the entry's balance effect touches.
func (e *Entry) AccountIDs() []string {
	ids := []string{e.AccountID}
	if e.Type == TransferEntry && e.ToAccountID != nil && *e.ToAccountID != "" {
		ids = append(ids, *e.ToAccountID)
	}
	return ids
}

type Attachment struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	EntryID string `json:"entry_id" gorm:"size:36;index"`
	Name    string `json:"name" gorm:"size:200"`
	Url     string `json:"url" gorm:"size:500"`
	Type    string `json:"type" gorm:"size:50"`
	Size    int64  `json:"size"`
}

type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchCompleted BatchStatus = "completed"
)

type ReimbursementBatch struct {
	ID            string                      `json:"id" gorm:"primaryKey;size:36"`
	BatchNo       string                      `json:"batch_no" gorm:"size:20;uniqueIndex"`
	EmployeeName  string                      `json:"employee_name" gorm:"size:100"`
	EntryIDs      datatypes.JSONSlice[string] `json:"entry_ids"`
	TotalAmount   Money                       `json:"total_amount"`
	Status        BatchStatus                 `json:"status" gorm:"size:20;index"`
	Note          string                      `json:"note" gorm:"size:500"`
	ActualAmount  *Money                      `json:"actual_amount"`
	Fee           Money                       `json:"fee"`
	FeeEntryID    *string                     `json:"fee_entry_id" gorm:"size:36"`
	CompletedDate *time.Time                  `json:"completed_date"`
	CreatedAt     time.Time                   `json:"created_at" gorm:"index"`
	CompletedAt   *time.Time                  `json:"completed_at"`
}

func AllModels() []any {
	return []any{
		&Account{},
		&Entry{},
		&Attachment{},
		&ReimbursementBatch{},
	}
}
