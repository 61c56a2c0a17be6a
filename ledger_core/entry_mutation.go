package ledger_core

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEntryNotLoaded = errors.New("entry not loaded")

type EntryPatch struct {
	Type               *EntryType
	Amount             *decimal.Decimal
	EntryDate          *time.Time
	CategoryID         *string
	AccountID          *string
	ToAccountID        *string
	Description        *string
	Tags               *[]string
	InvoiceID          *string
	BookID             *string
	PaymentConfirmed   *bool
	PaymentAccountType *PaymentAccountType
	PayerName          *string
	InvoiceNeeded      *bool
	InvoiceCompleted   *bool
	InvoiceIssued      *bool
	TaxDeclared        *bool
	TaxPeriod          *string
	Attachments        *[]*Attachment

	InvoiceImages        *[]Attachment
	CompanyAccountDate   *time.Time // zero time clears the date
	CompanyAccountImages *[]Attachment
}

func (p *EntryPatch) ApplyTo(entry *Entry) {
	if p.Type != nil {
		entry.Type = *p.Type
	}
	if p.Amount != nil {
		entry.Amount = NewMoney(*p.Amount)
	}
	if p.EntryDate != nil {
		entry.EntryDate = *p.EntryDate
	}
	if p.CategoryID != nil {
		entry.CategoryID = *p.CategoryID
	}
	if p.AccountID != nil {
		entry.AccountID = *p.AccountID
	}
	if p.ToAccountID != nil {
		if *p.ToAccountID == "" {
			entry.ToAccountID = nil
		} else {
			toID := *p.ToAccountID
			entry.ToAccountID = &toID
		}
	}
	if p.Description != nil {
		entry.Description = *p.Description
	}
	if p.Tags != nil {
		entry.Tags = datatypes.JSONSlice[string](*p.Tags)
	}
	if p.InvoiceID != nil {
		entry.InvoiceID = optionalString(*p.InvoiceID)
	}
	if p.BookID != nil {
		entry.BookID = *p.BookID
	}
	if p.PaymentConfirmed != nil {
		entry.PaymentConfirmed = *p.PaymentConfirmed
	}
	if p.PaymentAccountType != nil {
		if *p.PaymentAccountType == "" {
			entry.PaymentAccountType = nil
		} else {
			accType := *p.PaymentAccountType
			entry.PaymentAccountType = &accType
		}
	}
	if p.PayerName != nil {
		entry.PayerName = optionalString(*p.PayerName)
	}
	if p.InvoiceNeeded != nil {
		entry.InvoiceNeeded = *p.InvoiceNeeded
	}
	if p.InvoiceCompleted != nil {
		entry.InvoiceCompleted = *p.InvoiceCompleted
	}
	if p.InvoiceIssued != nil {
		entry.InvoiceIssued = *p.InvoiceIssued
	}
	if p.TaxDeclared != nil {
		entry.TaxDeclared = *p.TaxDeclared
	}
	if p.TaxPeriod != nil {
		entry.TaxPeriod = optionalString(*p.TaxPeriod)
	}
	if p.InvoiceImages != nil {
		entry.InvoiceImages = datatypes.JSONSlice[Attachment](*p.InvoiceImages)
	}
	if p.CompanyAccountDate != nil {
		if p.CompanyAccountDate.IsZero() {
			entry.CompanyAccountDate = nil
		} else {
			date := *p.CompanyAccountDate
			entry.CompanyAccountDate = &date
		}
	}
	if p.CompanyAccountImages != nil {
		entry.CompanyAccountImages = datatypes.JSONSlice[Attachment](*p.CompanyAccountImages)
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ValidateEntry checks the balance-relevant shape of an entry and normalizes
// the transfer destination.
func ValidateEntry(entry *Entry) error {
	if !entry.Type.Valid() {
		return NewValidation("type", "unknown entry type "+string(entry.Type))
	}
	if entry.Amount.IsNegative() {
		return NewValidation("amount", "amount must not be negative")
	}
	if entry.AccountID == "" {
		return NewValidation("account_id", "account is required")
	}
	if entry.EntryDate.IsZero() {
		return NewValidation("date", "date is required")
	}

	if entry.Type == TransferEntry {
		if entry.ToAccountID == nil || *entry.ToAccountID == "" {
			return NewValidation("to_account_id", "transfer needs a destination account")
		}
		if *entry.ToAccountID == entry.AccountID {
			return NewValidation("to_account_id", "transfer destination must differ from source")
		}
	} else {
		entry.ToAccountID = nil
	}

	if entry.PaymentAccountType != nil && !entry.PaymentAccountType.Valid() {
		return NewValidation("payment_account_type", "unknown payment account type "+string(*entry.PaymentAccountType))
	}

	return nil
}

type EntryMutation interface {
	ByID(id string, lock bool) EntryMutation
	Create(entry *Entry, attachments []*Attachment) EntryMutation
	Update(patch *EntryPatch) EntryMutation
	Delete() EntryMutation
	Save() EntryMutation
	Data() *Entry
	Err() error
}

type entryMutationImpl struct {
	tx      *gorm.DB
	bookmng BookManage
	data    *Entry
	err     error
}

// ByID implements EntryMutation.
func (m *entryMutationImpl) ByID(id string, lock bool) EntryMutation {
	if m.err != nil {
		return m
	}

	tx := m.tx
	if lock {
		err := m.bookmng.Lock(EntryLockKey(id))
		if err != nil {
			return m.setErr(err)
		}

		tx = tx.Clauses(clause.Locking{
			Strength: "UPDATE",
		})
	}

	m.data = &Entry{}
	err := tx.
		Model(&Entry{}).
		Where("id = ?", id).
		Limit(1).
		Find(m.data).
		Error

	if err != nil {
		return m.setErr(err)
	}

	if m.data.ID == "" {
		m.data = nil
		return m.setErr(NewNotFound("entry", id))
	}

	return m
}

// Create implements EntryMutation.
func (m *entryMutationImpl) Create(entry *Entry, attachments []*Attachment) EntryMutation {
	if m.err != nil {
		return m
	}

	err := ValidateEntry(entry)
	if err != nil {
		return m.setErr(err)
	}

	now := m.bookmng.Now()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Tags == nil {
		entry.Tags = datatypes.JSONSlice[string]{}
	}
	if entry.InvoiceImages == nil {
		entry.InvoiceImages = datatypes.JSONSlice[Attachment]{}
	}
	if entry.CompanyAccountImages == nil {
		entry.CompanyAccountImages = datatypes.JSONSlice[Attachment]{}
	}
	if entry.PaymentConfirmed && entry.PaymentConfirmedAt == nil {
		entry.PaymentConfirmedAt = &now
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now

	err = m.bookmng.LockAccounts(entry.AccountIDs()...)
	if err != nil {
		return m.setErr(err)
	}

	err = m.tx.Create(entry).Error
	if err != nil {
		return m.setErr(err)
	}

	err = m.saveAttachments(entry.ID, attachments)
	if err != nil {
		return m.setErr(err)
	}

	err = m.bookmng.Reconciler().Apply(entry)
	if err != nil {
		return m.setErr(err)
	}

	m.data = entry
	m.bookmng.Emit(EntryCreatedEvent, &EntryEventPayload{
		ID:   entry.ID,
		Type: entry.Type,
	})

	return m
}

// Update implements EntryMutation. The stored balance effect is always
// reversed and the patched one applied, whatever fields changed.
func (m *entryMutationImpl) Update(patch *EntryPatch) EntryMutation {
	if m.err != nil {
		return m
	}
	if m.data == nil {
		return m.setErr(ErrEntryNotLoaded)
	}

	old := m.data
	updated := *old
	patch.ApplyTo(&updated)

	now := m.bookmng.Now()
	if updated.PaymentConfirmed && !old.PaymentConfirmed {
		updated.PaymentConfirmedAt = &now
	}

	err := ValidateEntry(&updated)
	if err != nil {
		return m.setErr(err)
	}

	err = m.bookmng.LockAccounts(append(old.AccountIDs(), updated.AccountIDs()...)...)
	if err != nil {
		return m.setErr(err)
	}

	rec := m.bookmng.Reconciler()
	err = rec.Reverse(old)
	if err != nil {
		return m.setErr(err)
	}

	err = rec.Apply(&updated)
	if err != nil {
		return m.setErr(err)
	}

	updated.UpdatedAt = now
	err = m.tx.Save(&updated).Error
	if err != nil {
		return m.setErr(err)
	}

	if patch.Attachments != nil {
		err = m.tx.Where("entry_id = ?", updated.ID).Delete(&Attachment{}).Error
		if err != nil {
			return m.setErr(err)
		}

		err = m.saveAttachments(updated.ID, *patch.Attachments)
		if err != nil {
			return m.setErr(err)
		}
	}

	m.data = &updated
	m.bookmng.Emit(EntryUpdatedEvent, &EntryEventPayload{
		ID:   updated.ID,
		Type: updated.Type,
	})

	return m
}

// Delete implements EntryMutation.
func (m *entryMutationImpl) Delete() EntryMutation {
	if m.err != nil {
		return m
	}
	if m.data == nil {
		return m.setErr(ErrEntryNotLoaded)
	}

	entry := m.data
	err := m.bookmng.LockAccounts(entry.AccountIDs()...)
	if err != nil {
		return m.setErr(err)
	}

	err = m.bookmng.Reconciler().Reverse(entry)
	if err != nil {
		return m.setErr(err)
	}

	err = m.tx.Where("entry_id = ?", entry.ID).Delete(&Attachment{}).Error
	if err != nil {
		return m.setErr(err)
	}

	err = m.tx.Where("id = ?", entry.ID).Delete(&Entry{}).Error
	if err != nil {
		return m.setErr(err)
	}

	m.bookmng.Emit(EntryDeletedEvent, &EntryEventPayload{
		ID:   entry.ID,
		Type: entry.Type,
	})

	return m
}

// Save implements EntryMutation. It persists non balance fields only.
func (m *entryMutationImpl) Save() EntryMutation {
	if m.err != nil {
		return m
	}
	if m.data == nil {
		return m.setErr(ErrEntryNotLoaded)
	}

	m.data.UpdatedAt = m.bookmng.Now()
	err := m.tx.Save(m.data).Error
	if err != nil {
		return m.setErr(err)
	}
	return m
}

// Data implements EntryMutation.
func (m *entryMutationImpl) Data() *Entry {
	return m.data
}

// Err implements EntryMutation.
func (m *entryMutationImpl) Err() error {
	return m.err
}

func (m *entryMutationImpl) saveAttachments(entryID string, attachments []*Attachment) error {
	if len(attachments) == 0 {
		return nil
	}

	for _, att := range attachments {
		if att.ID == "" {
			att.ID = uuid.New().String()
		}
		att.EntryID = entryID
	}

	return m.tx.Create(&attachments).Error
}

func (m *entryMutationImpl) setErr(err error) *entryMutationImpl {
	if m.err != nil {
		return m
	}

	if err != nil {
		m.err = err
	}

	return m
}
