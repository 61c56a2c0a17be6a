package ledger_core

import (
	"context"
	"time"
)

const (
	EntryCreatedEvent          = "entry.created"
	EntryUpdatedEvent          = "entry.updated"
	EntryDeletedEvent          = "entry.deleted"
	EntryPaymentConfirmedEvent = "entry.payment_confirmed"
	EntryInvoiceConfirmedEvent = "entry.invoice_confirmed"
	EntryInvoiceSkippedEvent   = "entry.invoice_skipped"
	EntryTaxDeclaredEvent      = "entry.tax_declared"

	BatchCreatedEvent   = "reimbursement.created"
	BatchCompletedEvent = "reimbursement.completed"
	BatchDeletedEvent   = "reimbursement.deleted"
)

// EventSink receives fire-and-forget notifications after a unit of work commits.
type EventSink interface {
	Emit(ctx context.Context, name string, payload any) error
}

type EntryEventPayload struct {
	ID   string    `json:"id"`
	Type EntryType `json:"type,omitempty"`
}

type BatchEventPayload struct {
	ID         string   `json:"id"`
	BatchNo    string   `json:"batch_no"`
	EntryIDs   []string `json:"entry_ids,omitempty"`
	FeeEntryID *string  `json:"fee_entry_id,omitempty"`
}

type Event struct {
	Name       string    `json:"name"`
	Payload    any       `json:"payload"`
	OccurredAt time.Time `json:"occurred_at"`
}

type nopSink struct{}

// Emit implements EventSink.
func (nopSink) Emit(ctx context.Context, name string, payload any) error {
	return nil
}

func NewNopSink() EventSink {
	return nopSink{}
}
