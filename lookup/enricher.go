package lookup

import (
	"context"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"gorm.io/gorm"
)

// Enricher turns stored entries into wire entries with display names and
// their attachment list.
type Enricher struct {
	db    *gorm.DB
	names *NameResolver
}

func NewEnricher(db *gorm.DB, names *NameResolver) *Enricher {
	return &Enricher{
		db:    db,
		names: names,
	}
}

func (e *Enricher) Attachments(ctx context.Context, entryIDs ...string) (map[string][]*ledger_core.Attachment, error) {
	result := map[string][]*ledger_core.Attachment{}
	if len(entryIDs) == 0 {
		return result, nil
	}

	attachments := []*ledger_core.Attachment{}
	err := e.db.
		WithContext(ctx).
		Model(&ledger_core.Attachment{}).
		Where("entry_id IN ?", entryIDs).
		Order("id asc").
		Find(&attachments).
		Error

	if err != nil {
		return result, err
	}

	for _, att := range attachments {
		result[att.EntryID] = append(result[att.EntryID], att)
	}

	return result, nil
}

func (e *Enricher) Entry(ctx context.Context, entry *ledger_core.Entry) (*ledger_iface.Entry, error) {
	items, err := e.Entries(ctx, []*ledger_core.Entry{entry})
	if err != nil {
		return nil, err
	}
	return items[0], nil
}

func (e *Enricher) Entries(ctx context.Context, entries []*ledger_core.Entry) ([]*ledger_iface.Entry, error) {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}

	attachments, err := e.Attachments(ctx, ids...)
	if err != nil {
		return nil, err
	}

	result := make([]*ledger_iface.Entry, 0, len(entries))
	for _, entry := range entries {
		names := &ledger_iface.EntryNames{
			CategoryName: e.names.CategoryName(ctx, entry.CategoryID),
			AccountName:  e.names.AccountName(ctx, entry.AccountID),
		}
		if entry.ToAccountID != nil {
			names.ToAccountName = e.names.AccountName(ctx, *entry.ToAccountID)
		}

		result = append(result, ledger_iface.NewEntry(entry, names, attachments[entry.ID]))
	}

	return result, nil
}
