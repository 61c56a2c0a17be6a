package workflow

import (
	"context"
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/pdcgo/bookkeeping_service/lookup"
	"gorm.io/gorm"
)

type workflowServiceImpl struct {
	db       *gorm.DB
	book     *ledger_core.Book
	enricher *lookup.Enricher
}

func NewWorkflowService(db *gorm.DB, book *ledger_core.Book, enricher *lookup.Enricher) ledger_iface.WorkflowServiceHandler {
	return &workflowServiceImpl{
		db:       db,
		book:     book,
		enricher: enricher,
	}
}

type transitionFunc func(entry *ledger_core.Entry, now time.Time) error

// transition mutates one workflow facet of an entry. Calling it twice simply
// overwrites the timestamp.
func (w *workflowServiceImpl) transition(ctx context.Context, id string, event string, apply transitionFunc) (*ledger_iface.Entry, error) {
	var entry *ledger_core.Entry

	err := w.book.OpenTransaction(ctx, event, func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		mut := bookmng.
			NewEntryMutation().
			ByID(id, true)

		err := mut.Err()
		if err != nil {
			return err
		}

		entry = mut.Data()
		err = apply(entry, bookmng.Now())
		if err != nil {
			return err
		}

		err = mut.Save().Err()
		if err != nil {
			return err
		}

		bookmng.Emit(event, &ledger_core.EntryEventPayload{
			ID:   entry.ID,
			Type: entry.Type,
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return w.enricher.Entry(ctx, entry)
}
