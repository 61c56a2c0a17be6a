package entry

import (
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/pdcgo/bookkeeping_service/lookup"
	"gorm.io/gorm"
)

type entryServiceImpl struct {
	db       *gorm.DB
	book     *ledger_core.Book
	enricher *lookup.Enricher
}

func NewEntryService(db *gorm.DB, book *ledger_core.Book, enricher *lookup.Enricher) ledger_iface.EntryServiceHandler {
	return &entryServiceImpl{
		db:       db,
		book:     book,
		enricher: enricher,
	}
}
