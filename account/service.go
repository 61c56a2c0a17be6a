package account

import (
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/pdcgo/bookkeeping_service/lookup"
	"gorm.io/gorm"
)

type accountServiceImpl struct {
	db    *gorm.DB
	book  *ledger_core.Book
	names *lookup.NameResolver
}

func NewAccountService(db *gorm.DB, book *ledger_core.Book, names *lookup.NameResolver) ledger_iface.AccountServiceHandler {
	return &accountServiceImpl{
		db:    db,
		book:  book,
		names: names,
	}
}
