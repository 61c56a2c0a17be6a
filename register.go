package bookkeeping_service

import (
	"net/http"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/account"
	"github.com/pdcgo/bookkeeping_service/entry"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/pdcgo/bookkeeping_service/lookup"
	"github.com/pdcgo/bookkeeping_service/reimbursement"
	"github.com/pdcgo/bookkeeping_service/workflow"
	"gorm.io/gorm"
)

type RegisterHandler func()

func NewRegister(
	db *gorm.DB,
	mux *http.ServeMux,
	book *ledger_core.Book,
	names *lookup.NameResolver,
) RegisterHandler {

	return func() {
		enricher := lookup.NewEnricher(db, names)
		interceptor := connect.WithInterceptors(NewLoggingInterceptor())

		path, handler := ledger_iface.NewEntryServiceHandler(entry.NewEntryService(db, book, enricher), interceptor)
		mux.Handle(path, handler)

		path, handler = ledger_iface.NewWorkflowServiceHandler(workflow.NewWorkflowService(db, book, enricher), interceptor)
		mux.Handle(path, handler)

		path, handler = ledger_iface.NewReimbursementServiceHandler(
			reimbursement.NewReimbursementService(reimbursement.NewBatchManager(db, book)),
			interceptor,
		)
		mux.Handle(path, handler)

		path, handler = ledger_iface.NewAccountServiceHandler(account.NewAccountService(db, book, names), interceptor)
		mux.Handle(path, handler)
	}

}
