package entry

import (
	"context"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/pdcgo/shared/db_connect"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EntryFilter struct {
	Type       ledger_core.EntryType
	CategoryID string
	// AccountID matches either side of a transfer.
	AccountID  string
	DateStart  *time.Time
	DateBefore *time.Time
	Keyword    string
	AmountMin  *decimal.Decimal
	AmountMax  *decimal.Decimal

	UnconfirmedPayment bool
	PendingInvoice     bool
	UndeclaredTax      bool
}

func NewEntryFilter(req *ledger_iface.EntryListRequest) (*EntryFilter, error) {
	filter := &EntryFilter{
		Type:       ledger_core.EntryType(req.Type),
		CategoryID: req.CategoryId,
		AccountID:  req.AccountId,
		Keyword:    req.Keyword,
		AmountMin:  req.AmountMin,
		AmountMax:  req.AmountMax,
	}

	if req.DateStart != "" {
		start, err := ledger_iface.ParseDate("dateStart", req.DateStart)
		if err != nil {
			return nil, err
		}
		filter.DateStart = &start
	}

	if req.DateEnd != "" {
		end, err := ledger_iface.ParseDate("dateEnd", req.DateEnd)
		if err != nil {
			return nil, err
		}
		// a bare date covers the whole day
		if len(req.DateEnd) == len(ledger_iface.DateLayout) {
			end = end.AddDate(0, 0, 1)
		} else {
			end = end.Add(time.Nanosecond)
		}
		filter.DateBefore = &end
	}

	return filter, nil
}

// ListEntries returns one page of entries ordered by date, then creation time,
// newest first, with id as the final tie breaker.
func ListEntries(ctx context.Context, db *gorm.DB, filter *EntryFilter, page ledger_core.PageQuery) ([]*ledger_core.Entry, *ledger_core.PageInfo, error) {
	entries := []*ledger_core.Entry{}
	page = page.Normalize()
	info := ledger_core.NewPageInfo(page, 0)

	db = db.WithContext(ctx)
	query, err := db_connect.NewQueryChain(db,
		func(db *gorm.DB, next db_connect.NextFunc) db_connect.NextFunc {
			return func(query *gorm.DB) (*gorm.DB, error) {
				return next(
					query.
						Model(&ledger_core.Entry{}),
				)
			}
		},
		func(db *gorm.DB, next db_connect.NextFunc) db_connect.NextFunc {
			return func(query *gorm.DB) (*gorm.DB, error) { // filter type, category, account
				if filter.Type != "" {
					query = query.Where("type = ?", filter.Type)
				}
				if filter.CategoryID != "" {
					query = query.Where("category_id = ?", filter.CategoryID)
				}
				if filter.AccountID != "" {
					query = query.Where("(account_id = ? or to_account_id = ?)", filter.AccountID, filter.AccountID)
				}
				return next(query)
			}
		},
		func(db *gorm.DB, next db_connect.NextFunc) db_connect.NextFunc {
			return func(query *gorm.DB) (*gorm.DB, error) { // filter time range
				if filter.DateStart != nil {
					query = query.Where("entry_date >= ?", *filter.DateStart)
				}
				if filter.DateBefore != nil {
					query = query.Where("entry_date < ?", *filter.DateBefore)
				}
				return next(query)
			}
		},
		func(db *gorm.DB, next db_connect.NextFunc) db_connect.NextFunc {
			return func(query *gorm.DB) (*gorm.DB, error) { // filter search keyword
				if filter.Keyword == "" {
					return next(query)
				}

				keyword := strings.ToLower(filter.Keyword)
				return next(
					query.
						Where("lower(description) like ?", "%"+keyword+"%"),
				)
			}
		},
		func(db *gorm.DB, next db_connect.NextFunc) db_connect.NextFunc {
			return func(query *gorm.DB) (*gorm.DB, error) { // filter amount range
				amount := ledger_core.NumericColumn(query, "amount")
				if filter.AmountMin != nil {
					query = query.Where(amount+" >= ?", *filter.AmountMin)
				}
				if filter.AmountMax != nil {
					query = query.Where(amount+" <= ?", *filter.AmountMax)
				}
				return next(query)
			}
		},
		func(db *gorm.DB, next db_connect.NextFunc) db_connect.NextFunc {
			return func(query *gorm.DB) (*gorm.DB, error) { // filter workflow state
				if filter.UnconfirmedPayment {
					query = query.Where("payment_confirmed = ?", false)
				}
				if filter.PendingInvoice {
					query = query.
						Where("invoice_needed = ?", true).
						Where("invoice_completed = ?", false)
				}
				if filter.UndeclaredTax {
					query = query.Where("tax_declared = ?", false)
				}
				return next(query)
			}
		},
		func(db *gorm.DB, next db_connect.NextFunc) db_connect.NextFunc {
			return func(query *gorm.DB) (*gorm.DB, error) { // paginate
				var total int64
				err := query.
					Session(&gorm.Session{}).
					Count(&total).
					Error

				if err != nil {
					return query, err
				}

				info = ledger_core.NewPageInfo(page, total)
				return next(
					query.
						Offset(page.Offset()).
						Limit(page.PageSize),
				)
			}
		},
		func(db *gorm.DB, next db_connect.NextFunc) db_connect.NextFunc {
			return func(query *gorm.DB) (*gorm.DB, error) { // sorting
				return next(
					query.
						Order("entry_date desc").
						Order("created_at desc").
						Order("id desc"),
				)
			}
		},
	)

	if err != nil {
		return entries, info, err
	}

	err = query.
		Find(&entries).
		Error

	return entries, info, err
}

// EntryList implements ledger_iface.EntryServiceHandler.
func (e *entryServiceImpl) EntryList(
	ctx context.Context,
	req *connect.Request[ledger_iface.EntryListRequest],
) (*connect.Response[ledger_iface.EntryListResponse], error) {
	result := ledger_iface.EntryListResponse{
		Data: []*ledger_iface.Entry{},
	}

	pay := req.Msg
	filter, err := NewEntryFilter(pay)
	if err != nil {
		return connect.NewResponse(&result), err
	}

	entries, info, err := ListEntries(ctx, e.db, filter, ledger_core.PageQuery{
		Page:     pay.Page,
		PageSize: pay.PageSize,
	})
	result.PageInfo = info
	if err != nil {
		return connect.NewResponse(&result), err
	}

	result.Data, err = e.enricher.Entries(ctx, entries)
	return connect.NewResponse(&result), err
}
