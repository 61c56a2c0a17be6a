package entry_test

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/pdcgo/bookkeeping_service/entry"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_iface"
	"github.com/pdcgo/bookkeeping_service/ledger_mock"
	"github.com/pdcgo/bookkeeping_service/ledger_model"
	"github.com/pdcgo/bookkeeping_service/lookup"
	"github.com/pdcgo/shared/pkg/moretest"
	"github.com/pdcgo/shared/pkg/moretest/moretest_mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func strPtr(s string) *string {
	return &s
}

func newService(db *gorm.DB, sink ledger_core.EventSink) ledger_iface.EntryServiceHandler {
	book := ledger_core.NewBook(db, ledger_core.WithEventSink(sink))
	enricher := lookup.NewEnricher(db, lookup.NewNameResolver(db, nil, 0))
	return entry.NewEntryService(db, book, enricher)
}

func TestEntryCreate(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "create entry",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
			ledger_mock.PopulateCategory(&db, "cat_food", "Food", ledger_model.ExpenseCategory),
		},
		func(t *testing.T) {
			sink := ledger_mock.NewRecordingSink()
			service := newService(&db, sink)
			ctx := context.Background()

			res, err := service.EntryCreate(ctx, connect.NewRequest(&ledger_iface.EntryCreateRequest{
				Type:        "expense",
				Amount:      decimal.RequireFromString("120.50"),
				Date:        "2024-04-10",
				CategoryId:  "cat_food",
				AccountId:   "acc_a",
				ToAccountId: strPtr("acc_b"),
				Description: "team lunch",
				Tags:        []string{"meal"},
				Attachments: []*ledger_iface.Attachment{
					{Name: "receipt.jpg", Url: "https://files.local/receipt.jpg", Type: "image/jpeg", Size: 300},
				},
			}))
			assert.Nil(t, err)

			item := res.Msg.Data
			assert.NotEmpty(t, item.Id)
			assert.Equal(t, "Food", item.CategoryName)
			assert.Equal(t, "Cash", item.AccountName)
			assert.Nil(t, item.ToAccountId)
			assert.True(t, item.InvoiceNeeded)
			assert.False(t, item.PaymentConfirmed)
			assert.Equal(t, []string{"meal"}, item.Tags)
			assert.Len(t, item.Attachments, 1)
			assert.Equal(t, "879.5", ledger_mock.Balance(t, &db, "acc_a").String())
			assert.Equal(t, []string{ledger_core.EntryCreatedEvent}, sink.Names())

			t.Run("confirmed on create stamps the time", func(t *testing.T) {
				res, err := service.EntryCreate(ctx, connect.NewRequest(&ledger_iface.EntryCreateRequest{
					Type:               "income",
					Amount:             decimal.NewFromInt(10),
					Date:               "2024-04-11",
					AccountId:          "acc_a",
					PaymentConfirmed:   true,
					PaymentAccountType: strPtr("company"),
					InvoiceNeeded:      new(bool),
				}))
				assert.Nil(t, err)
				assert.NotNil(t, res.Msg.Data.PaymentConfirmedAt)
				assert.False(t, res.Msg.Data.InvoiceNeeded)
			})

			t.Run("invalid date", func(t *testing.T) {
				_, err := service.EntryCreate(ctx, connect.NewRequest(&ledger_iface.EntryCreateRequest{
					Type:      "income",
					Amount:    decimal.NewFromInt(10),
					Date:      "10/04/2024",
					AccountId: "acc_a",
				}))
				assert.ErrorIs(t, err, ledger_core.ErrValidation)
			})

			t.Run("unknown payment account type", func(t *testing.T) {
				_, err := service.EntryCreate(ctx, connect.NewRequest(&ledger_iface.EntryCreateRequest{
					Type:               "expense",
					Amount:             decimal.NewFromInt(10),
					Date:               "2024-04-11",
					AccountId:          "acc_a",
					PaymentAccountType: strPtr("credit"),
				}))
				assert.ErrorIs(t, err, ledger_core.ErrValidation)
			})
		},
	)
}

func TestEntryGetUpdateDelete(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "entry lifecycle",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
			ledger_mock.PopulateAccount(&db, "acc_b", "Bank", 0),
		},
		func(t *testing.T) {
			sink := ledger_mock.NewRecordingSink()
			service := newService(&db, sink)
			ctx := context.Background()

			created, err := service.EntryCreate(ctx, connect.NewRequest(&ledger_iface.EntryCreateRequest{
				Type:        "transfer",
				Amount:      decimal.NewFromInt(300),
				Date:        "2024-04-10",
				AccountId:   "acc_a",
				ToAccountId: strPtr("acc_b"),
				Attachments: []*ledger_iface.Attachment{
					{Name: "a.pdf", Url: "https://files.local/a.pdf"},
				},
			}))
			assert.Nil(t, err)
			id := created.Msg.Data.Id

			t.Run("get", func(t *testing.T) {
				res, err := service.EntryGet(ctx, connect.NewRequest(&ledger_iface.EntryGetRequest{Id: id}))
				assert.Nil(t, err)
				assert.Equal(t, "Bank", res.Msg.Data.ToAccountName)
			})

			t.Run("get missing", func(t *testing.T) {
				_, err := service.EntryGet(ctx, connect.NewRequest(&ledger_iface.EntryGetRequest{Id: "nope"}))
				assert.ErrorIs(t, err, ledger_core.ErrNotFound)
			})

			t.Run("update amount and replace attachments", func(t *testing.T) {
				amount := decimal.NewFromInt(100)
				attachments := []*ledger_iface.Attachment{
					{Name: "b.pdf", Url: "https://files.local/b.pdf"},
					{Name: "c.pdf", Url: "https://files.local/c.pdf"},
				}
				res, err := service.EntryUpdate(ctx, connect.NewRequest(&ledger_iface.EntryUpdateRequest{
					Id:          id,
					Amount:      &amount,
					Attachments: &attachments,
				}))
				assert.Nil(t, err)
				assert.Len(t, res.Msg.Data.Attachments, 2)
				assert.Equal(t, "900", ledger_mock.Balance(t, &db, "acc_a").String())
				assert.Equal(t, "100", ledger_mock.Balance(t, &db, "acc_b").String())
			})

			t.Run("update into invalid shape rolls back", func(t *testing.T) {
				_, err := service.EntryUpdate(ctx, connect.NewRequest(&ledger_iface.EntryUpdateRequest{
					Id:          id,
					ToAccountId: strPtr("acc_a"),
				}))
				assert.ErrorIs(t, err, ledger_core.ErrValidation)
				assert.Equal(t, "900", ledger_mock.Balance(t, &db, "acc_a").String())
			})

			t.Run("delete", func(t *testing.T) {
				res, err := service.EntryDelete(ctx, connect.NewRequest(&ledger_iface.EntryDeleteRequest{Id: id}))
				assert.Nil(t, err)
				assert.True(t, res.Msg.Deleted)
				assert.Equal(t, "1000", ledger_mock.Balance(t, &db, "acc_a").String())
				assert.Equal(t, "0", ledger_mock.Balance(t, &db, "acc_b").String())

				var count int64
				err = db.Model(&ledger_core.Attachment{}).Where("entry_id = ?", id).Count(&count).Error
				assert.Nil(t, err)
				assert.Equal(t, int64(0), count)
			})

			t.Run("delete missing", func(t *testing.T) {
				_, err := service.EntryDelete(ctx, connect.NewRequest(&ledger_iface.EntryDeleteRequest{Id: id}))
				assert.ErrorIs(t, err, ledger_core.ErrNotFound)
			})

			assert.Equal(t, []string{
				ledger_core.EntryCreatedEvent,
				ledger_core.EntryUpdatedEvent,
				ledger_core.EntryDeletedEvent,
			}, sink.Names())
		},
	)
}

func TestEntryIncomeRecord(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "income record images and company account date",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
		},
		func(t *testing.T) {
			service := newService(&db, ledger_mock.NewRecordingSink())
			ctx := context.Background()

			created, err := service.EntryCreate(ctx, connect.NewRequest(&ledger_iface.EntryCreateRequest{
				Type:          "income",
				Amount:        decimal.NewFromInt(450),
				Date:          "2024-06-03",
				AccountId:     "acc_a",
				InvoiceIssued: true,
				InvoiceImages: []*ledger_iface.Attachment{
					{Id: "img_1", Name: "invoice.jpg", Url: "https://files.local/invoice.jpg", Type: "image/jpeg", Size: 512},
				},
				CompanyAccountDate: strPtr("2024-06-05"),
				CompanyAccountImages: []*ledger_iface.Attachment{
					{Id: "img_2", Name: "bank.png", Url: "https://files.local/bank.png", Type: "image/png"},
				},
			}))
			assert.Nil(t, err)

			data := created.Msg.Data
			assert.Len(t, data.InvoiceImages, 1)
			assert.Equal(t, "invoice.jpg", data.InvoiceImages[0].Name)
			assert.Equal(t, int64(512), data.InvoiceImages[0].Size)
			assert.Equal(t, "2024-06-05", *data.CompanyAccountDate)
			assert.Len(t, data.CompanyAccountImages, 1)
			assert.Nil(t, data.PaymentConfirmedAt)

			t.Run("get returns stored images", func(t *testing.T) {
				res, err := service.EntryGet(ctx, connect.NewRequest(&ledger_iface.EntryGetRequest{Id: data.Id}))
				assert.Nil(t, err)
				assert.Equal(t, "img_1", res.Msg.Data.InvoiceImages[0].Id)
				assert.Equal(t, "https://files.local/bank.png", res.Msg.Data.CompanyAccountImages[0].Url)
			})

			t.Run("entry without images lists none", func(t *testing.T) {
				res, err := service.EntryCreate(ctx, connect.NewRequest(&ledger_iface.EntryCreateRequest{
					Type:      "income",
					Amount:    decimal.NewFromInt(1),
					Date:      "2024-06-03",
					AccountId: "acc_a",
				}))
				assert.Nil(t, err)
				assert.NotNil(t, res.Msg.Data.InvoiceImages)
				assert.Empty(t, res.Msg.Data.InvoiceImages)
				assert.Nil(t, res.Msg.Data.CompanyAccountDate)
			})

			t.Run("patch replaces images and clears the date", func(t *testing.T) {
				images := []*ledger_iface.Attachment{
					{Name: "invoice-v2.jpg", Url: "https://files.local/invoice-v2.jpg"},
					{Name: "invoice-v2-back.jpg", Url: "https://files.local/invoice-v2-back.jpg"},
				}
				res, err := service.EntryUpdate(ctx, connect.NewRequest(&ledger_iface.EntryUpdateRequest{
					Id:                 data.Id,
					InvoiceImages:      &images,
					CompanyAccountDate: strPtr(""),
				}))
				assert.Nil(t, err)
				assert.Len(t, res.Msg.Data.InvoiceImages, 2)
				assert.Nil(t, res.Msg.Data.CompanyAccountDate)
				assert.Len(t, res.Msg.Data.CompanyAccountImages, 1)
			})

			t.Run("patch confirming payment stamps the time", func(t *testing.T) {
				confirmed := true
				res, err := service.EntryUpdate(ctx, connect.NewRequest(&ledger_iface.EntryUpdateRequest{
					Id:                 data.Id,
					PaymentConfirmed:   &confirmed,
					PaymentAccountType: strPtr("company"),
				}))
				assert.Nil(t, err)
				assert.True(t, res.Msg.Data.PaymentConfirmed)
				assert.NotNil(t, res.Msg.Data.PaymentConfirmedAt)
				stamped := *res.Msg.Data.PaymentConfirmedAt

				res, err = service.EntryUpdate(ctx, connect.NewRequest(&ledger_iface.EntryUpdateRequest{
					Id:                 data.Id,
					PaymentConfirmed:   &confirmed,
					CompanyAccountDate: strPtr("2024-06-07"),
				}))
				assert.Nil(t, err)
				assert.Equal(t, stamped, *res.Msg.Data.PaymentConfirmedAt)
				assert.Equal(t, "2024-06-07", *res.Msg.Data.CompanyAccountDate)
			})

			t.Run("invalid company account date", func(t *testing.T) {
				_, err := service.EntryUpdate(ctx, connect.NewRequest(&ledger_iface.EntryUpdateRequest{
					Id:                 data.Id,
					CompanyAccountDate: strPtr("June 5th"),
				}))
				assert.ErrorIs(t, err, ledger_core.ErrValidation)
			})
		},
	)
}

func TestEntryList(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "list entries",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
			ledger_mock.PopulateAccount(&db, "acc_b", "Bank", 1000),
		},
		func(t *testing.T) {
			service := newService(&db, ledger_core.NewNopSink())
			ctx := context.Background()

			seed := []*ledger_iface.EntryCreateRequest{
				{Type: "income", Amount: decimal.NewFromInt(500), Date: "2024-01-05", AccountId: "acc_a", Description: "Consulting invoice"},
				{Type: "expense", Amount: decimal.NewFromInt(40), Date: "2024-01-20", AccountId: "acc_a", Description: "Taxi"},
				{Type: "expense", Amount: decimal.NewFromInt(75), Date: "2024-02-02", AccountId: "acc_b", Description: "Software license"},
				{Type: "transfer", Amount: decimal.NewFromInt(200), Date: "2024-02-15", AccountId: "acc_b", ToAccountId: strPtr("acc_a"), Description: "top up"},
			}
			for _, req := range seed {
				_, err := service.EntryCreate(ctx, connect.NewRequest(req))
				assert.Nil(t, err)
			}

			list := func(req *ledger_iface.EntryListRequest) *ledger_iface.EntryListResponse {
				res, err := service.EntryList(ctx, connect.NewRequest(req))
				assert.Nil(t, err)
				return res.Msg
			}

			t.Run("ordered newest first", func(t *testing.T) {
				res := list(&ledger_iface.EntryListRequest{})
				assert.Equal(t, int64(4), res.PageInfo.TotalItems)
				assert.Equal(t, "top up", res.Data[0].Description)
				assert.Equal(t, "Consulting invoice", res.Data[3].Description)
			})

			t.Run("filter type", func(t *testing.T) {
				res := list(&ledger_iface.EntryListRequest{Type: "expense"})
				assert.Len(t, res.Data, 2)
			})

			t.Run("filter account includes transfer destination", func(t *testing.T) {
				res := list(&ledger_iface.EntryListRequest{AccountId: "acc_a"})
				assert.Len(t, res.Data, 3)
			})

			t.Run("filter date range inclusive", func(t *testing.T) {
				res := list(&ledger_iface.EntryListRequest{DateStart: "2024-01-20", DateEnd: "2024-02-02"})
				assert.Len(t, res.Data, 2)
			})

			t.Run("filter keyword", func(t *testing.T) {
				res := list(&ledger_iface.EntryListRequest{Keyword: "license"})
				assert.Len(t, res.Data, 1)
				assert.Equal(t, "Software license", res.Data[0].Description)
			})

			t.Run("filter amount range", func(t *testing.T) {
				minAmount := decimal.NewFromInt(50)
				maxAmount := decimal.NewFromInt(300)
				res := list(&ledger_iface.EntryListRequest{AmountMin: &minAmount, AmountMax: &maxAmount})
				assert.Len(t, res.Data, 2)
			})

			t.Run("pagination", func(t *testing.T) {
				res := list(&ledger_iface.EntryListRequest{Page: 2, PageSize: 3})
				assert.Len(t, res.Data, 1)
				assert.Equal(t, 2, res.PageInfo.TotalPage)
				assert.Equal(t, "Consulting invoice", res.Data[0].Description)
			})
		},
	)
}
