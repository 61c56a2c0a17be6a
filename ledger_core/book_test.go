package ledger_core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pdcgo/bookkeeping_service/account"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_mock"
	"github.com/pdcgo/shared/pkg/moretest"
	"github.com/pdcgo/shared/pkg/moretest/moretest_mock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func strPtr(s string) *string {
	return &s
}

func createEntry(book *ledger_core.Book, entry *ledger_core.Entry) error {
	return book.OpenTransaction(context.Background(), "test create", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		return bookmng.
			NewEntryMutation().
			Create(entry, nil).
			Err()
	})
}

func deleteEntry(book *ledger_core.Book, id string) error {
	return book.OpenTransaction(context.Background(), "test delete", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		return bookmng.
			NewEntryMutation().
			ByID(id, true).
			Delete().
			Err()
	})
}

func updateEntry(book *ledger_core.Book, id string, patch *ledger_core.EntryPatch) error {
	return book.OpenTransaction(context.Background(), "test update", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
		return bookmng.
			NewEntryMutation().
			ByID(id, true).
			Update(patch).
			Err()
	})
}

func TestBalanceRoundTrip(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "create then delete restores balance",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
			ledger_mock.PopulateAccount(&db, "acc_b", "Bank", 500),
		},
		func(t *testing.T) {
			book := ledger_core.NewBook(&db)

			cases := []*ledger_core.Entry{
				{Type: ledger_core.IncomeEntry, Amount: ledger_core.NewMoney(decimal.RequireFromString("150.35"))},
				{Type: ledger_core.ExpenseEntry, Amount: ledger_core.NewMoney(decimal.RequireFromString("0.1"))},
				{Type: ledger_core.TransferEntry, Amount: ledger_core.NewMoney(decimal.RequireFromString("333.33")), ToAccountID: strPtr("acc_b")},
			}

			for _, entry := range cases {
				t.Run("entry type "+string(entry.Type), func(t *testing.T) {
					beforeA := ledger_mock.Balance(t, &db, "acc_a")
					beforeB := ledger_mock.Balance(t, &db, "acc_b")

					entry.AccountID = "acc_a"
					entry.EntryDate = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

					err := createEntry(book, entry)
					assert.Nil(t, err)
					assert.NotEmpty(t, entry.ID)

					err = deleteEntry(book, entry.ID)
					assert.Nil(t, err)

					assert.True(t, beforeA.Equal(ledger_mock.Balance(t, &db, "acc_a")))
					assert.True(t, beforeB.Equal(ledger_mock.Balance(t, &db, "acc_b")))
				})
			}

			t.Run("high precision amounts are stored exactly", func(t *testing.T) {
				for _, raw := range []string{"0.123456789012345678", "12345678901234.5678", "0.000000000000000001"} {
					amount := decimal.RequireFromString(raw)
					before := ledger_mock.Balance(t, &db, "acc_a")

					entry := &ledger_core.Entry{
						Type:      ledger_core.IncomeEntry,
						Amount:    ledger_core.NewMoney(amount),
						EntryDate: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
						AccountID: "acc_a",
					}
					err := createEntry(book, entry)
					assert.Nil(t, err)

					var stored ledger_core.Entry
					err = db.Model(&ledger_core.Entry{}).Where("id = ?", entry.ID).First(&stored).Error
					assert.Nil(t, err)
					assert.Equal(t, raw, stored.Amount.String())
					assert.Equal(t, before.Add(amount).String(), ledger_mock.Balance(t, &db, "acc_a").String())

					err = deleteEntry(book, entry.ID)
					assert.Nil(t, err)
					assert.Equal(t, before.String(), ledger_mock.Balance(t, &db, "acc_a").String())
				}
			})
		},
	)
}

func TestConcurrentMutations(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "concurrent units of work keep balances consistent",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.SingleConnection(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
			ledger_mock.PopulateAccount(&db, "acc_b", "Bank", 1000),
		},
		func(t *testing.T) {
			book := ledger_core.NewBook(&db)
			date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
			workers := 20

			newEntry := func(entryType ledger_core.EntryType, amount string, from string, to *string) *ledger_core.Entry {
				return &ledger_core.Entry{
					Type:        entryType,
					Amount:      ledger_core.NewMoney(decimal.RequireFromString(amount)),
					EntryDate:   date,
					AccountID:   from,
					ToAccountID: to,
				}
			}

			var group errgroup.Group
			for i := 0; i < workers; i++ {
				group.Go(func() error {
					expense := newEntry(ledger_core.ExpenseEntry, "3.10", "acc_a", nil)
					err := createEntry(book, expense)
					if err != nil {
						return err
					}

					toB := newEntry(ledger_core.TransferEntry, "10.25", "acc_a", strPtr("acc_b"))
					err = createEntry(book, toB)
					if err != nil {
						return err
					}

					toA := newEntry(ledger_core.TransferEntry, "4.5", "acc_b", strPtr("acc_a"))
					err = createEntry(book, toA)
					if err != nil {
						return err
					}

					amount := decimal.RequireFromString("5")
					err = updateEntry(book, expense.ID, &ledger_core.EntryPatch{Amount: &amount})
					if err != nil {
						return err
					}

					return deleteEntry(book, toA.ID)
				})
			}

			err := group.Wait()
			assert.Nil(t, err)

			// each worker nets -15.25 on acc_a and +10.25 on acc_b
			assert.Equal(t, "695", ledger_mock.Balance(t, &db, "acc_a").String())
			assert.Equal(t, "1205", ledger_mock.Balance(t, &db, "acc_b").String())

			var count int64
			err = db.Model(&ledger_core.Entry{}).Count(&count).Error
			assert.Nil(t, err)
			assert.Equal(t, int64(workers*2), count)

			drifts, err := account.VerifyBalances(context.Background(), &db, "")
			assert.Nil(t, err)
			assert.Len(t, drifts, 2)
			for _, drift := range drifts {
				assert.True(t, drift.Consistent, "account %s drifted by %s", drift.AccountId, drift.Drift)
			}
		},
	)
}

func TestTransferSymmetry(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "transfer moves amount between accounts",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
			ledger_mock.PopulateAccount(&db, "acc_b", "Bank", 0),
		},
		func(t *testing.T) {
			book := ledger_core.NewBook(&db)
			entry := ledger_core.Entry{
				Type:        ledger_core.TransferEntry,
				Amount:      ledger_core.NewMoney(decimal.NewFromInt(250)),
				EntryDate:   time.Now(),
				AccountID:   "acc_a",
				ToAccountID: strPtr("acc_b"),
			}

			err := createEntry(book, &entry)
			assert.Nil(t, err)

			assert.Equal(t, "750", ledger_mock.Balance(t, &db, "acc_a").String())
			assert.Equal(t, "250", ledger_mock.Balance(t, &db, "acc_b").String())

			t.Run("reversing restores both sides", func(t *testing.T) {
				err := deleteEntry(book, entry.ID)
				assert.Nil(t, err)

				assert.Equal(t, "1000", ledger_mock.Balance(t, &db, "acc_a").String())
				assert.Equal(t, "0", ledger_mock.Balance(t, &db, "acc_b").String())
			})
		},
	)
}

func TestEntryUpdate(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "update reverses then reapplies",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
			ledger_mock.PopulateAccount(&db, "acc_b", "Bank", 1000),
		},
		func(t *testing.T) {
			sink := ledger_mock.NewRecordingSink()
			book := ledger_core.NewBook(&db, ledger_core.WithEventSink(sink))
			entry := ledger_core.Entry{
				Type:        ledger_core.ExpenseEntry,
				Amount:      ledger_core.NewMoney(decimal.NewFromInt(200)),
				EntryDate:   time.Now(),
				AccountID:   "acc_a",
				Description: "office supplies",
			}

			err := createEntry(book, &entry)
			assert.Nil(t, err)
			assert.Equal(t, "800", ledger_mock.Balance(t, &db, "acc_a").String())

			t.Run("unrelated field keeps balance", func(t *testing.T) {
				err := updateEntry(book, entry.ID, &ledger_core.EntryPatch{
					Description: strPtr("printer paper"),
				})
				assert.Nil(t, err)
				assert.Equal(t, "800", ledger_mock.Balance(t, &db, "acc_a").String())

				var stored ledger_core.Entry
				err = db.First(&stored, "id = ?", entry.ID).Error
				assert.Nil(t, err)
				assert.Equal(t, "printer paper", stored.Description)
			})

			t.Run("amount and account change", func(t *testing.T) {
				amount := decimal.NewFromInt(50)
				err := updateEntry(book, entry.ID, &ledger_core.EntryPatch{
					Amount:    &amount,
					AccountID: strPtr("acc_b"),
				})
				assert.Nil(t, err)
				assert.Equal(t, "1000", ledger_mock.Balance(t, &db, "acc_a").String())
				assert.Equal(t, "950", ledger_mock.Balance(t, &db, "acc_b").String())
			})

			t.Run("type change to income", func(t *testing.T) {
				entryType := ledger_core.IncomeEntry
				err := updateEntry(book, entry.ID, &ledger_core.EntryPatch{
					Type: &entryType,
				})
				assert.Nil(t, err)
				assert.Equal(t, "1050", ledger_mock.Balance(t, &db, "acc_b").String())
			})

			t.Run("update missing entry", func(t *testing.T) {
				err := updateEntry(book, "missing", &ledger_core.EntryPatch{})
				assert.ErrorIs(t, err, ledger_core.ErrNotFound)
			})

			assert.Equal(t, []string{
				ledger_core.EntryCreatedEvent,
				ledger_core.EntryUpdatedEvent,
				ledger_core.EntryUpdatedEvent,
				ledger_core.EntryUpdatedEvent,
			}, sink.Names())
		},
	)
}

func TestMissingDestination(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "transfer to a missing account",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
		},
		func(t *testing.T) {
			newTransfer := func() *ledger_core.Entry {
				return &ledger_core.Entry{
					Type:        ledger_core.TransferEntry,
					Amount:      ledger_core.NewMoney(decimal.NewFromInt(100)),
					EntryDate:   time.Now(),
					AccountID:   "acc_a",
					ToAccountID: strPtr("acc_gone"),
				}
			}

			t.Run("skipped by default", func(t *testing.T) {
				book := ledger_core.NewBook(&db)
				entry := newTransfer()
				err := createEntry(book, entry)
				assert.Nil(t, err)
				assert.Equal(t, "900", ledger_mock.Balance(t, &db, "acc_a").String())

				err = deleteEntry(book, entry.ID)
				assert.Nil(t, err)
				assert.Equal(t, "1000", ledger_mock.Balance(t, &db, "acc_a").String())
			})

			t.Run("rejected by policy", func(t *testing.T) {
				book := ledger_core.NewBook(&db, ledger_core.WithDestinationPolicy(ledger_core.RejectMissingDestination))
				err := createEntry(book, newTransfer())
				assert.ErrorIs(t, err, ledger_core.ErrValidation)
				assert.Equal(t, "1000", ledger_mock.Balance(t, &db, "acc_a").String())

				var count int64
				err = db.Model(&ledger_core.Entry{}).Count(&count).Error
				assert.Nil(t, err)
				assert.Equal(t, int64(0), count)
			})

			t.Run("missing source account", func(t *testing.T) {
				book := ledger_core.NewBook(&db)
				entry := newTransfer()
				entry.AccountID = "acc_none"
				err := createEntry(book, entry)
				assert.ErrorIs(t, err, ledger_core.ErrNotFound)
			})
		},
	)
}

func TestOpenTransactionRollback(t *testing.T) {
	var db gorm.DB

	moretest.Suite(t, "failed unit of work leaves no trace",
		moretest.SetupListFunc{
			moretest_mock.MockSqliteDatabase(&db),
			ledger_mock.Migrate(&db),
			ledger_mock.PopulateAccount(&db, "acc_a", "Cash", 1000),
		},
		func(t *testing.T) {
			sink := ledger_mock.NewRecordingSink()
			book := ledger_core.NewBook(&db, ledger_core.WithEventSink(sink))
			failure := errors.New("storage went away")

			err := book.OpenTransaction(context.Background(), "test rollback", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
				err := bookmng.
					NewEntryMutation().
					Create(&ledger_core.Entry{
						Type:      ledger_core.IncomeEntry,
						Amount:    ledger_core.NewMoney(decimal.NewFromInt(500)),
						EntryDate: time.Now(),
						AccountID: "acc_a",
					}, []*ledger_core.Attachment{
						{Name: "receipt.pdf", Url: "https://files.local/receipt.pdf", Type: "application/pdf", Size: 1024},
					}).
					Err()
				if err != nil {
					return err
				}
				return failure
			})

			assert.ErrorIs(t, err, failure)
			assert.Equal(t, "1000", ledger_mock.Balance(t, &db, "acc_a").String())
			assert.Empty(t, sink.Events())

			var count int64
			err = db.Model(&ledger_core.Attachment{}).Count(&count).Error
			assert.Nil(t, err)
			assert.Equal(t, int64(0), count)

			t.Run("skip transaction is not an error", func(t *testing.T) {
				err := book.OpenTransaction(context.Background(), "test skip", func(tx *gorm.DB, bookmng ledger_core.BookManage) error {
					return ledger_core.ErrSkipTransaction
				})
				assert.Nil(t, err)
			})
		},
	)
}

func TestValidateEntry(t *testing.T) {
	now := time.Now()
	cases := []struct {
		name  string
		entry ledger_core.Entry
		field string
	}{
		{"unknown type", ledger_core.Entry{Type: "refund", AccountID: "a", EntryDate: now}, "type"},
		{"negative amount", ledger_core.Entry{Type: ledger_core.IncomeEntry, Amount: ledger_core.NewMoney(decimal.NewFromInt(-1)), AccountID: "a", EntryDate: now}, "amount"},
		{"no account", ledger_core.Entry{Type: ledger_core.IncomeEntry, EntryDate: now}, "account_id"},
		{"transfer without destination", ledger_core.Entry{Type: ledger_core.TransferEntry, AccountID: "a", EntryDate: now}, "to_account_id"},
		{"transfer to itself", ledger_core.Entry{Type: ledger_core.TransferEntry, AccountID: "a", ToAccountID: strPtr("a"), EntryDate: now}, "to_account_id"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ledger_core.ValidateEntry(&c.entry)
			var verr *ledger_core.ValidationError
			assert.ErrorAs(t, err, &verr)
			assert.Equal(t, c.field, verr.Field)
		})
	}

	t.Run("non transfer drops destination", func(t *testing.T) {
		entry := ledger_core.Entry{Type: ledger_core.ExpenseEntry, AccountID: "a", ToAccountID: strPtr("b"), EntryDate: now}
		err := ledger_core.ValidateEntry(&entry)
		assert.Nil(t, err)
		assert.Nil(t, entry.ToAccountID)
	})
}
