package bookkeeping_service

import (
	"log"
	"log/slog"
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MigrationHandler func() error

func NewMigrationHandler(
	db *gorm.DB,
) MigrationHandler {
	return func() error {
		log.Println("migrating bookkeeping service")
		models := append(ledger_core.AllModels(), &ledger_model.Category{})
		return db.AutoMigrate(models...)
	}
}

type SeedHandler func() error

func defaultCategories() []*ledger_model.Category {
	now := time.Now()
	return []*ledger_model.Category{
		{ID: "cat_income_main", Name: "Main business income", Type: ledger_model.IncomeCategory, Icon: "ShopOutlined", Color: "#52C41A", CreatedAt: now},
		{ID: "cat_income_other", Name: "Other income", Type: ledger_model.IncomeCategory, Icon: "PlusCircleOutlined", Color: "#73D13D", CreatedAt: now},
		{ID: "cat_expense_staff", Name: "Personnel", Type: ledger_model.ExpenseCategory, Icon: "TeamOutlined", Color: "#F5222D", CreatedAt: now},
		{ID: "cat_expense_office", Name: "Office", Type: ledger_model.ExpenseCategory, Icon: "DesktopOutlined", Color: "#FA541C", CreatedAt: now},
		{ID: "cat_expense_marketing", Name: "Marketing", Type: ledger_model.ExpenseCategory, Icon: "SoundOutlined", Color: "#FA8C16", CreatedAt: now},
		{ID: "cat_expense_tax", Name: "Taxes", Type: ledger_model.ExpenseCategory, Icon: "AccountBookOutlined", Color: "#CF1322", CreatedAt: now},
		{ID: "cat_expense_purchase", Name: "Purchasing", Type: ledger_model.ExpenseCategory, Icon: "ShoppingCartOutlined", Color: "#EB2F96", CreatedAt: now},
	}
}

// NewSeedHandler inserts the default top level categories. Existing rows
// are left untouched.
func NewSeedHandler(
	db *gorm.DB,
) SeedHandler {
	return func() error {
		log.Println("seeding bookkeeping service")

		for _, cat := range defaultCategories() {
			err := db.
				Clauses(clause.OnConflict{DoNothing: true}).
				Create(cat).
				Error

			if err != nil {
				slog.Error(err.Error(), slog.String("category", cat.ID))
				return err
			}
		}

		return nil
	}
}
