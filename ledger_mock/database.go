package ledger_mock

import (
	"testing"
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_model"
	"github.com/pdcgo/shared/pkg/moretest"
	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) moretest.SetupFunc {
	return func(t *testing.T) func() error {
		models := append(ledger_core.AllModels(), &ledger_model.Category{})
		err := db.AutoMigrate(models...)
		assert.Nil(t, err)

		return nil
	}
}

// SingleConnection pins the pool to one connection, as the app does for sqlite.
func SingleConnection(db *gorm.DB) moretest.SetupFunc {
	return func(t *testing.T) func() error {
		sqlDB, err := db.DB()
		assert.Nil(t, err)
		sqlDB.SetMaxOpenConns(1)

		return nil
	}
}

// PopulateAccount creates an account whose balance starts at initial.
func PopulateAccount(db *gorm.DB, id string, name string, initial int64) moretest.SetupFunc {
	return func(t *testing.T) func() error {
		amount := ledger_core.NewMoney(decimal.NewFromInt(initial))
		acc := ledger_core.Account{
			ID:             id,
			Name:           name,
			Type:           "bank",
			Balance:        amount,
			InitialBalance: amount,
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
		}

		err := db.Create(&acc).Error
		assert.Nil(t, err)

		return func() error {
			return db.Where("id = ?", id).Delete(&ledger_core.Account{}).Error
		}
	}
}

func PopulateCategory(db *gorm.DB, id string, name string, catType ledger_model.CategoryType) moretest.SetupFunc {
	return func(t *testing.T) func() error {
		cat := ledger_model.Category{
			ID:        id,
			Name:      name,
			Type:      catType,
			CreatedAt: time.Now(),
		}

		err := db.Create(&cat).Error
		assert.Nil(t, err)

		return nil
	}
}

func Balance(t *testing.T, db *gorm.DB, accountID string) decimal.Decimal {
	var acc ledger_core.Account
	err := db.
		Model(&ledger_core.Account{}).
		Where("id = ?", accountID).
		First(&acc).
		Error

	assert.Nil(t, err)
	return acc.Balance.Decimal
}
