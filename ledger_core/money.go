package ledger_core

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Money is a decimal column stored without loss on every driver. sqlite
// turns NUMERIC values into float64, so there the digits are kept as text.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func MoneyPtr(d *decimal.Decimal) *Money {
	if d == nil {
		return nil
	}
	m := NewMoney(*d)
	return &m
}

// GormDBDataType implements schema.GormDataTypeInterface.
func (Money) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "numeric"
}

// NumericColumn returns an expression comparing a Money column by value.
func NumericColumn(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "sqlite" {
		return "CAST(" + column + " AS NUMERIC)"
	}
	return column
}
