package ledger_model

import "time"

type CategoryType string

const (
	IncomeCategory  CategoryType = "income"
	ExpenseCategory CategoryType = "expense"
)

// Category is master data owned by the category CRUD surface. The ledger only
// reads it to resolve display names.
type Category struct {
	ID        string       `json:"id" gorm:"primaryKey;size:36"`
	Name      string       `json:"name" gorm:"size:100"`
	Type      CategoryType `json:"type" gorm:"size:20"`
	ParentID  *string      `json:"parent_id" gorm:"size:36"`
	Color     string       `json:"color" gorm:"size:20"`
	Icon      string       `json:"icon" gorm:"size:50"`
	CreatedAt time.Time    `json:"created_at"`
}
