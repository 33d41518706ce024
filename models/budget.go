package models

import "time"

const (
	BudgetDraft  = "DRAFT"
	BudgetActive = "ACTIVE"
	BudgetClosed = "CLOSED"

	ExpensePending  = "PENDING"
	ExpenseApproved = "APPROVED"
	ExpenseRejected = "REJECTED"
)

// Budget tracks money set aside for a startup call.
type Budget struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	StartupCallID uint      `gorm:"index;not null" json:"startup_call_id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	FiscalYear    int       `json:"fiscal_year"`
	TotalAmount   float64   `gorm:"not null" json:"total_amount"`
	Currency      string    `gorm:"size:3;default:USD" json:"currency"`
	Status        string    `gorm:"not null" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Categories []BudgetCategory `gorm:"foreignKey:BudgetID" json:"categories,omitempty"`
}

type BudgetCategory struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	BudgetID        uint      `gorm:"index;not null" json:"budget_id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description"`
	AllocatedAmount float64   `json:"allocated_amount"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Expense struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	BudgetID      uint      `gorm:"index;not null" json:"budget_id"`
	CategoryID    *uint     `gorm:"index" json:"category_id"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"type:text" json:"description"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Date          time.Time `gorm:"index" json:"date"`
	ReceiptURL    string    `json:"receipt_url"`
	Status        string    `gorm:"index;not null" json:"status"`
	SubmittedByID uint      `json:"submitted_by_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Category *BudgetCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
