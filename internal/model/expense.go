package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseStatus enum constants. Transitions are one-directional:
// PENDING -> APPROVED | REJECTED, APPROVED -> PAID.
const (
	ExpensePending  = "PENDING"
	ExpenseApproved = "APPROVED"
	ExpenseRejected = "REJECTED"
	ExpensePaid     = "PAID"
)

// Currency enum constants (base currency: TL)
const (
	CurrencyTL  = "TL"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
)

// Expense is a cost entry with multi-currency support. AmountTL is computed
// as Amount * ExchangeRate when the expense is created and never recomputed,
// so historical reports stay accurate if canonical rates change later.
type Expense struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        string          `gorm:"type:varchar(255);not null" json:"title"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency     string          `gorm:"type:varchar(10);not null;default:'TL'" json:"currency"`
	ExchangeRate decimal.Decimal `gorm:"type:decimal(18,6);not null;default:1" json:"exchange_rate"`
	AmountTL     decimal.Decimal `gorm:"column:amount_tl;type:decimal(18,2);not null" json:"amount_tl"`
	ExpenseDate  time.Time       `gorm:"not null;index" json:"expense_date"`
	CategoryName string          `gorm:"type:varchar(100)" json:"category_name"`
	DepartmentID *uint           `gorm:"index" json:"department_id"`
	Department   *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	Status       string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ApprovedBy   *uint           `gorm:"index" json:"approved_by"`
	Approver     *User           `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
	ApprovedAt   *time.Time      `json:"approved_at"`
	ApprovalNote string          `gorm:"type:text" json:"approval_note"`
	CreatedBy    *uint           `gorm:"index" json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}
