package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod enum constants
const (
	PaymentCash         = "CASH"
	PaymentCreditCard   = "CREDIT_CARD"
	PaymentBankTransfer = "BANK_TRANSFER"
)

// SaleStatus constants
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
	SaleStatusRefunded  = "REFUNDED"
)

// Sale records a completed checkout. All monetary fields are computed and
// frozen at creation: NetAmount = sum of line nets minus DiscountAmount, and
// CommissionAmount = NetAmount * the employee's commission rate at sale time.
// A Sale exclusively owns its Details; deleting the sale cascades to them.
type Sale struct {
	ID               uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleDate         time.Time       `gorm:"not null;index" json:"sale_date"`
	CustomerID       uint            `gorm:"not null;index" json:"customer_id"`
	Customer         *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	EmployeeID       uint            `gorm:"not null;index" json:"employee_id"`
	Employee         *Employee       `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	StoreID          uint            `gorm:"not null;index" json:"store_id"`
	Store            *Store          `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount_amount"`
	NetAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_amount"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"commission_amount"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null" json:"payment_method"` // CASH, CREDIT_CARD, BANK_TRANSFER
	Status           string          `gorm:"type:varchar(20);not null;default:'COMPLETED';index" json:"status"`
	InvoiceNo        string          `gorm:"type:varchar(30);uniqueIndex;not null" json:"invoice_no"`
	Notes            string          `gorm:"type:text" json:"notes"`
	Details          []SaleDetail    `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"details"`
	CreatedBy        *uint           `gorm:"index" json:"created_by"`
	UpdatedBy        *uint           `json:"updated_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
}

// SaleDetail is one product line within a Sale.
// NetPrice = Quantity * UnitPrice * (1 - DiscountRate/100), rounded to 2 decimals.
type SaleDetail struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID         uint            `gorm:"not null;index" json:"sale_id"`
	ProductID      uint            `gorm:"not null;index" json:"product_id"`
	Product        *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity       int             `gorm:"type:int;not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	DiscountRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"discount_rate"` // percentage 0..100
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"discount_amount"`
	TotalPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	NetPrice       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"net_price"`
}
