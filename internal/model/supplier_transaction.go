package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SupplierTransactionType enum constants
const (
	SupplierTxPurchase = "PURCHASE"
	SupplierTxPayment  = "PAYMENT"
	SupplierTxReturn   = "RETURN"
)

// SupplierTransaction records a purchase from, payment to, or return toward
// a supplier. PURCHASE transactions own item lines and increase product stock
// within the same database transaction.
type SupplierTransaction struct {
	ID              uint                      `gorm:"primaryKey;autoIncrement" json:"id"`
	SupplierID      uint                      `gorm:"not null;index" json:"supplier_id"`
	Supplier        *Supplier                 `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Type            string                    `gorm:"type:varchar(20);not null;index" json:"type"` // PURCHASE, PAYMENT, RETURN
	TransactionDate time.Time                 `gorm:"not null;index" json:"transaction_date"`
	Amount          decimal.Decimal           `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency        string                    `gorm:"type:varchar(10);not null;default:'TL'" json:"currency"`
	ExchangeRate    decimal.Decimal           `gorm:"type:decimal(18,6);not null;default:1" json:"exchange_rate"`
	AmountTL        decimal.Decimal           `gorm:"column:amount_tl;type:decimal(18,2);not null" json:"amount_tl"` // amount * exchange_rate, frozen
	ReferenceNo     string                    `gorm:"type:varchar(30);uniqueIndex;not null" json:"reference_no"`
	Notes           string                    `gorm:"type:text" json:"notes"`
	Items           []SupplierTransactionItem `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedBy       *uint                     `gorm:"index" json:"created_by"`
	CreatedAt       time.Time                 `json:"created_at"`
	UpdatedAt       time.Time                 `json:"updated_at"`
	DeletedAt       gorm.DeletedAt            `gorm:"index" json:"-"`
}

// SupplierTransactionItem is one product line within a PURCHASE transaction
type SupplierTransactionItem struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID uint            `gorm:"not null;index" json:"transaction_id"`
	ProductID     uint            `gorm:"not null;index" json:"product_id"`
	Quantity      int             `gorm:"type:int;not null" json:"quantity"`
	UnitCost      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_cost"`
}
