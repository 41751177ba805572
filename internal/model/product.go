package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a sellable item tracked in stock.
// StockQuantity must never go negative; the sale workflow enforces this
// under a row lock before any decrement is persisted.
type Product struct {
	ID                 uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string          `gorm:"type:varchar(255);not null" json:"name"`
	Barcode            string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"barcode"`
	Price              decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	CostPrice          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"cost_price"`
	StockQuantity      int             `gorm:"type:int;not null;default:0" json:"stock_quantity"`
	CriticalStockLevel int             `gorm:"type:int;not null;default:0" json:"critical_stock_level"`
	Unit               string          `gorm:"type:varchar(20);default:'pcs'" json:"unit"`
	CategoryID         uint            `gorm:"not null;index" json:"category_id"`
	Category           *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	IsActive           bool            `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}

// IsCritical reports whether current stock sits at or below the alert level.
func (p *Product) IsCritical() bool {
	return p.StockQuantity <= p.CriticalStockLevel
}
