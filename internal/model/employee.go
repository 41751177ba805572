package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee represents a salesperson. CommissionRate is a 0-1 fraction applied
// to the net amount of each sale they close; the result is frozen into the
// sale at creation time and never recomputed.
type Employee struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName      string          `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string          `gorm:"type:varchar(100);not null" json:"last_name"`
	IdentityNumber string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"identity_number"`
	Phone          string          `gorm:"type:varchar(50)" json:"phone"`
	Email          string          `gorm:"type:varchar(255)" json:"email"`
	HireDate       time.Time       `json:"hire_date"`
	Salary         decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"salary"`
	SalesQuota     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:10000" json:"sales_quota"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0.10" json:"commission_rate"` // fraction, 0..1
	StoreID        uint            `gorm:"not null;index" json:"store_id"`
	Store          *Store          `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	DepartmentID   *uint           `gorm:"index" json:"department_id"`
	Department     *Department     `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	IsActive       bool            `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

// FullName joins first and last name for display and audit entries.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
