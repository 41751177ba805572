package model

import (
	"time"

	"gorm.io/gorm"
)

// Store represents a physical shop location
type Store struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Code        string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"`
	Address     string         `gorm:"type:text" json:"address"`
	Phone       string         `gorm:"type:varchar(50)" json:"phone"`
	ManagerName string         `gorm:"type:varchar(255)" json:"manager_name"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// Department is an organizational unit inside a store; expenses and employees
// are attributed to one
type Department struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	StoreID     uint           `gorm:"not null;index" json:"store_id"`
	Store       *Store         `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
