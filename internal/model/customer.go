package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a buyer referenced by sales
type Customer struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName      string         `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName       string         `gorm:"type:varchar(100);not null" json:"last_name"`
	IdentityNumber string         `gorm:"type:varchar(20);uniqueIndex;not null" json:"identity_number"`
	Phone          string         `gorm:"type:varchar(50)" json:"phone"`
	Email          string         `gorm:"type:varchar(255)" json:"email"`
	Address        string         `gorm:"type:text" json:"address"`
	IsActive       bool           `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
