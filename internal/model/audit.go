package model

import "time"

const (
	ActionCreateSale     = "CREATE_SALE"
	ActionUpdateSale     = "UPDATE_SALE_STATUS"
	ActionCreateExpense  = "CREATE_EXPENSE"
	ActionDecideExpense  = "DECIDE_EXPENSE"
	ActionPayExpense     = "PAY_EXPENSE"
	ActionCreatePurchase = "CREATE_SUPPLIER_TRANSACTION"
	ActionCreateProduct  = "CREATE_PRODUCT"
	ActionUpdateProduct  = "UPDATE_PRODUCT"
	ActionDeleteProduct  = "DELETE_PRODUCT"
	ActionCreateEntity   = "CREATE_ENTITY"
	ActionUpdateEntity   = "UPDATE_ENTITY"
	ActionDeleteEntity   = "DELETE_ENTITY"
)

// AuditLog tracks who did what and when for critical changes
type AuditLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint     `gorm:"index" json:"user_id"` // nullable for system actions
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string    `gorm:"type:jsonb" json:"details"` // serialized JSON payload
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
