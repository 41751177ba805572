package database

import (
	"retailpos/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM. TranslateError
// maps driver-specific failures (unique violations in particular) onto GORM's
// portable sentinel errors so services can match them.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Store{},
		&model.Department{},
		&model.Category{},
		&model.Product{},
		&model.Customer{},
		&model.Supplier{},
		&model.SupplierTransaction{},
		&model.SupplierTransactionItem{},
		&model.Employee{},
		&model.Sale{},
		&model.SaleDetail{},
		&model.Expense{},
		&model.AuditLog{},
	)
	if err != nil {
		logrus.WithError(err).Warn("failed to auto-migrate models")
	}

	return db, nil
}
