package repository

import (
	"context"
	"fmt"
	"time"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

// SaleFilter narrows sale listings.
type SaleFilter struct {
	CustomerID     uint
	EmployeeID     uint
	StoreID        uint
	Status         string
	From           time.Time
	To             time.Time
	IncludeDeleted bool
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	CreateDetail(ctx context.Context, detail *model.SaleDetail) error
	FindByIDWithDetails(ctx context.Context, id uint) (*model.Sale, error)
	UpdateStatus(ctx context.Context, id uint, status string, updatedBy *uint) error
	List(ctx context.Context, filter SaleFilter, page, limit int) ([]model.Sale, int64, error)
	NextInvoiceNo(ctx context.Context, prefix string) (string, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) CreateDetail(ctx context.Context, detail *model.SaleDetail) error {
	return GetDB(ctx, r.db).Create(detail).Error
}

func (r *saleRepository) FindByIDWithDetails(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := GetDB(ctx, r.db).
		Preload("Details").
		Preload("Details.Product").
		Preload("Customer").
		Preload("Employee").
		Preload("Store").
		First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uint, status string, updatedBy *uint) error {
	return GetDB(ctx, r.db).Model(&model.Sale{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_by": updatedBy}).Error
}

func (r *saleRepository) List(ctx context.Context, filter SaleFilter, page, limit int) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64

	db := scopeDeleted(GetDB(ctx, r.db), filter.IncludeDeleted).Model(&model.Sale{})
	if filter.CustomerID != 0 {
		db = db.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.EmployeeID != 0 {
		db = db.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.StoreID != 0 {
		db = db.Where("store_id = ?", filter.StoreID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		db = db.Where("sale_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		db = db.Where("sale_date <= ?", filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.
		Preload("Details").
		Preload("Customer").
		Preload("Employee").
		Order("sale_date DESC").
		Offset(offset).Limit(limit).
		Find(&sales).Error; err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}

// NextInvoiceNo produces the next sequential invoice number for the given
// daily prefix. An advisory lock on the prefix serializes concurrent
// generators; the unique index on invoice_no backstops any race.
func (r *saleRepository) NextInvoiceNo(ctx context.Context, prefix string) (string, error) {
	db := GetDB(ctx, r.db)
	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var count int64
	if err := db.Model(&model.Sale{}).Unscoped().
		Where("invoice_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}
