package repository

import (
	"context"
	"fmt"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

type SupplierTransactionRepository interface {
	Create(ctx context.Context, tx *model.SupplierTransaction) error
	CreateItem(ctx context.Context, item *model.SupplierTransactionItem) error
	FindByIDWithItems(ctx context.Context, id uint) (*model.SupplierTransaction, error)
	List(ctx context.Context, supplierID uint, txType string, page, limit int) ([]model.SupplierTransaction, int64, error)
	NextReferenceNo(ctx context.Context, prefix string) (string, error)
}

type supplierTxRepository struct {
	db *gorm.DB
}

func NewSupplierTransactionRepository(db *gorm.DB) SupplierTransactionRepository {
	return &supplierTxRepository{db: db}
}

func (r *supplierTxRepository) Create(ctx context.Context, tx *model.SupplierTransaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *supplierTxRepository) CreateItem(ctx context.Context, item *model.SupplierTransactionItem) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *supplierTxRepository) FindByIDWithItems(ctx context.Context, id uint) (*model.SupplierTransaction, error) {
	var tx model.SupplierTransaction
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Supplier").
		First(&tx, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *supplierTxRepository) List(ctx context.Context, supplierID uint, txType string, page, limit int) ([]model.SupplierTransaction, int64, error) {
	var txs []model.SupplierTransaction
	var total int64

	db := GetDB(ctx, r.db).Model(&model.SupplierTransaction{})
	if supplierID != 0 {
		db = db.Where("supplier_id = ?", supplierID)
	}
	if txType != "" {
		db = db.Where("type = ?", txType)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Items").Preload("Supplier").
		Order("transaction_date desc").Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// NextReferenceNo mirrors the sale invoice numbering for purchasing documents.
func (r *supplierTxRepository) NextReferenceNo(ctx context.Context, prefix string) (string, error) {
	db := GetDB(ctx, r.db)
	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", prefix)

	var count int64
	if err := db.Model(&model.SupplierTransaction{}).Unscoped().
		Where("reference_no LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}
