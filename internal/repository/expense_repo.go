package repository

import (
	"context"
	"time"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

// ExpenseFilter narrows expense listings.
type ExpenseFilter struct {
	Status         string
	DepartmentID   uint
	From           time.Time
	To             time.Time
	IncludeDeleted bool
}

type ExpenseRepository interface {
	Create(ctx context.Context, expense *model.Expense) error
	Update(ctx context.Context, expense *model.Expense) error
	FindByID(ctx context.Context, id uint) (*model.Expense, error)
	List(ctx context.Context, filter ExpenseFilter, page, limit int) ([]model.Expense, int64, error)
}

type expenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) ExpenseRepository {
	return &expenseRepository{db: db}
}

func (r *expenseRepository) Create(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Create(expense).Error
}

func (r *expenseRepository) Update(ctx context.Context, expense *model.Expense) error {
	return GetDB(ctx, r.db).Save(expense).Error
}

func (r *expenseRepository) FindByID(ctx context.Context, id uint) (*model.Expense, error) {
	var expense model.Expense
	if err := GetDB(ctx, r.db).Preload("Department").Preload("Approver").
		First(&expense, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expense, nil
}

func (r *expenseRepository) List(ctx context.Context, filter ExpenseFilter, page, limit int) ([]model.Expense, int64, error) {
	var expenses []model.Expense
	var total int64

	db := scopeDeleted(GetDB(ctx, r.db), filter.IncludeDeleted).Model(&model.Expense{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.DepartmentID != 0 {
		db = db.Where("department_id = ?", filter.DepartmentID)
	}
	if !filter.From.IsZero() {
		db = db.Where("expense_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		db = db.Where("expense_date <= ?", filter.To)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Preload("Department").Preload("Approver").
		Order("expense_date desc").Offset(offset).Limit(limit).Find(&expenses).Error; err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}
