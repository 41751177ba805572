package repository

import (
	"context"
	"time"

	"retailpos/internal/model"
	"retailpos/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportRepository is the read-only side: grouping and summation over
// persisted sales, expenses and stock. It never mutates anything and
// tolerates empty result sets by returning zero values.
type ReportRepository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (count int64, total, net, commission decimal.Decimal, err error)
	SalesByCategory(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error)
	SalesByStore(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error)
	SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error)
	SalesReport(ctx context.Context, from, to time.Time, sort pagination.Sort, page, limit int) ([]model.SalesReportRow, int64, error)
	ExpenseTotals(ctx context.Context, from, to time.Time, groupBy string) ([]model.ExpenseGroupTotal, error)
	PendingExpenseCount(ctx context.Context) (int64, error)
	MonthExpenseTotalTL(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	StockReport(ctx context.Context, onlyCritical bool, page, limit int) ([]model.StockReportRow, int64, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) SalesTotals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Count      int64
		Total      decimal.Decimal
		Net        decimal.Decimal
		Commission decimal.Decimal
	}
	err := GetDB(ctx, r.db).Table("sales").
		Select("COUNT(*) as count, COALESCE(SUM(total_amount),0) as total, COALESCE(SUM(net_amount),0) as net, COALESCE(SUM(commission_amount),0) as commission").
		Where("status = ? AND sale_date >= ? AND sale_date <= ? AND deleted_at IS NULL", model.SaleStatusCompleted, from, to).
		Scan(&row).Error
	return row.Count, row.Total, row.Net, row.Commission, err
}

func (r *reportRepository) SalesByCategory(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	var rows []model.SalesGroupTotal
	err := GetDB(ctx, r.db).Table("sale_details").
		Select("categories.id as group_id, categories.name as group_name, COUNT(DISTINCT sales.id) as sales_count, COALESCE(SUM(sale_details.quantity),0) as quantity, COALESCE(SUM(sale_details.total_price),0) as total, COALESCE(SUM(sale_details.net_price),0) as net").
		Joins("JOIN sales ON sales.id = sale_details.sale_id").
		Joins("JOIN products ON products.id = sale_details.product_id").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("sales.status = ? AND sales.sale_date >= ? AND sales.sale_date <= ? AND sales.deleted_at IS NULL", model.SaleStatusCompleted, from, to).
		Group("categories.id, categories.name").
		Order("net DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) SalesByStore(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	var rows []model.SalesGroupTotal
	err := GetDB(ctx, r.db).Table("sales").
		Select("stores.id as group_id, stores.name as group_name, COUNT(*) as sales_count, COALESCE(SUM(sales.total_amount),0) as total, COALESCE(SUM(sales.net_amount),0) as net").
		Joins("JOIN stores ON stores.id = sales.store_id").
		Where("sales.status = ? AND sales.sale_date >= ? AND sales.sale_date <= ? AND sales.deleted_at IS NULL", model.SaleStatusCompleted, from, to).
		Group("stores.id, stores.name").
		Order("net DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	var rows []model.SalesGroupTotal
	err := GetDB(ctx, r.db).Table("sales").
		Select("sales.payment_method as group_name, COUNT(*) as sales_count, COALESCE(SUM(sales.total_amount),0) as total, COALESCE(SUM(sales.net_amount),0) as net").
		Where("sales.status = ? AND sales.sale_date >= ? AND sales.sale_date <= ? AND sales.deleted_at IS NULL", model.SaleStatusCompleted, from, to).
		Group("sales.payment_method").
		Order("net DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) SalesReport(ctx context.Context, from, to time.Time, sort pagination.Sort, page, limit int) ([]model.SalesReportRow, int64, error) {
	base := GetDB(ctx, r.db).Table("sales").
		Where("sales.sale_date >= ? AND sales.sale_date <= ? AND sales.deleted_at IS NULL", from, to)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Table("sales").
		Select("sales.id as sale_id, sales.invoice_no, sales.sale_date, customers.first_name || ' ' || customers.last_name as customer_name, employees.first_name || ' ' || employees.last_name as employee_name, stores.name as store_name, sales.payment_method, sales.status, sales.total_amount, sales.net_amount, sales.commission_amount as commission").
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Joins("JOIN employees ON employees.id = sales.employee_id").
		Joins("JOIN stores ON stores.id = sales.store_id").
		Where("sales.sale_date >= ? AND sales.sale_date <= ? AND sales.deleted_at IS NULL", from, to)

	if clause := sort.OrderClause(); clause != "" {
		query = query.Order(clause)
	}

	var rows []model.SalesReportRow
	offset := (page - 1) * limit
	if err := query.Offset(offset).Limit(limit).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *reportRepository) ExpenseTotals(ctx context.Context, from, to time.Time, groupBy string) ([]model.ExpenseGroupTotal, error) {
	column := "currency"
	if groupBy == "status" {
		column = "status"
	}

	var rows []model.ExpenseGroupTotal
	err := GetDB(ctx, r.db).Table("expenses").
		Select(column+" as \"group\", COUNT(*) as count, COALESCE(SUM(amount),0) as total, COALESCE(SUM(amount_tl),0) as total_tl").
		Where("expense_date >= ? AND expense_date <= ? AND deleted_at IS NULL", from, to).
		Group(column).
		Order("total_tl DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) PendingExpenseCount(ctx context.Context) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Expense{}).
		Where("status = ?", model.ExpensePending).
		Count(&count).Error
	return count, err
}

func (r *reportRepository) MonthExpenseTotalTL(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var row struct {
		TotalTL decimal.Decimal
	}
	err := GetDB(ctx, r.db).Table("expenses").
		Select("COALESCE(SUM(amount_tl),0) as total_tl").
		Where("expense_date >= ? AND expense_date <= ? AND status IN ? AND deleted_at IS NULL",
			from, to, []string{model.ExpenseApproved, model.ExpensePaid}).
		Scan(&row).Error
	return row.TotalTL, err
}

func (r *reportRepository) StockReport(ctx context.Context, onlyCritical bool, page, limit int) ([]model.StockReportRow, int64, error) {
	base := GetDB(ctx, r.db).Table("products").
		Where("products.deleted_at IS NULL AND products.is_active = true")
	if onlyCritical {
		base = base.Where("products.stock_quantity <= products.critical_stock_level")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).Table("products").
		Select("products.id as product_id, products.name as product_name, products.barcode, categories.name as category_name, products.stock_quantity, products.critical_stock_level as critical_level, products.stock_quantity * products.cost_price as stock_value, products.stock_quantity <= products.critical_stock_level as is_critical").
		Joins("JOIN categories ON categories.id = products.category_id").
		Where("products.deleted_at IS NULL AND products.is_active = true")
	if onlyCritical {
		query = query.Where("products.stock_quantity <= products.critical_stock_level")
	}

	var rows []model.StockReportRow
	offset := (page - 1) * limit
	if err := query.Order("products.name ASC").Offset(offset).Limit(limit).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
