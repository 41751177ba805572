package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates the headline figures for the back-office home
// screen. Empty ranges produce zero values, never errors.
type DashboardSummary struct {
	TodaySalesCount   int64           `json:"today_sales_count"`
	TodaySalesTotal   decimal.Decimal `json:"today_sales_total"`
	MonthSalesCount   int64           `json:"month_sales_count"`
	MonthSalesTotal   decimal.Decimal `json:"month_sales_total"`
	MonthCommission   decimal.Decimal `json:"month_commission"`
	PendingExpenses   int64           `json:"pending_expenses"`
	MonthExpensesTL   decimal.Decimal `json:"month_expenses_tl"`
	CriticalProducts  int64           `json:"critical_products"`
	GeneratedAt       time.Time       `json:"generated_at"`
}

// SalesGroupTotal is one bucket of a grouped sales aggregation
// (by category, store, or payment method).
type SalesGroupTotal struct {
	GroupID    uint            `json:"group_id,omitempty"`
	GroupName  string          `json:"group_name"`
	SalesCount int64           `json:"sales_count"`
	Quantity   int64           `json:"quantity,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Net        decimal.Decimal `json:"net"`
}

// SalesReportRow is one line of the paginated sales report.
type SalesReportRow struct {
	SaleID        uint            `json:"sale_id"`
	InvoiceNo     string          `json:"invoice_no"`
	SaleDate      time.Time       `json:"sale_date"`
	CustomerName  string          `json:"customer_name"`
	EmployeeName  string          `json:"employee_name"`
	StoreName     string          `json:"store_name"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	Commission    decimal.Decimal `json:"commission"`
}

// ExpenseGroupTotal buckets expenses by currency or status.
type ExpenseGroupTotal struct {
	Group    string          `json:"group"`
	Count    int64           `json:"count"`
	Total    decimal.Decimal `json:"total"`
	TotalTL  decimal.Decimal `json:"total_tl"`
}

// StockReportRow lists a product with its stock position.
type StockReportRow struct {
	ProductID     uint            `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Barcode       string          `json:"barcode"`
	CategoryName  string          `json:"category_name"`
	StockQuantity int             `json:"stock_quantity"`
	CriticalLevel int             `json:"critical_level"`
	StockValue    decimal.Decimal `json:"stock_value"` // quantity * cost price
	IsCritical    bool            `json:"is_critical"`
}
