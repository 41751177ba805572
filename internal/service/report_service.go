package service

import (
	"context"
	"fmt"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/pkg/pagination"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const dashboardCacheKey = "report:dashboard"
const dashboardCacheTTL = 60 * time.Second

// salesReportSortFields whitelists caller-specified sort fields; anything
// else means no ordering.
var salesReportSortFields = map[string]string{
	"date":    "sales.sale_date",
	"invoice": "sales.invoice_no",
	"total":   "sales.total_amount",
	"net":     "sales.net_amount",
	"status":  "sales.status",
}

// SummaryCache is the narrow caching surface the report service needs; a nil
// cache disables caching entirely.
type SummaryCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type ReportService interface {
	Dashboard(ctx context.Context) (model.DashboardSummary, error)
	SalesByCategory(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error)
	SalesByStore(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error)
	SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error)
	SalesReport(ctx context.Context, from, to time.Time, sortField, sortOrder string, page, limit int) ([]model.SalesReportRow, int64, error)
	ExpenseTotals(ctx context.Context, from, to time.Time, groupBy string) ([]model.ExpenseGroupTotal, error)
	StockReport(ctx context.Context, onlyCritical bool, page, limit int) ([]model.StockReportRow, int64, error)
	ExportSalesReport(ctx context.Context, from, to time.Time) (*excelize.File, error)
}

type reportService struct {
	reportRepo  repository.ReportRepository
	productRepo repository.ProductRepository
	cache       SummaryCache
	log         *logrus.Logger
}

func NewReportService(reportRepo repository.ReportRepository, productRepo repository.ProductRepository, cache SummaryCache, log *logrus.Logger) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		productRepo: productRepo,
		cache:       cache,
		log:         log,
	}
}

// Dashboard aggregates headline figures and caches them briefly; a cache
// failure degrades to a direct query rather than an error.
func (s *reportService) Dashboard(ctx context.Context) (model.DashboardSummary, error) {
	if s.cache != nil {
		var cached model.DashboardSummary
		hit, err := s.cache.GetJSON(ctx, dashboardCacheKey, &cached)
		if err != nil {
			s.log.WithError(err).Warn("dashboard cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var summary model.DashboardSummary
	summary.GeneratedAt = now

	var err error
	summary.TodaySalesCount, summary.TodaySalesTotal, _, _, err = s.reportRepo.SalesTotals(ctx, dayStart, now)
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("failed to aggregate today's sales: %w", err)
	}

	summary.MonthSalesCount, summary.MonthSalesTotal, _, summary.MonthCommission, err = s.reportRepo.SalesTotals(ctx, monthStart, now)
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("failed to aggregate monthly sales: %w", err)
	}

	summary.PendingExpenses, err = s.reportRepo.PendingExpenseCount(ctx)
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("failed to count pending expenses: %w", err)
	}

	summary.MonthExpensesTL, err = s.reportRepo.MonthExpenseTotalTL(ctx, monthStart, now)
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("failed to aggregate monthly expenses: %w", err)
	}

	summary.CriticalProducts, err = s.productRepo.CountCritical(ctx)
	if err != nil {
		return model.DashboardSummary{}, fmt.Errorf("failed to count critical products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, dashboardCacheKey, summary, dashboardCacheTTL); err != nil {
			s.log.WithError(err).Warn("dashboard cache write failed")
		}
	}

	return summary, nil
}

func (s *reportService) SalesByCategory(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	return s.reportRepo.SalesByCategory(ctx, from, to)
}

func (s *reportService) SalesByStore(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	return s.reportRepo.SalesByStore(ctx, from, to)
}

func (s *reportService) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	return s.reportRepo.SalesByPaymentMethod(ctx, from, to)
}

func (s *reportService) SalesReport(ctx context.Context, from, to time.Time, sortField, sortOrder string, page, limit int) ([]model.SalesReportRow, int64, error) {
	params := pagination.Clamp(page, limit)
	sort := pagination.ParseSort(sortField, sortOrder, salesReportSortFields)
	return s.reportRepo.SalesReport(ctx, from, to, sort, params.Page, params.Limit)
}

func (s *reportService) ExpenseTotals(ctx context.Context, from, to time.Time, groupBy string) ([]model.ExpenseGroupTotal, error) {
	return s.reportRepo.ExpenseTotals(ctx, from, to, groupBy)
}

func (s *reportService) StockReport(ctx context.Context, onlyCritical bool, page, limit int) ([]model.StockReportRow, int64, error) {
	params := pagination.Clamp(page, limit)
	return s.reportRepo.StockReport(ctx, onlyCritical, params.Page, params.Limit)
}

// ExportSalesReport builds an XLSX workbook from the full sales report for
// the period. Rows are pulled in report-page batches to keep memory bounded.
func (s *reportService) ExportSalesReport(ctx context.Context, from, to time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Sales"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	headers := []string{"Invoice", "Date", "Customer", "Employee", "Store", "Payment", "Status", "Total", "Net", "Commission"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	rowNo := 2
	sort := pagination.ParseSort("date", "asc", salesReportSortFields)
	for page := 1; ; page++ {
		rows, _, err := s.reportRepo.SalesReport(ctx, from, to, sort, page, pagination.MaxLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch report page %d: %w", page, err)
		}
		if len(rows) == 0 {
			break
		}

		for _, r := range rows {
			values := []interface{}{
				r.InvoiceNo,
				r.SaleDate.Format("2006-01-02 15:04"),
				r.CustomerName,
				r.EmployeeName,
				r.StoreName,
				r.PaymentMethod,
				r.Status,
				r.TotalAmount.StringFixed(2),
				r.NetAmount.StringFixed(2),
				r.Commission.StringFixed(2),
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, rowNo)
				f.SetCellValue(sheet, cell, v)
			}
			rowNo++
		}

		if len(rows) < pagination.MaxLimit {
			break
		}
	}

	return f, nil
}
