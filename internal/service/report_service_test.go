package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"retailpos/internal/model"
	"retailpos/pkg/pagination"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReportRepo struct {
	lastSort  pagination.Sort
	lastPage  int
	lastLimit int
	rows      []model.SalesReportRow
}

func (m *mockReportRepo) SalesTotals(ctx context.Context, from, to time.Time) (int64, decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	return 3, decimal.NewFromInt(600), decimal.NewFromInt(580), decimal.NewFromInt(58), nil
}

func (m *mockReportRepo) SalesByCategory(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	return nil, nil
}

func (m *mockReportRepo) SalesByStore(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	return nil, nil
}

func (m *mockReportRepo) SalesByPaymentMethod(ctx context.Context, from, to time.Time) ([]model.SalesGroupTotal, error) {
	return nil, nil
}

func (m *mockReportRepo) SalesReport(ctx context.Context, from, to time.Time, sort pagination.Sort, page, limit int) ([]model.SalesReportRow, int64, error) {
	m.lastSort = sort
	m.lastPage = page
	m.lastLimit = limit
	if page > 1 {
		return nil, int64(len(m.rows)), nil
	}
	return m.rows, int64(len(m.rows)), nil
}

func (m *mockReportRepo) ExpenseTotals(ctx context.Context, from, to time.Time, groupBy string) ([]model.ExpenseGroupTotal, error) {
	return nil, nil
}

func (m *mockReportRepo) PendingExpenseCount(ctx context.Context) (int64, error) { return 2, nil }

func (m *mockReportRepo) MonthExpenseTotalTL(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return decimal.NewFromInt(1200), nil
}

func (m *mockReportRepo) StockReport(ctx context.Context, onlyCritical bool, page, limit int) ([]model.StockReportRow, int64, error) {
	return nil, 0, nil
}

type flakyCache struct {
	getErr error
	setErr error
}

func (c *flakyCache) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	return false, nil
}

func (c *flakyCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.setErr
}

func newReportFixture() (*reportService, *mockReportRepo, *mockProductRepo) {
	repo := &mockReportRepo{}
	products := newMockProductRepo()
	svc := NewReportService(repo, products, nil, logrus.New()).(*reportService)
	return svc, repo, products
}

func TestSalesReportAppliesSortWhitelist(t *testing.T) {
	svc, repo, _ := newReportFixture()

	_, _, err := svc.SalesReport(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), "total", "desc", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, pagination.Sort{Field: "sales.total_amount", Desc: true}, repo.lastSort)
}

func TestSalesReportIgnoresUnknownSortField(t *testing.T) {
	svc, repo, _ := newReportFixture()

	_, _, err := svc.SalesReport(context.Background(), time.Now().AddDate(0, -1, 0), time.Now(), "password; DROP TABLE sales", "desc", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, pagination.Sort{}, repo.lastSort)
	assert.Empty(t, repo.lastSort.OrderClause())
}

func TestSalesReportClampsPagination(t *testing.T) {
	svc, repo, _ := newReportFixture()

	_, _, err := svc.SalesReport(context.Background(), time.Now(), time.Now(), "date", "asc", -3, 500)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lastPage)
	assert.Equal(t, pagination.MaxLimit, repo.lastLimit)
}

func TestDashboardWorksWithoutCache(t *testing.T) {
	svc, _, _ := newReportFixture()

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.TodaySalesCount)
	assert.EqualValues(t, 2, summary.PendingExpenses)
	assert.Equal(t, "1200", summary.MonthExpensesTL.String())
}

func TestDashboardSurvivesCacheErrors(t *testing.T) {
	repo := &mockReportRepo{}
	cache := &flakyCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
	svc := NewReportService(repo, newMockProductRepo(), cache, logrus.New())

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.MonthSalesCount)
}

func TestExportSalesReportWritesRows(t *testing.T) {
	svc, repo, _ := newReportFixture()
	repo.rows = []model.SalesReportRow{
		{
			InvoiceNo:     "INV-20260830-00001",
			SaleDate:      time.Date(2026, 8, 30, 14, 30, 0, 0, time.UTC),
			CustomerName:  "Ayse Demir",
			EmployeeName:  "Mehmet Kaya",
			StoreName:     "Kadikoy",
			PaymentMethod: "CASH",
			Status:        model.SaleStatusCompleted,
			TotalAmount:   decimal.NewFromInt(200),
			NetAmount:     decimal.NewFromInt(175),
			Commission:    decimal.RequireFromString("17.5"),
		},
	}

	file, err := svc.ExportSalesReport(context.Background(), time.Now().AddDate(0, -1, 0), time.Now())
	require.NoError(t, err)
	defer file.Close()

	invoice, err := file.GetCellValue("Sales", "A2")
	require.NoError(t, err)
	assert.Equal(t, "INV-20260830-00001", invoice)

	commission, err := file.GetCellValue("Sales", "J2")
	require.NoError(t, err)
	assert.Equal(t, "17.50", commission)
}
