package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"retailpos/internal/model"
	"retailpos/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

type saleFixture struct {
	svc       SaleService
	products  *mockProductRepo
	customers *mockCustomerRepo
	employees *mockEmployeeRepo
	sales     *mockSaleRepo
	audit     *mockAuditRepo
	hub       *recordingBroadcaster
}

func newSaleFixture(t *testing.T) *saleFixture {
	f := &saleFixture{
		products:  newMockProductRepo(),
		customers: newMockCustomerRepo(),
		employees: newMockEmployeeRepo(),
		sales:     newMockSaleRepo(),
		audit:     &mockAuditRepo{},
		hub:       &recordingBroadcaster{},
	}
	f.customers.add(model.Customer{ID: 1, FirstName: "Ayse", LastName: "Demir", IsActive: true})
	f.employees.add(model.Employee{
		ID:             1,
		FirstName:      "Mehmet",
		LastName:       "Kaya",
		StoreID:        1,
		CommissionRate: dec(t, "0.10"),
		IsActive:       true,
	})
	f.products.add(model.Product{
		ID:                 1,
		Name:               "Filter Coffee 500g",
		Barcode:            "8690000000011",
		Price:              dec(t, "100.00"),
		StockQuantity:      10,
		CriticalStockLevel: 2,
		CategoryID:         1,
		IsActive:           true,
	})
	f.svc = NewSaleService(f.sales, f.products, f.customers, f.employees, f.audit, &mockTxManager{}, f.hub)
	return f
}

func validSaleRequest() CreateSaleRequest {
	return CreateSaleRequest{
		CustomerID:     1,
		EmployeeID:     1,
		PaymentMethod:  "CASH",
		DiscountAmount: "5.00",
		Items: []SaleLineRequest{
			{ProductID: 1, Quantity: 2, UnitPrice: "100.00", DiscountRate: "10"},
		},
	}
}

func TestCreateSaleComputesTotals(t *testing.T) {
	f := newSaleFixture(t)

	resp, err := f.svc.CreateSale(context.Background(), 7, validSaleRequest())
	require.NoError(t, err)

	assert.Equal(t, "200.00", resp.TotalAmount)
	assert.Equal(t, "5.00", resp.DiscountAmount)
	assert.Equal(t, "175.00", resp.NetAmount)
	assert.Equal(t, "17.50", resp.CommissionAmount)
	assert.Equal(t, model.SaleStatusCompleted, resp.Status)

	require.Len(t, resp.Details, 1)
	line := resp.Details[0]
	assert.Equal(t, "200.00", line.TotalPrice)
	assert.Equal(t, "20.00", line.DiscountAmount)
	assert.Equal(t, "180.00", line.NetPrice)

	prefix := "INV-" + time.Now().Format("20060102") + "-"
	assert.Equal(t, prefix+"00001", resp.InvoiceNo)

	product, err := f.products.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 8, product.StockQuantity)

	assert.Contains(t, f.audit.actions(), model.ActionCreateSale)
	assert.True(t, f.hub.has("sale_completed"))
	assert.False(t, f.hub.has("critical_stock"))
}

func TestCreateSaleDefaultsStoreFromEmployee(t *testing.T) {
	f := newSaleFixture(t)

	resp, err := f.svc.CreateSale(context.Background(), 7, validSaleRequest())
	require.NoError(t, err)
	assert.Equal(t, uint(1), resp.StoreID)
}

func TestCreateSaleBroadcastsCriticalStock(t *testing.T) {
	f := newSaleFixture(t)
	f.products.products[1].CriticalStockLevel = 8 // 10 - 2 lands on the alert level

	_, err := f.svc.CreateSale(context.Background(), 7, validSaleRequest())
	require.NoError(t, err)
	assert.True(t, f.hub.has("critical_stock"))
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	f := newSaleFixture(t)

	req := validSaleRequest()
	req.Items[0].Quantity = 11

	_, err := f.svc.CreateSale(context.Background(), 7, req)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	product, findErr := f.products.FindByID(context.Background(), 1)
	require.NoError(t, findErr)
	assert.Equal(t, 10, product.StockQuantity)
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.audit.entries)
	assert.Empty(t, f.hub.events)
}

func TestCreateSaleInactiveCustomer(t *testing.T) {
	f := newSaleFixture(t)
	f.customers.add(model.Customer{ID: 2, FirstName: "Eski", LastName: "Musteri", IsActive: false})

	req := validSaleRequest()
	req.CustomerID = 2

	_, err := f.svc.CreateSale(context.Background(), 7, req)
	assert.ErrorIs(t, err, apperr.ErrReferenceNotFound)
}

func TestCreateSaleUnknownProduct(t *testing.T) {
	f := newSaleFixture(t)

	req := validSaleRequest()
	req.Items[0].ProductID = 99

	_, err := f.svc.CreateSale(context.Background(), 7, req)
	assert.ErrorIs(t, err, apperr.ErrReferenceNotFound)
}

func TestCreateSaleDiscountValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateSaleRequest)
		wantErr error
	}{
		{
			name:    "negative sale discount",
			mutate:  func(r *CreateSaleRequest) { r.DiscountAmount = "-1.00" },
			wantErr: apperr.ErrInvalidDiscount,
		},
		{
			name:    "discount exceeds total",
			mutate:  func(r *CreateSaleRequest) { r.DiscountAmount = "200.01" },
			wantErr: apperr.ErrInvalidDiscount,
		},
		{
			name:    "malformed discount",
			mutate:  func(r *CreateSaleRequest) { r.DiscountAmount = "abc" },
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "discount rate above 100",
			mutate:  func(r *CreateSaleRequest) { r.Items[0].DiscountRate = "101" },
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "negative discount rate",
			mutate:  func(r *CreateSaleRequest) { r.Items[0].DiscountRate = "-5" },
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "zero quantity",
			mutate:  func(r *CreateSaleRequest) { r.Items[0].Quantity = 0 },
			wantErr: apperr.ErrValidation,
		},
		{
			name:    "no lines",
			mutate:  func(r *CreateSaleRequest) { r.Items = nil },
			wantErr: apperr.ErrValidation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newSaleFixture(t)
			req := validSaleRequest()
			tc.mutate(&req)

			_, err := f.svc.CreateSale(context.Background(), 7, req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, f.sales.sales)
		})
	}
}

func TestCreateSaleInvoiceNumbersIncrement(t *testing.T) {
	f := newSaleFixture(t)

	for i := 1; i <= 3; i++ {
		resp, err := f.svc.CreateSale(context.Background(), 7, validSaleRequest())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-%s-%05d", time.Now().Format("20060102"), i), resp.InvoiceNo)
	}
}

func TestUpdateStatusCancelsSale(t *testing.T) {
	f := newSaleFixture(t)

	created, err := f.svc.CreateSale(context.Background(), 7, validSaleRequest())
	require.NoError(t, err)

	resp, err := f.svc.UpdateStatus(context.Background(), 7, created.ID, model.SaleStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusCancelled, resp.Status)

	// Stock is not restored on cancellation.
	product, findErr := f.products.FindByID(context.Background(), 1)
	require.NoError(t, findErr)
	assert.Equal(t, 8, product.StockQuantity)
}

func TestUpdateStatusRejectsSecondTransition(t *testing.T) {
	f := newSaleFixture(t)

	created, err := f.svc.CreateSale(context.Background(), 7, validSaleRequest())
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), 7, created.ID, model.SaleStatusRefunded)
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(context.Background(), 7, created.ID, model.SaleStatusCancelled)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	resp, err := f.svc.GetSale(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.SaleStatusRefunded, resp.Status)
}

func TestUpdateStatusRejectsInvalidTarget(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), 7, 1, "COMPLETED")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateStatusUnknownSale(t *testing.T) {
	f := newSaleFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), 7, 42, model.SaleStatusCancelled)
	assert.ErrorIs(t, err, apperr.ErrReferenceNotFound)
}

func TestCreateSaleWithNilHub(t *testing.T) {
	f := newSaleFixture(t)
	f.svc = NewSaleService(f.sales, f.products, f.customers, f.employees, f.audit, &mockTxManager{}, nil)

	_, err := f.svc.CreateSale(context.Background(), 7, validSaleRequest())
	assert.NoError(t, err)
}
