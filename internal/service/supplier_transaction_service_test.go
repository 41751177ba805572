package service

import (
	"context"
	"strings"
	"testing"

	"retailpos/internal/model"
	"retailpos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type supplierTxFixture struct {
	svc       SupplierTransactionService
	txs       *mockSupplierTxRepo
	suppliers *mockSupplierRepo
	products  *mockProductRepo
	audit     *mockAuditRepo
}

func newSupplierTxFixture(t *testing.T) *supplierTxFixture {
	f := &supplierTxFixture{
		txs:       newMockSupplierTxRepo(),
		suppliers: newMockSupplierRepo(),
		products:  newMockProductRepo(),
		audit:     &mockAuditRepo{},
	}
	f.suppliers.add(model.Supplier{ID: 1, Name: "Anadolu Gida", IsActive: true})
	f.products.add(model.Product{
		ID:            1,
		Name:          "Olive Oil 1L",
		Barcode:       "8690000000028",
		Price:         dec(t, "250.00"),
		StockQuantity: 5,
		CategoryID:    1,
		IsActive:      true,
	})
	f.svc = NewSupplierTransactionService(f.txs, f.suppliers, f.products, f.audit, &mockTxManager{})
	return f
}

func TestCreatePurchaseIncrementsStock(t *testing.T) {
	f := newSupplierTxFixture(t)

	resp, err := f.svc.Create(context.Background(), 4, CreateSupplierTransactionRequest{
		SupplierID: 1,
		Type:       model.SupplierTxPurchase,
		Items: []PurchaseItemRequest{
			{ProductID: 1, Quantity: 12, UnitCost: "180.00"},
		},
	})
	require.NoError(t, err)

	// Amount is derived from the item lines, never taken from the request.
	assert.Equal(t, "2160.00", resp.Amount)
	assert.Equal(t, model.CurrencyTL, resp.Currency)
	assert.True(t, strings.HasPrefix(resp.ReferenceNo, "PUR-"))
	assert.Equal(t, 1, resp.ItemCount)

	product, findErr := f.products.FindByID(context.Background(), 1)
	require.NoError(t, findErr)
	assert.Equal(t, 17, product.StockQuantity)

	assert.Contains(t, f.audit.actions(), model.ActionCreatePurchase)
}

func TestCreatePurchaseRequiresItems(t *testing.T) {
	f := newSupplierTxFixture(t)

	_, err := f.svc.Create(context.Background(), 4, CreateSupplierTransactionRequest{
		SupplierID: 1,
		Type:       model.SupplierTxPurchase,
		Amount:     "100.00",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreatePaymentRejectsItems(t *testing.T) {
	f := newSupplierTxFixture(t)

	_, err := f.svc.Create(context.Background(), 4, CreateSupplierTransactionRequest{
		SupplierID: 1,
		Type:       model.SupplierTxPayment,
		Amount:     "100.00",
		Items: []PurchaseItemRequest{
			{ProductID: 1, Quantity: 1, UnitCost: "10.00"},
		},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreatePaymentRequiresAmount(t *testing.T) {
	f := newSupplierTxFixture(t)

	_, err := f.svc.Create(context.Background(), 4, CreateSupplierTransactionRequest{
		SupplierID: 1,
		Type:       model.SupplierTxPayment,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreatePaymentLeavesStockAlone(t *testing.T) {
	f := newSupplierTxFixture(t)

	resp, err := f.svc.Create(context.Background(), 4, CreateSupplierTransactionRequest{
		SupplierID:   1,
		Type:         model.SupplierTxPayment,
		Amount:       "500.00",
		Currency:     model.CurrencyUSD,
		ExchangeRate: "32.5",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ReferenceNo, "PAY-"))
	assert.Equal(t, "16250.00", resp.AmountTL)

	product, findErr := f.products.FindByID(context.Background(), 1)
	require.NoError(t, findErr)
	assert.Equal(t, 5, product.StockQuantity)
}

func TestCreateReturnLeavesStockAlone(t *testing.T) {
	f := newSupplierTxFixture(t)

	resp, err := f.svc.Create(context.Background(), 4, CreateSupplierTransactionRequest{
		SupplierID: 1,
		Type:       model.SupplierTxReturn,
		Amount:     "75.00",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.ReferenceNo, "RET-"))

	product, findErr := f.products.FindByID(context.Background(), 1)
	require.NoError(t, findErr)
	assert.Equal(t, 5, product.StockQuantity)
}

func TestCreateRejectsInactiveSupplier(t *testing.T) {
	f := newSupplierTxFixture(t)
	f.suppliers.add(model.Supplier{ID: 2, Name: "Kapali Firma", IsActive: false})

	_, err := f.svc.Create(context.Background(), 4, CreateSupplierTransactionRequest{
		SupplierID: 2,
		Type:       model.SupplierTxPayment,
		Amount:     "10.00",
	})
	assert.ErrorIs(t, err, apperr.ErrReferenceNotFound)
}

func TestCreatePurchaseUnknownProduct(t *testing.T) {
	f := newSupplierTxFixture(t)

	_, err := f.svc.Create(context.Background(), 4, CreateSupplierTransactionRequest{
		SupplierID: 1,
		Type:       model.SupplierTxPurchase,
		Items: []PurchaseItemRequest{
			{ProductID: 99, Quantity: 1, UnitCost: "10.00"},
		},
	})
	assert.ErrorIs(t, err, apperr.ErrReferenceNotFound)
}
