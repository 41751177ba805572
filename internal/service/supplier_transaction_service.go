package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/pkg/apperr"
	"retailpos/pkg/money"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type PurchaseItemRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
	UnitCost  string `json:"unit_cost" binding:"required"` // decimal string
}

type CreateSupplierTransactionRequest struct {
	SupplierID   uint                  `json:"supplier_id" binding:"required"`
	Type         string                `json:"type" binding:"required,oneof=PURCHASE PAYMENT RETURN"`
	Amount       string                `json:"amount"`        // required for PAYMENT/RETURN; derived for PURCHASE
	Currency     string                `json:"currency" binding:"omitempty,oneof=TL USD EUR GBP"`
	ExchangeRate string                `json:"exchange_rate"` // decimal string, defaults to 1
	Notes        string                `json:"notes"`
	Items        []PurchaseItemRequest `json:"items" binding:"omitempty,dive"`
}

type SupplierTransactionResponse struct {
	ID           uint   `json:"id"`
	SupplierID   uint   `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	Type         string `json:"type"`
	ReferenceNo  string `json:"reference_no"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	ExchangeRate string `json:"exchange_rate"`
	AmountTL     string `json:"amount_tl"`
	ItemCount    int    `json:"item_count"`
	Notes        string `json:"notes"`
	CreatedAt    string `json:"created_at"`
}

type SupplierTransactionService interface {
	Create(ctx context.Context, userID uint, req CreateSupplierTransactionRequest) (SupplierTransactionResponse, error)
	Get(ctx context.Context, id uint) (SupplierTransactionResponse, error)
	List(ctx context.Context, supplierID uint, txType string, page, limit int) ([]SupplierTransactionResponse, int64, error)
}

type supplierTxService struct {
	txRepo       repository.SupplierTransactionRepository
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewSupplierTransactionService(
	txRepo repository.SupplierTransactionRepository,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) SupplierTransactionService {
	return &supplierTxService{
		txRepo:       txRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

// Create records a supplier transaction. PURCHASE transactions carry item
// lines and increase product stock under row locks, all in one database
// transaction; PAYMENT and RETURN only record amounts. A RETURN does not
// decrement stock, mirroring how sale cancellation leaves stock untouched.
func (s *supplierTxService) Create(ctx context.Context, userID uint, req CreateSupplierTransactionRequest) (SupplierTransactionResponse, error) {
	currency := req.Currency
	if currency == "" {
		currency = model.CurrencyTL
	}

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != "" {
		parsed, err := decimal.NewFromString(req.ExchangeRate)
		if err != nil {
			return SupplierTransactionResponse{}, fmt.Errorf("exchange_rate is not a valid decimal: %w", apperr.ErrValidation)
		}
		exchangeRate = parsed
	}
	if !exchangeRate.IsPositive() {
		return SupplierTransactionResponse{}, fmt.Errorf("exchange_rate must be greater than 0: %w", apperr.ErrValidation)
	}

	if req.Type == model.SupplierTxPurchase && len(req.Items) == 0 {
		return SupplierTransactionResponse{}, fmt.Errorf("purchase requires at least one item: %w", apperr.ErrValidation)
	}
	if req.Type != model.SupplierTxPurchase && len(req.Items) > 0 {
		return SupplierTransactionResponse{}, fmt.Errorf("%s transactions cannot carry items: %w", req.Type, apperr.ErrValidation)
	}

	type parsedItem struct {
		productID uint
		quantity  int
		unitCost  decimal.Decimal
	}
	items := make([]parsedItem, 0, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return SupplierTransactionResponse{}, fmt.Errorf("item %d: quantity must be positive: %w", i+1, apperr.ErrValidation)
		}
		unitCost, err := decimal.NewFromString(item.UnitCost)
		if err != nil || !unitCost.IsPositive() {
			return SupplierTransactionResponse{}, fmt.Errorf("item %d: unit_cost must be a positive decimal: %w", i+1, apperr.ErrValidation)
		}
		items = append(items, parsedItem{productID: item.ProductID, quantity: item.Quantity, unitCost: unitCost})
	}

	amount := decimal.Zero
	if req.Type == model.SupplierTxPurchase {
		for _, item := range items {
			amount = amount.Add(item.unitCost.Mul(decimal.NewFromInt(int64(item.quantity))))
		}
	} else {
		if req.Amount == "" {
			return SupplierTransactionResponse{}, fmt.Errorf("amount is required for %s: %w", req.Type, apperr.ErrValidation)
		}
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil || !parsed.IsPositive() {
			return SupplierTransactionResponse{}, fmt.Errorf("amount must be a positive decimal: %w", apperr.ErrValidation)
		}
		amount = parsed
	}
	amount = money.Round(amount)

	var txID uint
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		supplier, findErr := s.supplierRepo.FindByID(txCtx, req.SupplierID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("supplier %d: %w", req.SupplierID, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load supplier: %w", findErr)
		}
		if !supplier.IsActive {
			return fmt.Errorf("supplier %d is inactive: %w", req.SupplierID, apperr.ErrReferenceNotFound)
		}

		referenceNo, refErr := s.txRepo.NextReferenceNo(txCtx, purchasePrefix(req.Type, time.Now()))
		if refErr != nil {
			return fmt.Errorf("failed to generate reference number: %w", refErr)
		}

		tx := model.SupplierTransaction{
			SupplierID:      supplier.ID,
			Type:            req.Type,
			TransactionDate: time.Now(),
			Amount:          amount,
			Currency:        currency,
			ExchangeRate:    exchangeRate,
			AmountTL:        money.Round(amount.Mul(exchangeRate)),
			ReferenceNo:     referenceNo,
			Notes:           req.Notes,
			CreatedBy:       &userID,
		}
		if createErr := s.txRepo.Create(txCtx, &tx); createErr != nil {
			return fmt.Errorf("failed to create supplier transaction: %w", translateDBError(createErr))
		}

		for _, item := range items {
			product, lockErr := s.productRepo.FindByIDForUpdate(txCtx, item.productID)
			if lockErr != nil {
				if errors.Is(lockErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", item.productID, apperr.ErrReferenceNotFound)
				}
				return fmt.Errorf("failed to lock product %d: %w", item.productID, lockErr)
			}

			line := &model.SupplierTransactionItem{
				TransactionID: tx.ID,
				ProductID:     product.ID,
				Quantity:      item.quantity,
				UnitCost:      item.unitCost,
			}
			if createErr := s.txRepo.CreateItem(txCtx, line); createErr != nil {
				return fmt.Errorf("failed to create transaction item: %w", createErr)
			}

			if stockErr := s.productRepo.UpdateStock(txCtx, product.ID, product.StockQuantity+item.quantity); stockErr != nil {
				return fmt.Errorf("failed to update stock for %q: %w", product.Name, stockErr)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"reference_no": referenceNo,
			"type":         req.Type,
			"supplier_id":  supplier.ID,
			"amount_tl":    tx.AmountTL.StringFixed(2),
			"item_count":   len(items),
		})
		audit := &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreatePurchase,
			EntityID:   fmt.Sprint(tx.ID),
			EntityName: referenceNo,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		txID = tx.ID
		return nil
	})

	if err != nil {
		return SupplierTransactionResponse{}, err
	}

	return s.Get(ctx, txID)
}

func (s *supplierTxService) Get(ctx context.Context, id uint) (SupplierTransactionResponse, error) {
	tx, err := s.txRepo.FindByIDWithItems(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SupplierTransactionResponse{}, fmt.Errorf("supplier transaction %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return SupplierTransactionResponse{}, fmt.Errorf("failed to load supplier transaction: %w", err)
	}
	return toSupplierTxResponse(*tx), nil
}

func (s *supplierTxService) List(ctx context.Context, supplierID uint, txType string, page, limit int) ([]SupplierTransactionResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	txs, total, err := s.txRepo.List(ctx, supplierID, txType, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch supplier transactions: %w", err)
	}

	result := make([]SupplierTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		result = append(result, toSupplierTxResponse(tx))
	}
	return result, total, nil
}

// --- Helpers ---

func purchasePrefix(txType string, t time.Time) string {
	prefix := "PUR-"
	switch txType {
	case model.SupplierTxPayment:
		prefix = "PAY-"
	case model.SupplierTxReturn:
		prefix = "RET-"
	}
	return prefix + t.Format("20060102") + "-"
}

func toSupplierTxResponse(tx model.SupplierTransaction) SupplierTransactionResponse {
	resp := SupplierTransactionResponse{
		ID:           tx.ID,
		SupplierID:   tx.SupplierID,
		Type:         tx.Type,
		ReferenceNo:  tx.ReferenceNo,
		Amount:       tx.Amount.StringFixed(2),
		Currency:     tx.Currency,
		ExchangeRate: tx.ExchangeRate.String(),
		AmountTL:     tx.AmountTL.StringFixed(2),
		ItemCount:    len(tx.Items),
		Notes:        tx.Notes,
		CreatedAt:    tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.Supplier != nil {
		resp.SupplierName = tx.Supplier.Name
	}
	return resp
}
