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

type SaleLineRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice    string `json:"unit_price" binding:"required"` // decimal string
	DiscountRate string `json:"discount_rate"`                 // percentage 0..100, decimal string
}

type CreateSaleRequest struct {
	CustomerID     uint              `json:"customer_id" binding:"required"`
	EmployeeID     uint              `json:"employee_id" binding:"required"`
	StoreID        uint              `json:"store_id"` // defaults to the employee's store
	PaymentMethod  string            `json:"payment_method" binding:"required,oneof=CASH CREDIT_CARD BANK_TRANSFER"`
	DiscountAmount string            `json:"discount_amount"` // sale-level discount, decimal string
	Notes          string            `json:"notes"`
	Items          []SaleLineRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateSaleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=CANCELLED REFUNDED"`
}

type SaleLineResponse struct {
	ProductID      uint   `json:"product_id"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	DiscountRate   string `json:"discount_rate"`
	DiscountAmount string `json:"discount_amount"`
	TotalPrice     string `json:"total_price"`
	NetPrice       string `json:"net_price"`
}

type SaleResponse struct {
	ID               uint               `json:"id"`
	InvoiceNo        string             `json:"invoice_no"`
	SaleDate         string             `json:"sale_date"`
	CustomerID       uint               `json:"customer_id"`
	CustomerName     string             `json:"customer_name"`
	EmployeeID       uint               `json:"employee_id"`
	EmployeeName     string             `json:"employee_name"`
	StoreID          uint               `json:"store_id"`
	TotalAmount      string             `json:"total_amount"`
	DiscountAmount   string             `json:"discount_amount"`
	NetAmount        string             `json:"net_amount"`
	CommissionAmount string             `json:"commission_amount"`
	PaymentMethod    string             `json:"payment_method"`
	Status           string             `json:"status"`
	Notes            string             `json:"notes"`
	Details          []SaleLineResponse `json:"details"`
}

// EventBroadcaster pushes real-time events to connected back-office clients.
// A nil broadcaster disables notifications.
type EventBroadcaster interface {
	BroadcastEvent(event string, data map[string]interface{})
}

type SaleService interface {
	CreateSale(ctx context.Context, userID uint, req CreateSaleRequest) (SaleResponse, error)
	UpdateStatus(ctx context.Context, userID uint, id uint, status string) (SaleResponse, error)
	GetSale(ctx context.Context, id uint) (SaleResponse, error)
	ListSales(ctx context.Context, filter repository.SaleFilter, page, limit int) ([]SaleResponse, int64, error)
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	employeeRepo repository.EmployeeRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	hub          EventBroadcaster
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	employeeRepo repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	hub EventBroadcaster,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		employeeRepo: employeeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		hub:          hub,
	}
}

// parsedLine carries a validated request line through the workflow.
type parsedLine struct {
	productID      uint
	quantity       int
	unitPrice      decimal.Decimal
	discountRate   decimal.Decimal
	discountAmount decimal.Decimal
	totalPrice     decimal.Decimal
	netPrice       decimal.Decimal
	productName    string
}

// CreateSale runs the whole checkout inside one transaction: reference
// resolution, line math, stock decrement under row locks, invoice numbering
// and persistence. Any failure rolls back every write.
func (s *saleService) CreateSale(ctx context.Context, userID uint, req CreateSaleRequest) (SaleResponse, error) {
	lines, err := parseSaleLines(req.Items)
	if err != nil {
		return SaleResponse{}, err
	}

	discountAmount := decimal.Zero
	if req.DiscountAmount != "" {
		discountAmount, err = decimal.NewFromString(req.DiscountAmount)
		if err != nil {
			return SaleResponse{}, fmt.Errorf("discount_amount is not a valid decimal: %w", apperr.ErrValidation)
		}
	}
	if discountAmount.IsNegative() {
		return SaleResponse{}, fmt.Errorf("discount_amount must not be negative: %w", apperr.ErrInvalidDiscount)
	}

	var saleID uint
	var criticalProducts []*model.Product

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		customer, findErr := s.customerRepo.FindByID(txCtx, req.CustomerID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("customer %d: %w", req.CustomerID, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load customer: %w", findErr)
		}
		if !customer.IsActive {
			return fmt.Errorf("customer %d is inactive: %w", req.CustomerID, apperr.ErrReferenceNotFound)
		}

		employee, findErr := s.employeeRepo.FindByID(txCtx, req.EmployeeID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("employee %d: %w", req.EmployeeID, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load employee: %w", findErr)
		}
		if !employee.IsActive {
			return fmt.Errorf("employee %d is inactive: %w", req.EmployeeID, apperr.ErrReferenceNotFound)
		}

		storeID := req.StoreID
		if storeID == 0 {
			storeID = employee.StoreID
		}

		// Lock each product row, check stock, compute line totals.
		totalAmount := decimal.Zero
		sumLineNet := decimal.Zero
		products := make(map[uint]*model.Product, len(lines))

		for i := range lines {
			line := &lines[i]

			product, lockErr := s.productRepo.FindByIDForUpdate(txCtx, line.productID)
			if lockErr != nil {
				if errors.Is(lockErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", line.productID, apperr.ErrReferenceNotFound)
				}
				return fmt.Errorf("failed to lock product %d: %w", line.productID, lockErr)
			}
			if !product.IsActive {
				return fmt.Errorf("product %q is inactive: %w", product.Name, apperr.ErrReferenceNotFound)
			}
			if line.quantity > product.StockQuantity {
				return fmt.Errorf("product %q has %d in stock, %d requested: %w",
					product.Name, product.StockQuantity, line.quantity, apperr.ErrInsufficientStock)
			}

			qty := decimal.NewFromInt(int64(line.quantity))
			line.totalPrice = money.Round(line.unitPrice.Mul(qty))
			line.discountAmount = money.Round(line.totalPrice.Mul(money.Percent(line.discountRate)))
			line.netPrice = line.totalPrice.Sub(line.discountAmount)
			line.productName = product.Name

			totalAmount = totalAmount.Add(line.totalPrice)
			sumLineNet = sumLineNet.Add(line.netPrice)
			products[product.ID] = product
		}

		if discountAmount.GreaterThan(totalAmount) {
			return fmt.Errorf("discount %s exceeds sale total %s: %w",
				discountAmount.StringFixed(2), totalAmount.StringFixed(2), apperr.ErrInvalidDiscount)
		}

		netAmount := money.Round(sumLineNet.Sub(discountAmount))
		commissionAmount := money.Round(netAmount.Mul(employee.CommissionRate))

		invoiceNo, invErr := s.saleRepo.NextInvoiceNo(txCtx, invoicePrefix(time.Now()))
		if invErr != nil {
			return fmt.Errorf("failed to generate invoice number: %w", invErr)
		}

		sale := model.Sale{
			SaleDate:         time.Now(),
			CustomerID:       customer.ID,
			EmployeeID:       employee.ID,
			StoreID:          storeID,
			TotalAmount:      money.Round(totalAmount),
			DiscountAmount:   money.Round(discountAmount),
			NetAmount:        netAmount,
			CommissionAmount: commissionAmount,
			PaymentMethod:    req.PaymentMethod,
			Status:           model.SaleStatusCompleted,
			InvoiceNo:        invoiceNo,
			Notes:            req.Notes,
			CreatedBy:        &userID,
		}
		if createErr := s.saleRepo.Create(txCtx, &sale); createErr != nil {
			return fmt.Errorf("failed to create sale: %w", translateDBError(createErr))
		}

		for _, line := range lines {
			detail := &model.SaleDetail{
				SaleID:         sale.ID,
				ProductID:      line.productID,
				Quantity:       line.quantity,
				UnitPrice:      line.unitPrice,
				DiscountRate:   line.discountRate,
				DiscountAmount: line.discountAmount,
				TotalPrice:     line.totalPrice,
				NetPrice:       line.netPrice,
			}
			if createErr := s.saleRepo.CreateDetail(txCtx, detail); createErr != nil {
				return fmt.Errorf("failed to create sale detail: %w", createErr)
			}

			product := products[line.productID]
			product.StockQuantity -= line.quantity
			if stockErr := s.productRepo.UpdateStock(txCtx, product.ID, product.StockQuantity); stockErr != nil {
				return fmt.Errorf("failed to update stock for %q: %w", product.Name, stockErr)
			}
			if product.IsCritical() {
				criticalProducts = append(criticalProducts, product)
			}
		}

		details, _ := json.Marshal(map[string]interface{}{
			"invoice_no":  invoiceNo,
			"customer_id": customer.ID,
			"employee_id": employee.ID,
			"net_amount":  netAmount.StringFixed(2),
			"commission":  commissionAmount.StringFixed(2),
			"line_count":  len(lines),
		})
		audit := &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreateSale,
			EntityID:   fmt.Sprint(sale.ID),
			EntityName: invoiceNo,
			Details:    string(details),
		}
		if auditErr := s.auditRepo.Log(txCtx, audit); auditErr != nil {
			return fmt.Errorf("failed to write audit log: %w", auditErr)
		}

		saleID = sale.ID
		return nil
	})

	if err != nil {
		return SaleResponse{}, err
	}

	// Notifications go out only after the transaction committed.
	if s.hub != nil {
		s.hub.BroadcastEvent("sale_completed", map[string]interface{}{"sale_id": saleID})
		for _, p := range criticalProducts {
			s.hub.BroadcastEvent("critical_stock", map[string]interface{}{
				"product_id": p.ID,
				"name":       p.Name,
				"stock":      p.StockQuantity,
				"critical":   p.CriticalStockLevel,
			})
		}
	}

	return s.GetSale(ctx, saleID)
}

// UpdateStatus moves a completed sale to CANCELLED or REFUNDED. Stock is not
// restored on cancellation; the decrement from the original sale stands.
func (s *saleService) UpdateStatus(ctx context.Context, userID uint, id uint, status string) (SaleResponse, error) {
	if status != model.SaleStatusCancelled && status != model.SaleStatusRefunded {
		return SaleResponse{}, fmt.Errorf("status must be CANCELLED or REFUNDED: %w", apperr.ErrValidation)
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		sale, findErr := s.saleRepo.FindByIDWithDetails(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("sale %d: %w", id, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load sale: %w", findErr)
		}

		if sale.Status != model.SaleStatusCompleted {
			return fmt.Errorf("sale %d is already %s: %w", id, sale.Status, apperr.ErrInvalidState)
		}

		if updErr := s.saleRepo.UpdateStatus(txCtx, id, status, &userID); updErr != nil {
			return fmt.Errorf("failed to update sale status: %w", updErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"invoice_no": sale.InvoiceNo,
			"from":       sale.Status,
			"to":         status,
		})
		audit := &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionUpdateSale,
			EntityID:   fmt.Sprint(sale.ID),
			EntityName: sale.InvoiceNo,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})

	if err != nil {
		return SaleResponse{}, err
	}

	return s.GetSale(ctx, id)
}

func (s *saleService) GetSale(ctx context.Context, id uint) (SaleResponse, error) {
	sale, err := s.saleRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SaleResponse{}, fmt.Errorf("sale %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return SaleResponse{}, fmt.Errorf("failed to load sale: %w", err)
	}
	return toSaleResponse(*sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter repository.SaleFilter, page, limit int) ([]SaleResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	sales, total, err := s.saleRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch sales: %w", err)
	}

	result := make([]SaleResponse, 0, len(sales))
	for _, sale := range sales {
		result = append(result, toSaleResponse(sale))
	}
	return result, total, nil
}

// --- Helpers ---

func parseSaleLines(items []SaleLineRequest) ([]parsedLine, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("sale must contain at least one line: %w", apperr.ErrValidation)
	}

	hundred := decimal.NewFromInt(100)
	lines := make([]parsedLine, 0, len(items))
	for i, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("line %d: quantity must be positive: %w", i+1, apperr.ErrValidation)
		}

		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("line %d: unit_price is not a valid decimal: %w", i+1, apperr.ErrValidation)
		}
		if !unitPrice.IsPositive() {
			return nil, fmt.Errorf("line %d: unit_price must be positive: %w", i+1, apperr.ErrValidation)
		}

		discountRate := decimal.Zero
		if item.DiscountRate != "" {
			discountRate, err = decimal.NewFromString(item.DiscountRate)
			if err != nil {
				return nil, fmt.Errorf("line %d: discount_rate is not a valid decimal: %w", i+1, apperr.ErrValidation)
			}
		}
		if discountRate.IsNegative() || discountRate.GreaterThan(hundred) {
			return nil, fmt.Errorf("line %d: discount_rate must be between 0 and 100: %w", i+1, apperr.ErrValidation)
		}

		lines = append(lines, parsedLine{
			productID:    item.ProductID,
			quantity:     item.Quantity,
			unitPrice:    unitPrice,
			discountRate: discountRate,
		})
	}
	return lines, nil
}

func invoicePrefix(t time.Time) string {
	return "INV-" + t.Format("20060102") + "-"
}

func toSaleResponse(sale model.Sale) SaleResponse {
	resp := SaleResponse{
		ID:               sale.ID,
		InvoiceNo:        sale.InvoiceNo,
		SaleDate:         sale.SaleDate.Format(time.RFC3339),
		CustomerID:       sale.CustomerID,
		EmployeeID:       sale.EmployeeID,
		StoreID:          sale.StoreID,
		TotalAmount:      sale.TotalAmount.StringFixed(2),
		DiscountAmount:   sale.DiscountAmount.StringFixed(2),
		NetAmount:        sale.NetAmount.StringFixed(2),
		CommissionAmount: sale.CommissionAmount.StringFixed(2),
		PaymentMethod:    sale.PaymentMethod,
		Status:           sale.Status,
		Notes:            sale.Notes,
	}

	if sale.Customer != nil {
		resp.CustomerName = sale.Customer.FirstName + " " + sale.Customer.LastName
	}
	if sale.Employee != nil {
		resp.EmployeeName = sale.Employee.FullName()
	}

	resp.Details = make([]SaleLineResponse, 0, len(sale.Details))
	for _, d := range sale.Details {
		line := SaleLineResponse{
			ProductID:      d.ProductID,
			Quantity:       d.Quantity,
			UnitPrice:      d.UnitPrice.StringFixed(2),
			DiscountRate:   d.DiscountRate.StringFixed(2),
			DiscountAmount: d.DiscountAmount.StringFixed(2),
			TotalPrice:     d.TotalPrice.StringFixed(2),
			NetPrice:       d.NetPrice.StringFixed(2),
		}
		if d.Product != nil {
			line.ProductName = d.Product.Name
		}
		resp.Details = append(resp.Details, line)
	}

	return resp
}
