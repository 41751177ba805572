package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/pkg/apperr"
	"retailpos/pkg/money"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type CreateProductRequest struct {
	Name               string `json:"name" binding:"required"`
	Barcode            string `json:"barcode" binding:"required"`
	Price              string `json:"price" binding:"required"`      // decimal string
	CostPrice          string `json:"cost_price"`                    // decimal string
	StockQuantity      int    `json:"stock_quantity" binding:"min=0"`
	CriticalStockLevel int    `json:"critical_stock_level" binding:"min=0"`
	Unit               string `json:"unit"`
	CategoryID         uint   `json:"category_id" binding:"required"`
}

type UpdateProductRequest struct {
	Name               string `json:"name" binding:"required"`
	Barcode            string `json:"barcode" binding:"required"`
	Price              string `json:"price" binding:"required"`
	CostPrice          string `json:"cost_price"`
	CriticalStockLevel int    `json:"critical_stock_level" binding:"min=0"`
	Unit               string `json:"unit"`
	CategoryID         uint   `json:"category_id" binding:"required"`
	IsActive           *bool  `json:"is_active"`
}

type ProductResponse struct {
	ID                 uint   `json:"id"`
	Name               string `json:"name"`
	Barcode            string `json:"barcode"`
	Price              string `json:"price"`
	CostPrice          string `json:"cost_price"`
	StockQuantity      int    `json:"stock_quantity"`
	CriticalStockLevel int    `json:"critical_stock_level"`
	Unit               string `json:"unit"`
	CategoryID         uint   `json:"category_id"`
	CategoryName       string `json:"category_name"`
	IsActive           bool   `json:"is_active"`
}

// CatalogService manages categories and products. Stock quantities are only
// adjusted by the sale and purchasing workflows, never through product update.
type CatalogService interface {
	CreateCategory(ctx context.Context, userID uint, req CreateCategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, userID uint, id uint, req CreateCategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, userID uint, id uint) error
	ListCategories(ctx context.Context, page, limit int) ([]model.Category, int64, error)

	CreateProduct(ctx context.Context, userID uint, req CreateProductRequest) (ProductResponse, error)
	UpdateProduct(ctx context.Context, userID uint, id uint, req UpdateProductRequest) (ProductResponse, error)
	DeleteProduct(ctx context.Context, userID uint, id uint) error
	GetProduct(ctx context.Context, id uint) (ProductResponse, error)
	ListProducts(ctx context.Context, filter repository.ProductFilter, page, limit int) ([]ProductResponse, int64, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
	}
}

func (s *catalogService) CreateCategory(ctx context.Context, userID uint, req CreateCategoryRequest) (*model.Category, error) {
	if _, err := s.categoryRepo.FindByName(ctx, req.Name); err == nil {
		return nil, fmt.Errorf("category %q already exists: %w", req.Name, apperr.ErrDuplicateKey)
	}

	category := model.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.categoryRepo.Create(txCtx, &category); createErr != nil {
			return fmt.Errorf("failed to create category: %w", translateDBError(createErr))
		}
		return s.logEntityAudit(txCtx, userID, model.ActionCreateEntity, "category", category.ID, category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *catalogService) UpdateCategory(ctx context.Context, userID uint, id uint, req CreateCategoryRequest) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}

	category.Name = req.Name
	category.Description = req.Description

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updErr := s.categoryRepo.Update(txCtx, category); updErr != nil {
			return fmt.Errorf("failed to update category: %w", translateDBError(updErr))
		}
		return s.logEntityAudit(txCtx, userID, model.ActionUpdateEntity, "category", category.ID, category.Name, req)
	})
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(ctx context.Context, userID uint, id uint) error {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("category %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to load category: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.categoryRepo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete category: %w", delErr)
		}
		return s.logEntityAudit(txCtx, userID, model.ActionDeleteEntity, "category", id, category.Name, nil)
	})
}

func (s *catalogService) ListCategories(ctx context.Context, page, limit int) ([]model.Category, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.categoryRepo.List(ctx, page, limit)
}

func (s *catalogService) CreateProduct(ctx context.Context, userID uint, req CreateProductRequest) (ProductResponse, error) {
	price, costPrice, err := parsePrices(req.Price, req.CostPrice)
	if err != nil {
		return ProductResponse{}, err
	}

	product := model.Product{
		Name:               req.Name,
		Barcode:            req.Barcode,
		Price:              price,
		CostPrice:          costPrice,
		StockQuantity:      req.StockQuantity,
		CriticalStockLevel: req.CriticalStockLevel,
		Unit:               req.Unit,
		CategoryID:         req.CategoryID,
		IsActive:           true,
	}
	if product.Unit == "" {
		product.Unit = "pcs"
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.categoryRepo.FindByID(txCtx, req.CategoryID); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("category %d: %w", req.CategoryID, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load category: %w", findErr)
		}

		if createErr := s.productRepo.Create(txCtx, &product); createErr != nil {
			return fmt.Errorf("failed to create product: %w", translateDBError(createErr))
		}
		return s.logEntityAudit(txCtx, userID, model.ActionCreateProduct, "product", product.ID, product.Name, req)
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(product), nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, userID uint, id uint, req UpdateProductRequest) (ProductResponse, error) {
	price, costPrice, err := parsePrices(req.Price, req.CostPrice)
	if err != nil {
		return ProductResponse{}, err
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, fmt.Errorf("product %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return ProductResponse{}, fmt.Errorf("failed to load product: %w", err)
	}

	product.Name = req.Name
	product.Barcode = req.Barcode
	product.Price = price
	product.CostPrice = costPrice
	product.CriticalStockLevel = req.CriticalStockLevel
	product.CategoryID = req.CategoryID
	if req.Unit != "" {
		product.Unit = req.Unit
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updErr := s.productRepo.Update(txCtx, product); updErr != nil {
			return fmt.Errorf("failed to update product: %w", translateDBError(updErr))
		}
		return s.logEntityAudit(txCtx, userID, model.ActionUpdateProduct, "product", product.ID, product.Name, req)
	})
	if err != nil {
		return ProductResponse{}, err
	}

	return toProductResponse(*product), nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, userID uint, id uint) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.productRepo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete product: %w", delErr)
		}
		return s.logEntityAudit(txCtx, userID, model.ActionDeleteProduct, "product", id, product.Name, nil)
	})
}

func (s *catalogService) GetProduct(ctx context.Context, id uint) (ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProductResponse{}, fmt.Errorf("product %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return ProductResponse{}, fmt.Errorf("failed to load product: %w", err)
	}
	return toProductResponse(*product), nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, page, limit int) ([]ProductResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	products, total, err := s.productRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	result := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		result = append(result, toProductResponse(p))
	}
	return result, total, nil
}

// --- Helpers ---

func (s *catalogService) logEntityAudit(ctx context.Context, userID uint, action, kind string, id uint, name string, payload interface{}) error {
	details := "{}"
	if payload != nil {
		raw, _ := json.Marshal(payload)
		details = string(raw)
	}
	audit := &model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   fmt.Sprintf("%s:%d", kind, id),
		EntityName: name,
		Details:    details,
	}
	return s.auditRepo.Log(ctx, audit)
}

func parsePrices(priceStr, costStr string) (decimal.Decimal, decimal.Decimal, error) {
	price, err := decimal.NewFromString(priceStr)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("price must be a positive decimal: %w", apperr.ErrValidation)
	}

	costPrice := decimal.Zero
	if costStr != "" {
		costPrice, err = decimal.NewFromString(costStr)
		if err != nil || costPrice.IsNegative() {
			return decimal.Zero, decimal.Zero, fmt.Errorf("cost_price must be a non-negative decimal: %w", apperr.ErrValidation)
		}
	}

	return money.Round(price), money.Round(costPrice), nil
}

func toProductResponse(p model.Product) ProductResponse {
	resp := ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Barcode:            p.Barcode,
		Price:              p.Price.StringFixed(2),
		CostPrice:          p.CostPrice.StringFixed(2),
		StockQuantity:      p.StockQuantity,
		CriticalStockLevel: p.CriticalStockLevel,
		Unit:               p.Unit,
		CategoryID:         p.CategoryID,
		IsActive:           p.IsActive,
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
}
