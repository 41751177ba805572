package service

import (
	"context"
	"errors"
	"fmt"

	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/pkg/apperr"

	"gorm.io/gorm"
)

type SupplierRequest struct {
	Name          string `json:"name" binding:"required"`
	TaxNumber     string `json:"tax_number" binding:"required"`
	ContactPerson string `json:"contact_person"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	IsActive      *bool  `json:"is_active"`
}

type SupplierService interface {
	Create(ctx context.Context, userID uint, req SupplierRequest) (*model.Supplier, error)
	Update(ctx context.Context, userID uint, id uint, req SupplierRequest) (*model.Supplier, error)
	Delete(ctx context.Context, userID uint, id uint) error
	Get(ctx context.Context, id uint) (*model.Supplier, error)
	List(ctx context.Context, search string, page, limit int) ([]model.Supplier, int64, error)
}

type supplierService struct {
	supplierRepo repository.SupplierRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewSupplierService(supplierRepo repository.SupplierRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) SupplierService {
	return &supplierService{supplierRepo: supplierRepo, auditRepo: auditRepo, txManager: txManager}
}

func (s *supplierService) Create(ctx context.Context, userID uint, req SupplierRequest) (*model.Supplier, error) {
	supplier := model.Supplier{
		Name:          req.Name,
		TaxNumber:     req.TaxNumber,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
		IsActive:      true,
	}
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.supplierRepo.Create(txCtx, &supplier); createErr != nil {
			return fmt.Errorf("failed to create supplier: %w", translateDBError(createErr))
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreateEntity,
			EntityID:   fmt.Sprintf("supplier:%d", supplier.ID),
			EntityName: supplier.Name,
			Details:    "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (s *supplierService) Update(ctx context.Context, userID uint, id uint, req SupplierRequest) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}

	supplier.Name = req.Name
	supplier.TaxNumber = req.TaxNumber
	supplier.ContactPerson = req.ContactPerson
	supplier.Phone = req.Phone
	supplier.Email = req.Email
	supplier.Address = req.Address
	if req.IsActive != nil {
		supplier.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updErr := s.supplierRepo.Update(txCtx, supplier); updErr != nil {
			return fmt.Errorf("failed to update supplier: %w", translateDBError(updErr))
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionUpdateEntity,
			EntityID:   fmt.Sprintf("supplier:%d", supplier.ID),
			EntityName: supplier.Name,
			Details:    "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *supplierService) Delete(ctx context.Context, userID uint, id uint) error {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("supplier %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to load supplier: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.supplierRepo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete supplier: %w", delErr)
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionDeleteEntity,
			EntityID:   fmt.Sprintf("supplier:%d", id),
			EntityName: supplier.Name,
			Details:    "{}",
		})
	})
}

func (s *supplierService) Get(ctx context.Context, id uint) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("supplier %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load supplier: %w", err)
	}
	return supplier, nil
}

func (s *supplierService) List(ctx context.Context, search string, page, limit int) ([]model.Supplier, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.supplierRepo.List(ctx, search, page, limit)
}
