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

type CustomerRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	IdentityNumber string `json:"identity_number" binding:"required"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	Address        string `json:"address"`
	IsActive       *bool  `json:"is_active"`
}

type CustomerService interface {
	Create(ctx context.Context, userID uint, req CustomerRequest) (*model.Customer, error)
	Update(ctx context.Context, userID uint, id uint, req CustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, userID uint, id uint) error
	Get(ctx context.Context, id uint) (*model.Customer, error)
	List(ctx context.Context, search string, includeDeleted bool, page, limit int) ([]model.Customer, int64, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
}

func NewCustomerService(customerRepo repository.CustomerRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) CustomerService {
	return &customerService{customerRepo: customerRepo, auditRepo: auditRepo, txManager: txManager}
}

func (s *customerService) Create(ctx context.Context, userID uint, req CustomerRequest) (*model.Customer, error) {
	customer := model.Customer{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		IdentityNumber: req.IdentityNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		IsActive:       true,
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.customerRepo.Create(txCtx, &customer); createErr != nil {
			return fmt.Errorf("failed to create customer: %w", translateDBError(createErr))
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreateEntity,
			EntityID:   fmt.Sprintf("customer:%d", customer.ID),
			EntityName: customer.FirstName + " " + customer.LastName,
			Details:    "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *customerService) Update(ctx context.Context, userID uint, id uint, req CustomerRequest) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}

	customer.FirstName = req.FirstName
	customer.LastName = req.LastName
	customer.IdentityNumber = req.IdentityNumber
	customer.Phone = req.Phone
	customer.Email = req.Email
	customer.Address = req.Address
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updErr := s.customerRepo.Update(txCtx, customer); updErr != nil {
			return fmt.Errorf("failed to update customer: %w", translateDBError(updErr))
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionUpdateEntity,
			EntityID:   fmt.Sprintf("customer:%d", customer.ID),
			EntityName: customer.FirstName + " " + customer.LastName,
			Details:    "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, userID uint, id uint) error {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("customer %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to load customer: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.customerRepo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete customer: %w", delErr)
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionDeleteEntity,
			EntityID:   fmt.Sprintf("customer:%d", id),
			EntityName: customer.FirstName + " " + customer.LastName,
			Details:    "{}",
		})
	})
}

func (s *customerService) Get(ctx context.Context, id uint) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("customer %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) List(ctx context.Context, search string, includeDeleted bool, page, limit int) ([]model.Customer, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.customerRepo.List(ctx, search, includeDeleted, page, limit)
}
