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

type StoreRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	ManagerName string `json:"manager_name"`
	IsActive    *bool  `json:"is_active"`
}

type DepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	StoreID     uint   `json:"store_id" binding:"required"`
	IsActive    *bool  `json:"is_active"`
}

// OrganizationService manages stores and the departments inside them.
type OrganizationService interface {
	CreateStore(ctx context.Context, userID uint, req StoreRequest) (*model.Store, error)
	UpdateStore(ctx context.Context, userID uint, id uint, req StoreRequest) (*model.Store, error)
	DeleteStore(ctx context.Context, userID uint, id uint) error
	GetStore(ctx context.Context, id uint) (*model.Store, error)
	ListStores(ctx context.Context, page, limit int) ([]model.Store, int64, error)

	CreateDepartment(ctx context.Context, userID uint, req DepartmentRequest) (*model.Department, error)
	UpdateDepartment(ctx context.Context, userID uint, id uint, req DepartmentRequest) (*model.Department, error)
	DeleteDepartment(ctx context.Context, userID uint, id uint) error
	ListDepartments(ctx context.Context, storeID uint, page, limit int) ([]model.Department, int64, error)
}

type organizationService struct {
	storeRepo      repository.StoreRepository
	departmentRepo repository.DepartmentRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewOrganizationService(
	storeRepo repository.StoreRepository,
	departmentRepo repository.DepartmentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) OrganizationService {
	return &organizationService{
		storeRepo:      storeRepo,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

func (s *organizationService) CreateStore(ctx context.Context, userID uint, req StoreRequest) (*model.Store, error) {
	store := model.Store{
		Name:        req.Name,
		Code:        req.Code,
		Address:     req.Address,
		Phone:       req.Phone,
		ManagerName: req.ManagerName,
		IsActive:    true,
	}
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.storeRepo.Create(txCtx, &store); createErr != nil {
			return fmt.Errorf("failed to create store: %w", translateDBError(createErr))
		}
		return s.logOrgAudit(txCtx, userID, model.ActionCreateEntity, "store", store.ID, store.Name)
	})
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (s *organizationService) UpdateStore(ctx context.Context, userID uint, id uint, req StoreRequest) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}

	store.Name = req.Name
	store.Code = req.Code
	store.Address = req.Address
	store.Phone = req.Phone
	store.ManagerName = req.ManagerName
	if req.IsActive != nil {
		store.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updErr := s.storeRepo.Update(txCtx, store); updErr != nil {
			return fmt.Errorf("failed to update store: %w", translateDBError(updErr))
		}
		return s.logOrgAudit(txCtx, userID, model.ActionUpdateEntity, "store", store.ID, store.Name)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func (s *organizationService) DeleteStore(ctx context.Context, userID uint, id uint) error {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("store %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to load store: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.storeRepo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete store: %w", delErr)
		}
		return s.logOrgAudit(txCtx, userID, model.ActionDeleteEntity, "store", id, store.Name)
	})
}

func (s *organizationService) GetStore(ctx context.Context, id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("store %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load store: %w", err)
	}
	return store, nil
}

func (s *organizationService) ListStores(ctx context.Context, page, limit int) ([]model.Store, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.storeRepo.List(ctx, page, limit)
}

func (s *organizationService) CreateDepartment(ctx context.Context, userID uint, req DepartmentRequest) (*model.Department, error) {
	department := model.Department{
		Name:        req.Name,
		Description: req.Description,
		StoreID:     req.StoreID,
		IsActive:    true,
	}
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.storeRepo.FindByID(txCtx, req.StoreID); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("store %d: %w", req.StoreID, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load store: %w", findErr)
		}
		if createErr := s.departmentRepo.Create(txCtx, &department); createErr != nil {
			return fmt.Errorf("failed to create department: %w", translateDBError(createErr))
		}
		return s.logOrgAudit(txCtx, userID, model.ActionCreateEntity, "department", department.ID, department.Name)
	})
	if err != nil {
		return nil, err
	}
	return &department, nil
}

func (s *organizationService) UpdateDepartment(ctx context.Context, userID uint, id uint, req DepartmentRequest) (*model.Department, error) {
	department, err := s.departmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("department %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load department: %w", err)
	}

	department.Name = req.Name
	department.Description = req.Description
	department.StoreID = req.StoreID
	if req.IsActive != nil {
		department.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updErr := s.departmentRepo.Update(txCtx, department); updErr != nil {
			return fmt.Errorf("failed to update department: %w", translateDBError(updErr))
		}
		return s.logOrgAudit(txCtx, userID, model.ActionUpdateEntity, "department", department.ID, department.Name)
	})
	if err != nil {
		return nil, err
	}
	return department, nil
}

func (s *organizationService) DeleteDepartment(ctx context.Context, userID uint, id uint) error {
	department, err := s.departmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("department %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to load department: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.departmentRepo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete department: %w", delErr)
		}
		return s.logOrgAudit(txCtx, userID, model.ActionDeleteEntity, "department", id, department.Name)
	})
}

func (s *organizationService) ListDepartments(ctx context.Context, storeID uint, page, limit int) ([]model.Department, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.departmentRepo.List(ctx, storeID, page, limit)
}

func (s *organizationService) logOrgAudit(ctx context.Context, userID uint, action, kind string, id uint, name string) error {
	return s.auditRepo.Log(ctx, &model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   fmt.Sprintf("%s:%d", kind, id),
		EntityName: name,
		Details:    "{}",
	})
}
