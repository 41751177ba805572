package service

import (
	"context"
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

type EmployeeRequest struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	IdentityNumber string `json:"identity_number" binding:"required"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	HireDate       string `json:"hire_date"`       // YYYY-MM-DD, defaults to today
	Salary         string `json:"salary"`          // decimal string
	SalesQuota     string `json:"sales_quota"`     // decimal string, defaults per config
	CommissionRate string `json:"commission_rate"` // fraction 0..1, defaults per config
	StoreID        uint   `json:"store_id" binding:"required"`
	DepartmentID   *uint  `json:"department_id"`
	IsActive       *bool  `json:"is_active"`
}

// EmployeeDefaults carries the configured fallbacks applied when a request
// omits quota or commission rate.
type EmployeeDefaults struct {
	SalesQuota     decimal.Decimal
	CommissionRate decimal.Decimal
}

type EmployeeService interface {
	Create(ctx context.Context, userID uint, req EmployeeRequest) (*model.Employee, error)
	Update(ctx context.Context, userID uint, id uint, req EmployeeRequest) (*model.Employee, error)
	Delete(ctx context.Context, userID uint, id uint) error
	Get(ctx context.Context, id uint) (*model.Employee, error)
	List(ctx context.Context, storeID uint, search string, page, limit int) ([]model.Employee, int64, error)
}

type employeeService struct {
	employeeRepo repository.EmployeeRepository
	storeRepo    repository.StoreRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	defaults     EmployeeDefaults
}

func NewEmployeeService(
	employeeRepo repository.EmployeeRepository,
	storeRepo repository.StoreRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	defaults EmployeeDefaults,
) EmployeeService {
	return &employeeService{
		employeeRepo: employeeRepo,
		storeRepo:    storeRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		defaults:     defaults,
	}
}

func (s *employeeService) Create(ctx context.Context, userID uint, req EmployeeRequest) (*model.Employee, error) {
	employee, err := s.buildEmployee(req)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, findErr := s.storeRepo.FindByID(txCtx, req.StoreID); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("store %d: %w", req.StoreID, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load store: %w", findErr)
		}
		if createErr := s.employeeRepo.Create(txCtx, employee); createErr != nil {
			return fmt.Errorf("failed to create employee: %w", translateDBError(createErr))
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreateEntity,
			EntityID:   fmt.Sprintf("employee:%d", employee.ID),
			EntityName: employee.FullName(),
			Details:    "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) Update(ctx context.Context, userID uint, id uint, req EmployeeRequest) (*model.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("employee %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}

	updated, err := s.buildEmployee(req)
	if err != nil {
		return nil, err
	}

	employee.FirstName = updated.FirstName
	employee.LastName = updated.LastName
	employee.IdentityNumber = updated.IdentityNumber
	employee.Phone = updated.Phone
	employee.Email = updated.Email
	employee.HireDate = updated.HireDate
	employee.Salary = updated.Salary
	employee.SalesQuota = updated.SalesQuota
	employee.CommissionRate = updated.CommissionRate
	employee.StoreID = updated.StoreID
	employee.DepartmentID = updated.DepartmentID
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updErr := s.employeeRepo.Update(txCtx, employee); updErr != nil {
			return fmt.Errorf("failed to update employee: %w", translateDBError(updErr))
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionUpdateEntity,
			EntityID:   fmt.Sprintf("employee:%d", employee.ID),
			EntityName: employee.FullName(),
			Details:    "{}",
		})
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) Delete(ctx context.Context, userID uint, id uint) error {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("employee %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return fmt.Errorf("failed to load employee: %w", err)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if delErr := s.employeeRepo.Delete(txCtx, id); delErr != nil {
			return fmt.Errorf("failed to delete employee: %w", delErr)
		}
		return s.auditRepo.Log(txCtx, &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionDeleteEntity,
			EntityID:   fmt.Sprintf("employee:%d", id),
			EntityName: employee.FullName(),
			Details:    "{}",
		})
	})
}

func (s *employeeService) Get(ctx context.Context, id uint) (*model.Employee, error) {
	employee, err := s.employeeRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("employee %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	return employee, nil
}

func (s *employeeService) List(ctx context.Context, storeID uint, search string, page, limit int) ([]model.Employee, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	return s.employeeRepo.List(ctx, storeID, search, page, limit)
}

func (s *employeeService) buildEmployee(req EmployeeRequest) (*model.Employee, error) {
	hireDate := time.Now()
	if req.HireDate != "" {
		parsed, err := time.Parse("2006-01-02", req.HireDate)
		if err != nil {
			return nil, fmt.Errorf("hire_date must be YYYY-MM-DD: %w", apperr.ErrValidation)
		}
		hireDate = parsed
	}

	salary := decimal.Zero
	if req.Salary != "" {
		parsed, err := decimal.NewFromString(req.Salary)
		if err != nil || parsed.IsNegative() {
			return nil, fmt.Errorf("salary must be a non-negative decimal: %w", apperr.ErrValidation)
		}
		salary = money.Round(parsed)
	}

	quota := s.defaults.SalesQuota
	if req.SalesQuota != "" {
		parsed, err := decimal.NewFromString(req.SalesQuota)
		if err != nil || parsed.IsNegative() {
			return nil, fmt.Errorf("sales_quota must be a non-negative decimal: %w", apperr.ErrValidation)
		}
		quota = money.Round(parsed)
	}

	rate := s.defaults.CommissionRate
	if req.CommissionRate != "" {
		parsed, err := decimal.NewFromString(req.CommissionRate)
		if err != nil || parsed.IsNegative() || parsed.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("commission_rate must be between 0 and 1: %w", apperr.ErrValidation)
		}
		rate = parsed
	}

	return &model.Employee{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		IdentityNumber: req.IdentityNumber,
		Phone:          req.Phone,
		Email:          req.Email,
		HireDate:       hireDate,
		Salary:         salary,
		SalesQuota:     quota,
		CommissionRate: rate,
		StoreID:        req.StoreID,
		DepartmentID:   req.DepartmentID,
		IsActive:       true,
	}, nil
}
