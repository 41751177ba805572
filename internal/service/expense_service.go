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

type CreateExpenseRequest struct {
	Title        string `json:"title" binding:"required"`
	Amount       string `json:"amount" binding:"required"`   // decimal string
	Currency     string `json:"currency" binding:"required,oneof=TL USD EUR GBP"`
	ExchangeRate string `json:"exchange_rate"`               // decimal string, defaults to 1 for TL
	ExpenseDate  string `json:"expense_date"`                // RFC3339, defaults to now
	CategoryName string `json:"category_name"`
	DepartmentID uint   `json:"department_id"`
}

type DecideExpenseRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Note     string `json:"note"`
}

type ExpenseResponse struct {
	ID           uint    `json:"id"`
	Title        string  `json:"title"`
	Amount       string  `json:"amount"`
	Currency     string  `json:"currency"`
	ExchangeRate string  `json:"exchange_rate"`
	AmountTL     string  `json:"amount_tl"`
	ExpenseDate  string  `json:"expense_date"`
	CategoryName string  `json:"category_name"`
	DepartmentID *uint   `json:"department_id"`
	Status       string  `json:"status"`
	ApprovedBy   *uint   `json:"approved_by"`
	ApprovedAt   *string `json:"approved_at"`
	ApprovalNote string  `json:"approval_note"`
	CreatedAt    string  `json:"created_at"`
}

type ExpenseService interface {
	CreateExpense(ctx context.Context, userID uint, req CreateExpenseRequest) (ExpenseResponse, error)
	Decide(ctx context.Context, approverID uint, id uint, decision, note string) (ExpenseResponse, error)
	MarkPaid(ctx context.Context, userID uint, id uint) (ExpenseResponse, error)
	GetExpense(ctx context.Context, id uint) (ExpenseResponse, error)
	ListExpenses(ctx context.Context, filter repository.ExpenseFilter, page, limit int) ([]ExpenseResponse, int64, error)
}

type expenseService struct {
	expenseRepo    repository.ExpenseRepository
	departmentRepo repository.DepartmentRepository
	auditRepo      repository.AuditRepository
	txManager      repository.TransactionManager
}

func NewExpenseService(
	expenseRepo repository.ExpenseRepository,
	departmentRepo repository.DepartmentRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) ExpenseService {
	return &expenseService{
		expenseRepo:    expenseRepo,
		departmentRepo: departmentRepo,
		auditRepo:      auditRepo,
		txManager:      txManager,
	}
}

// CreateExpense freezes the TL conversion at creation time: AmountTL is
// Amount * ExchangeRate and is never recomputed from a later rate.
func (s *expenseService) CreateExpense(ctx context.Context, userID uint, req CreateExpenseRequest) (ExpenseResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return ExpenseResponse{}, fmt.Errorf("amount is not a valid decimal: %w", apperr.ErrValidation)
	}
	if !amount.IsPositive() {
		return ExpenseResponse{}, fmt.Errorf("amount must be positive: %w", apperr.ErrValidation)
	}

	exchangeRate := decimal.NewFromInt(1)
	if req.ExchangeRate != "" {
		exchangeRate, err = decimal.NewFromString(req.ExchangeRate)
		if err != nil {
			return ExpenseResponse{}, fmt.Errorf("exchange_rate is not a valid decimal: %w", apperr.ErrValidation)
		}
	}
	if !exchangeRate.IsPositive() {
		return ExpenseResponse{}, fmt.Errorf("exchange_rate must be greater than 0: %w", apperr.ErrValidation)
	}
	if req.Currency == model.CurrencyTL && !exchangeRate.Equal(decimal.NewFromInt(1)) {
		return ExpenseResponse{}, fmt.Errorf("exchange_rate must be 1 for TL expenses: %w", apperr.ErrValidation)
	}

	expenseDate := time.Now()
	if req.ExpenseDate != "" {
		expenseDate, err = time.Parse(time.RFC3339, req.ExpenseDate)
		if err != nil {
			return ExpenseResponse{}, fmt.Errorf("expense_date must be RFC3339: %w", apperr.ErrValidation)
		}
	}

	expense := model.Expense{
		Title:        req.Title,
		Amount:       money.Round(amount),
		Currency:     req.Currency,
		ExchangeRate: exchangeRate,
		AmountTL:     money.Round(amount.Mul(exchangeRate)),
		ExpenseDate:  expenseDate,
		CategoryName: req.CategoryName,
		Status:       model.ExpensePending,
		CreatedBy:    &userID,
	}
	if req.DepartmentID != 0 {
		id := req.DepartmentID
		expense.DepartmentID = &id
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if expense.DepartmentID != nil {
			if _, findErr := s.departmentRepo.FindByID(txCtx, *expense.DepartmentID); findErr != nil {
				if errors.Is(findErr, gorm.ErrRecordNotFound) {
					return fmt.Errorf("department %d: %w", *expense.DepartmentID, apperr.ErrReferenceNotFound)
				}
				return fmt.Errorf("failed to load department: %w", findErr)
			}
		}

		if createErr := s.expenseRepo.Create(txCtx, &expense); createErr != nil {
			return fmt.Errorf("failed to create expense: %w", translateDBError(createErr))
		}

		details, _ := json.Marshal(map[string]interface{}{
			"title":         req.Title,
			"amount":        expense.Amount.StringFixed(2),
			"currency":      req.Currency,
			"exchange_rate": expense.ExchangeRate.String(),
			"amount_tl":     expense.AmountTL.StringFixed(2),
		})
		audit := &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionCreateExpense,
			EntityID:   fmt.Sprint(expense.ID),
			EntityName: expense.Title,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})

	if err != nil {
		return ExpenseResponse{}, err
	}

	return toExpenseResponse(expense), nil
}

// Decide moves a PENDING expense to APPROVED or REJECTED. The transition is
// one-directional; a second decision on the same expense fails with
// ErrInvalidState and leaves the first decision untouched.
func (s *expenseService) Decide(ctx context.Context, approverID uint, id uint, decision, note string) (ExpenseResponse, error) {
	if decision != model.ExpenseApproved && decision != model.ExpenseRejected {
		return ExpenseResponse{}, fmt.Errorf("decision must be APPROVED or REJECTED: %w", apperr.ErrValidation)
	}

	var expense *model.Expense
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByID(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("expense %d: %w", id, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load expense: %w", findErr)
		}

		if expense.Status != model.ExpensePending {
			return fmt.Errorf("expense %d is already %s: %w", id, expense.Status, apperr.ErrInvalidState)
		}

		now := time.Now()
		expense.Status = decision
		expense.ApprovedBy = &approverID
		expense.ApprovedAt = &now
		expense.ApprovalNote = note

		if updErr := s.expenseRepo.Update(txCtx, expense); updErr != nil {
			return fmt.Errorf("failed to update expense: %w", updErr)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"decision": decision,
			"note":     note,
		})
		audit := &model.AuditLog{
			UserID:     &approverID,
			Action:     model.ActionDecideExpense,
			EntityID:   fmt.Sprint(expense.ID),
			EntityName: expense.Title,
			Details:    string(details),
		}
		return s.auditRepo.Log(txCtx, audit)
	})

	if err != nil {
		return ExpenseResponse{}, err
	}

	return toExpenseResponse(*expense), nil
}

// MarkPaid records the external payment of an APPROVED expense.
func (s *expenseService) MarkPaid(ctx context.Context, userID uint, id uint) (ExpenseResponse, error) {
	var expense *model.Expense
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		expense, findErr = s.expenseRepo.FindByID(txCtx, id)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("expense %d: %w", id, apperr.ErrReferenceNotFound)
			}
			return fmt.Errorf("failed to load expense: %w", findErr)
		}

		if expense.Status != model.ExpenseApproved {
			return fmt.Errorf("expense %d is %s, only APPROVED expenses can be paid: %w",
				id, expense.Status, apperr.ErrInvalidState)
		}

		expense.Status = model.ExpensePaid
		if updErr := s.expenseRepo.Update(txCtx, expense); updErr != nil {
			return fmt.Errorf("failed to update expense: %w", updErr)
		}

		audit := &model.AuditLog{
			UserID:     &userID,
			Action:     model.ActionPayExpense,
			EntityID:   fmt.Sprint(expense.ID),
			EntityName: expense.Title,
			Details:    `{"paid": true}`,
		}
		return s.auditRepo.Log(txCtx, audit)
	})

	if err != nil {
		return ExpenseResponse{}, err
	}

	return toExpenseResponse(*expense), nil
}

func (s *expenseService) GetExpense(ctx context.Context, id uint) (ExpenseResponse, error) {
	expense, err := s.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ExpenseResponse{}, fmt.Errorf("expense %d: %w", id, apperr.ErrReferenceNotFound)
		}
		return ExpenseResponse{}, fmt.Errorf("failed to load expense: %w", err)
	}
	return toExpenseResponse(*expense), nil
}

func (s *expenseService) ListExpenses(ctx context.Context, filter repository.ExpenseFilter, page, limit int) ([]ExpenseResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	expenses, total, err := s.expenseRepo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch expenses: %w", err)
	}

	result := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		result = append(result, toExpenseResponse(e))
	}
	return result, total, nil
}

// --- Helpers ---

func toExpenseResponse(e model.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:           e.ID,
		Title:        e.Title,
		Amount:       e.Amount.StringFixed(2),
		Currency:     e.Currency,
		ExchangeRate: e.ExchangeRate.String(),
		AmountTL:     e.AmountTL.StringFixed(2),
		ExpenseDate:  e.ExpenseDate.Format(time.RFC3339),
		CategoryName: e.CategoryName,
		DepartmentID: e.DepartmentID,
		Status:       e.Status,
		ApprovedBy:   e.ApprovedBy,
		ApprovalNote: e.ApprovalNote,
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if e.ApprovedAt != nil {
		s := e.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}
