package service

import (
	"context"
	"testing"

	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type expenseFixture struct {
	svc         ExpenseService
	expenses    *mockExpenseRepo
	departments *mockDepartmentRepo
	audit       *mockAuditRepo
}

func newExpenseFixture() *expenseFixture {
	f := &expenseFixture{
		expenses:    newMockExpenseRepo(),
		departments: newMockDepartmentRepo(),
		audit:       &mockAuditRepo{},
	}
	f.departments.add(model.Department{ID: 1, Name: "Operations", StoreID: 1})
	f.svc = NewExpenseService(f.expenses, f.departments, f.audit, &mockTxManager{})
	return f
}

func TestCreateExpenseFreezesConversion(t *testing.T) {
	f := newExpenseFixture()

	resp, err := f.svc.CreateExpense(context.Background(), 3, CreateExpenseRequest{
		Title:        "Office supplies",
		Amount:       "150.00",
		Currency:     model.CurrencyUSD,
		ExchangeRate: "32.5",
		DepartmentID: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, "150.00", resp.Amount)
	assert.Equal(t, "4875.00", resp.AmountTL)
	assert.Equal(t, model.ExpensePending, resp.Status)
	assert.Contains(t, f.audit.actions(), model.ActionCreateExpense)

	// AmountTL was computed at creation and must not change with later rates.
	stored, findErr := f.expenses.FindByID(context.Background(), resp.ID)
	require.NoError(t, findErr)
	assert.Equal(t, "4875.00", stored.AmountTL.StringFixed(2))
}

func TestCreateExpenseValidation(t *testing.T) {
	tests := []struct {
		name string
		req  CreateExpenseRequest
	}{
		{
			name: "zero amount",
			req:  CreateExpenseRequest{Title: "x", Amount: "0", Currency: model.CurrencyTL},
		},
		{
			name: "negative amount",
			req:  CreateExpenseRequest{Title: "x", Amount: "-10", Currency: model.CurrencyTL},
		},
		{
			name: "TL with non-unit rate",
			req:  CreateExpenseRequest{Title: "x", Amount: "10", Currency: model.CurrencyTL, ExchangeRate: "2"},
		},
		{
			name: "zero exchange rate",
			req:  CreateExpenseRequest{Title: "x", Amount: "10", Currency: model.CurrencyUSD, ExchangeRate: "0"},
		},
		{
			name: "bad date",
			req:  CreateExpenseRequest{Title: "x", Amount: "10", Currency: model.CurrencyTL, ExpenseDate: "2026-13-99"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newExpenseFixture()
			_, err := f.svc.CreateExpense(context.Background(), 3, tc.req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestCreateExpenseUnknownDepartment(t *testing.T) {
	f := newExpenseFixture()

	_, err := f.svc.CreateExpense(context.Background(), 3, CreateExpenseRequest{
		Title:        "Rent",
		Amount:       "1000",
		Currency:     model.CurrencyTL,
		DepartmentID: 99,
	})
	assert.ErrorIs(t, err, apperr.ErrReferenceNotFound)
}

func TestDecideApprovesOnce(t *testing.T) {
	f := newExpenseFixture()

	created, err := f.svc.CreateExpense(context.Background(), 3, CreateExpenseRequest{
		Title: "Travel", Amount: "200", Currency: model.CurrencyTL,
	})
	require.NoError(t, err)

	approved, err := f.svc.Decide(context.Background(), 5, created.ID, model.ExpenseApproved, "ok")
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, uint(5), *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, "ok", approved.ApprovalNote)

	// A second decision fails and the first one stays intact.
	_, err = f.svc.Decide(context.Background(), 6, created.ID, model.ExpenseRejected, "undo")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	stored, findErr := f.expenses.FindByID(context.Background(), created.ID)
	require.NoError(t, findErr)
	assert.Equal(t, model.ExpenseApproved, stored.Status)
	assert.Equal(t, uint(5), *stored.ApprovedBy)
	assert.Equal(t, "ok", stored.ApprovalNote)
}

func TestDecideRejects(t *testing.T) {
	f := newExpenseFixture()

	created, err := f.svc.CreateExpense(context.Background(), 3, CreateExpenseRequest{
		Title: "Travel", Amount: "200", Currency: model.CurrencyTL,
	})
	require.NoError(t, err)

	resp, err := f.svc.Decide(context.Background(), 5, created.ID, model.ExpenseRejected, "over budget")
	require.NoError(t, err)
	assert.Equal(t, model.ExpenseRejected, resp.Status)

	// Rejected is final; it cannot be paid.
	_, err = f.svc.MarkPaid(context.Background(), 5, created.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestDecideRejectsBadDecision(t *testing.T) {
	f := newExpenseFixture()

	_, err := f.svc.Decide(context.Background(), 5, 1, "PAID", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestMarkPaidRequiresApproval(t *testing.T) {
	f := newExpenseFixture()

	created, err := f.svc.CreateExpense(context.Background(), 3, CreateExpenseRequest{
		Title: "Cleaning", Amount: "80", Currency: model.CurrencyTL,
	})
	require.NoError(t, err)

	// PENDING expenses cannot be paid.
	_, err = f.svc.MarkPaid(context.Background(), 3, created.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = f.svc.Decide(context.Background(), 5, created.ID, model.ExpenseApproved, "")
	require.NoError(t, err)

	paid, err := f.svc.MarkPaid(context.Background(), 3, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ExpensePaid, paid.Status)
	assert.Contains(t, f.audit.actions(), model.ActionPayExpense)
}

func TestListExpensesFiltersByStatus(t *testing.T) {
	f := newExpenseFixture()

	for _, title := range []string{"a", "b"} {
		_, err := f.svc.CreateExpense(context.Background(), 3, CreateExpenseRequest{
			Title: title, Amount: "10", Currency: model.CurrencyTL,
		})
		require.NoError(t, err)
	}
	_, err := f.svc.Decide(context.Background(), 5, 1, model.ExpenseApproved, "")
	require.NoError(t, err)

	pending, total, err := f.svc.ListExpenses(context.Background(), repository.ExpenseFilter{Status: model.ExpensePending}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, "b", pending[0].Title)
}
