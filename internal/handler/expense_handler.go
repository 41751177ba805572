package handler

import (
	"net/http"
	"time"

	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/internal/service"
	"retailpos/pkg/pagination"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExpenseHandler struct {
	expenseService service.ExpenseService
}

func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

func (h *ExpenseHandler) RegisterRoutes(router *gin.RouterGroup) {
	expenses := router.Group("/api/expenses")
	{
		expenses.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCashier), h.CreateExpense)
		expenses.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.ListExpenses)
		expenses.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.GetExpense)
		expenses.PUT("/:id/decision", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.Decide)
		expenses.PUT("/:id/pay", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.MarkPaid)
	}
}

// @Summary      Create expense
// @Description  Records an expense in its original currency with the TL amount frozen at the submitted rate
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateExpenseRequest  true  "Create Expense Payload"
// @Success      201      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req service.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, expense))
}

// @Summary      List expenses
// @Description  Retrieves a paginated list of expenses filtered by status, department and date range
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        status         query     string  false  "Filter by status (PENDING, APPROVED, REJECTED, PAID)"
// @Param        department_id  query     int     false  "Filter by department"
// @Param        from           query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to             query     string  false  "End date (YYYY-MM-DD)"
// @Param        page           query     int     false  "Page number (default 1)"
// @Param        limit          query     int     false  "Items per page (default 20, max 100)"
// @Success      200            {object}  response.Response{data=response.Paged}
// @Failure      500            {object}  response.Response
// @Router       /api/expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.ExpenseFilter{
		Status:         c.Query("status"),
		DepartmentID:   queryUint(c, "department_id"),
		IncludeDeleted: queryBool(c, "include_deleted"),
	}
	if raw := c.Query("from"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			filter.From = parsed
		}
	}
	if raw := c.Query("to"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			filter.To = parsed.AddDate(0, 0, 1)
		}
	}

	expenses, total, err := h.expenseService.ListExpenses(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: expenses,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// @Summary      Get expense
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Expense ID"
// @Success      200  {object}  response.Response{data=service.ExpenseResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.GetExpense(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

type expenseDecisionRequest struct {
	Decision string `json:"decision" binding:"required"` // APPROVED or REJECTED
	Note     string `json:"note"`
}

// @Summary      Decide expense
// @Description  Approves or rejects a pending expense; the decision is final
// @Tags         expenses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                     true  "Expense ID"
// @Param        payload  body      expenseDecisionRequest  true  "Decision Payload"
// @Success      200      {object}  response.Response{data=service.ExpenseResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/expenses/{id}/decision [put]
func (h *ExpenseHandler) Decide(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req expenseDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	expense, err := h.expenseService.Decide(c.Request.Context(), currentUserID(c), id, req.Decision, req.Note)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}

// @Summary      Pay expense
// @Description  Marks an approved expense as paid
// @Tags         expenses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Expense ID"
// @Success      200  {object}  response.Response{data=service.ExpenseResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/expenses/{id}/pay [put]
func (h *ExpenseHandler) MarkPaid(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	expense, err := h.expenseService.MarkPaid(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, expense))
}
