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

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	sales := router.Group("/api/sales")
	{
		sales.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCashier), h.CreateSale)
		sales.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCashier), h.ListSales)
		sales.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCashier), h.GetSale)
		sales.PUT("/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.UpdateStatus)
	}
}

// @Summary      Create sale
// @Description  Records a completed sale with line items, discounts and frozen commission
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSaleRequest  true  "Create Sale Payload"
// @Success      201      {object}  response.Response{data=service.SaleResponse}
// @Failure      404      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}

// @Summary      List sales
// @Description  Retrieves a paginated list of sales, optionally filtered by customer, employee, store, status and date range
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        status       query     string  false  "Filter by status (COMPLETED, CANCELLED, REFUNDED)"
// @Param        customer_id  query     int     false  "Filter by customer"
// @Param        employee_id  query     int     false  "Filter by employee"
// @Param        store_id     query     int     false  "Filter by store"
// @Param        from         query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to           query     string  false  "End date (YYYY-MM-DD)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20, max 100)"
// @Success      200          {object}  response.Response{data=response.Paged}
// @Failure      500          {object}  response.Response
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	params := pagination.Parse(c)

	filter := repository.SaleFilter{
		CustomerID:     queryUint(c, "customer_id"),
		EmployeeID:     queryUint(c, "employee_id"),
		StoreID:        queryUint(c, "store_id"),
		Status:         c.Query("status"),
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

	sales, total, err := h.saleService.ListSales(c.Request.Context(), filter, params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: sales,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// @Summary      Get sale
// @Description  Retrieves a single sale with its line items
// @Tags         sales
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Sale ID"
// @Success      200  {object}  response.Response{data=service.SaleResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

type updateSaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// @Summary      Update sale status
// @Description  Cancels or refunds a completed sale
// @Tags         sales
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                      true  "Sale ID"
// @Param        payload  body      updateSaleStatusRequest  true  "New status (CANCELLED or REFUNDED)"
// @Success      200      {object}  response.Response{data=service.SaleResponse}
// @Failure      409      {object}  response.Response
// @Router       /api/sales/{id}/status [put]
func (h *SaleHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sale, err := h.saleService.UpdateStatus(c.Request.Context(), currentUserID(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}
