package handler

import (
	"net/http"

	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/service"
	"retailpos/pkg/pagination"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
)

type SupplierTransactionHandler struct {
	txService service.SupplierTransactionService
}

func NewSupplierTransactionHandler(txService service.SupplierTransactionService) *SupplierTransactionHandler {
	return &SupplierTransactionHandler{txService: txService}
}

func (h *SupplierTransactionHandler) RegisterRoutes(router *gin.RouterGroup) {
	txs := router.Group("/api/supplier-transactions")
	{
		txs.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.Create)
		txs.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.List)
		txs.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), h.Get)
	}
}

// @Summary      Create supplier transaction
// @Description  Records a PURCHASE (with items, incrementing stock), PAYMENT or RETURN against a supplier
// @Tags         supplier-transactions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSupplierTransactionRequest  true  "Create Transaction Payload"
// @Success      201      {object}  response.Response{data=service.SupplierTransactionResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/supplier-transactions [post]
func (h *SupplierTransactionHandler) Create(c *gin.Context) {
	var req service.CreateSupplierTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	tx, err := h.txService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tx))
}

// @Summary      List supplier transactions
// @Tags         supplier-transactions
// @Security     BearerAuth
// @Produce      json
// @Param        supplier_id  query     int     false  "Filter by supplier"
// @Param        type         query     string  false  "Filter by type (PURCHASE, PAYMENT, RETURN)"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Items per page (default 20, max 100)"
// @Success      200          {object}  response.Response{data=response.Paged}
// @Failure      500          {object}  response.Response
// @Router       /api/supplier-transactions [get]
func (h *SupplierTransactionHandler) List(c *gin.Context) {
	params := pagination.Parse(c)

	txs, total, err := h.txService.List(c.Request.Context(), queryUint(c, "supplier_id"), c.Query("type"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: txs,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// @Summary      Get supplier transaction
// @Tags         supplier-transactions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Transaction ID"
// @Success      200  {object}  response.Response{data=service.SupplierTransactionResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/supplier-transactions/{id} [get]
func (h *SupplierTransactionHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	tx, err := h.txService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tx))
}
