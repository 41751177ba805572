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

type OrganizationHandler struct {
	orgService service.OrganizationService
}

func NewOrganizationHandler(orgService service.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func (h *OrganizationHandler) RegisterRoutes(router *gin.RouterGroup) {
	readRoles := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCashier)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	stores := router.Group("/api/stores")
	{
		stores.GET("", readRoles, h.ListStores)
		stores.GET("/:id", readRoles, h.GetStore)
		stores.POST("", adminOnly, h.CreateStore)
		stores.PUT("/:id", adminOnly, h.UpdateStore)
		stores.DELETE("/:id", adminOnly, h.DeleteStore)
	}

	departments := router.Group("/api/departments")
	{
		departments.GET("", readRoles, h.ListDepartments)
		departments.POST("", adminOnly, h.CreateDepartment)
		departments.PUT("/:id", adminOnly, h.UpdateDepartment)
		departments.DELETE("/:id", adminOnly, h.DeleteDepartment)
	}
}

// @Summary      List stores
// @Tags         organization
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20, max 100)"
// @Success      200    {object}  response.Response{data=response.Paged}
// @Router       /api/stores [get]
func (h *OrganizationHandler) ListStores(c *gin.Context) {
	params := pagination.Parse(c)

	stores, total, err := h.orgService.ListStores(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: stores,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// @Summary      Get store
// @Tags         organization
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Store ID"
// @Success      200  {object}  response.Response{data=model.Store}
// @Failure      404  {object}  response.Response
// @Router       /api/stores/{id} [get]
func (h *OrganizationHandler) GetStore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	store, err := h.orgService.GetStore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// @Summary      Create store
// @Tags         organization
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.StoreRequest  true  "Store Payload"
// @Success      201      {object}  response.Response{data=model.Store}
// @Failure      409      {object}  response.Response
// @Router       /api/stores [post]
func (h *OrganizationHandler) CreateStore(c *gin.Context) {
	var req service.StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	store, err := h.orgService.CreateStore(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, store))
}

// @Summary      Update store
// @Tags         organization
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                   true  "Store ID"
// @Param        payload  body      service.StoreRequest  true  "Store Payload"
// @Success      200      {object}  response.Response{data=model.Store}
// @Failure      404      {object}  response.Response
// @Router       /api/stores/{id} [put]
func (h *OrganizationHandler) UpdateStore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	store, err := h.orgService.UpdateStore(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, store))
}

// @Summary      Delete store
// @Tags         organization
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Store ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/stores/{id} [delete]
func (h *OrganizationHandler) DeleteStore(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.orgService.DeleteStore(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}

// @Summary      List departments
// @Tags         organization
// @Security     BearerAuth
// @Produce      json
// @Param        store_id  query     int  false  "Filter by store"
// @Param        page      query     int  false  "Page number (default 1)"
// @Param        limit     query     int  false  "Items per page (default 20, max 100)"
// @Success      200       {object}  response.Response{data=response.Paged}
// @Router       /api/departments [get]
func (h *OrganizationHandler) ListDepartments(c *gin.Context) {
	params := pagination.Parse(c)

	departments, total, err := h.orgService.ListDepartments(c.Request.Context(), queryUint(c, "store_id"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: departments,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// @Summary      Create department
// @Tags         organization
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.DepartmentRequest  true  "Department Payload"
// @Success      201      {object}  response.Response{data=model.Department}
// @Failure      409      {object}  response.Response
// @Router       /api/departments [post]
func (h *OrganizationHandler) CreateDepartment(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	department, err := h.orgService.CreateDepartment(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, department))
}

// @Summary      Update department
// @Tags         organization
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      int                        true  "Department ID"
// @Param        payload  body      service.DepartmentRequest  true  "Department Payload"
// @Success      200      {object}  response.Response{data=model.Department}
// @Failure      404      {object}  response.Response
// @Router       /api/departments/{id} [put]
func (h *OrganizationHandler) UpdateDepartment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	department, err := h.orgService.UpdateDepartment(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, department))
}

// @Summary      Delete department
// @Tags         organization
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Department ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/departments/{id} [delete]
func (h *OrganizationHandler) DeleteDepartment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.orgService.DeleteDepartment(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": id}))
}
