package handler

import (
	"fmt"
	"net/http"
	"time"

	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/service"
	"retailpos/pkg/pagination"
	"retailpos/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports", middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	{
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/sales", h.SalesReport)
		reports.GET("/sales/export", h.ExportSalesReport)
		reports.GET("/sales/by-category", h.SalesByCategory)
		reports.GET("/sales/by-store", h.SalesByStore)
		reports.GET("/sales/by-payment-method", h.SalesByPaymentMethod)
		reports.GET("/expenses", h.ExpenseTotals)
		reports.GET("/stock", h.StockReport)
	}
}

// @Summary      Dashboard summary
// @Description  Aggregated month-to-date sales, expense and stock figures
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardSummary}
// @Failure      500  {object}  response.Response
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	summary, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// @Summary      Sales report
// @Description  Paginated per-sale rows for a date range with whitelisted sorting
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from    query     string  false  "Start date (YYYY-MM-DD, defaults to month start)"
// @Param        to      query     string  false  "End date (YYYY-MM-DD)"
// @Param        sort    query     string  false  "Sort field (date, invoice, total, net, status)"
// @Param        order   query     string  false  "Sort order (asc, desc)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Items per page (default 20, max 100)"
// @Success      200     {object}  response.Response{data=response.Paged}
// @Failure      500     {object}  response.Response
// @Router       /api/reports/sales [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	params := pagination.Parse(c)
	from, to := queryDateRange(c)

	rows, total, err := h.reportService.SalesReport(c.Request.Context(), from, to, c.Query("sort"), c.Query("order"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: rows,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}

// @Summary      Export sales report
// @Description  Streams the sales report for a date range as an XLSX workbook
// @Tags         reports
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  false  "Start date (YYYY-MM-DD, defaults to month start)"
// @Param        to    query  string  false  "End date (YYYY-MM-DD)"
// @Success      200
// @Failure      500  {object}  response.Response
// @Router       /api/reports/sales/export [get]
func (h *ReportHandler) ExportSalesReport(c *gin.Context) {
	from, to := queryDateRange(c)

	workbook, err := h.reportService.ExportSalesReport(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	defer workbook.Close()

	filename := fmt.Sprintf("sales-report-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := workbook.Write(c.Writer); err != nil {
		logrus.WithError(err).Error("failed to stream sales report workbook")
	}
}

// @Summary      Sales by category
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=[]model.SalesGroupTotal}
// @Failure      500   {object}  response.Response
// @Router       /api/reports/sales/by-category [get]
func (h *ReportHandler) SalesByCategory(c *gin.Context) {
	from, to := queryDateRange(c)
	totals, err := h.reportService.SalesByCategory(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}

// @Summary      Sales by store
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=[]model.SalesGroupTotal}
// @Failure      500   {object}  response.Response
// @Router       /api/reports/sales/by-store [get]
func (h *ReportHandler) SalesByStore(c *gin.Context) {
	from, to := queryDateRange(c)
	totals, err := h.reportService.SalesByStore(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}

// @Summary      Sales by payment method
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from  query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to    query     string  false  "End date (YYYY-MM-DD)"
// @Success      200   {object}  response.Response{data=[]model.SalesGroupTotal}
// @Failure      500   {object}  response.Response
// @Router       /api/reports/sales/by-payment-method [get]
func (h *ReportHandler) SalesByPaymentMethod(c *gin.Context) {
	from, to := queryDateRange(c)
	totals, err := h.reportService.SalesByPaymentMethod(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}

// @Summary      Expense totals
// @Description  Expense totals for a date range grouped by currency or status
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        from      query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to        query     string  false  "End date (YYYY-MM-DD)"
// @Param        group_by  query     string  false  "Grouping (currency or status, default currency)"
// @Success      200       {object}  response.Response{data=[]model.ExpenseGroupTotal}
// @Failure      500       {object}  response.Response
// @Router       /api/reports/expenses [get]
func (h *ReportHandler) ExpenseTotals(c *gin.Context) {
	from, to := queryDateRange(c)
	totals, err := h.reportService.ExpenseTotals(c.Request.Context(), from, to, c.DefaultQuery("group_by", "currency"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, totals))
}

// @Summary      Stock report
// @Description  Current stock levels per product, optionally only items at or below their critical level
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        only_critical  query     bool  false  "Only products at or below critical stock"
// @Param        page           query     int   false  "Page number (default 1)"
// @Param        limit          query     int   false  "Items per page (default 20, max 100)"
// @Success      200            {object}  response.Response{data=response.Paged}
// @Failure      500            {object}  response.Response
// @Router       /api/reports/stock [get]
func (h *ReportHandler) StockReport(c *gin.Context) {
	params := pagination.Parse(c)

	rows, total, err := h.reportService.StockReport(c.Request.Context(), queryBool(c, "only_critical"), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, response.Paged{
		Items: rows,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}))
}
