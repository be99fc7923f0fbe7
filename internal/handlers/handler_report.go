package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
	"github.com/jdrojas/cobranza_app/internal/middleware"
)

// reportHandler handles end-of-day liquidation reports.
type reportHandler struct {
	reportService portssvc.ReportSvcFacade
}

// registerReportRoutes registers routes related to liquidation reports.
func registerReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade) {
	h := &reportHandler{reportService: reportService}

	reports := rg.Group("/reports")
	{
		reports.GET("", h.listReports)
		reports.POST("", h.createReport)
		reports.DELETE("/:id", h.deleteReport)
	}
}

// listReports returns reports, optionally filtered by ?collector= or
// ?date=YYYY-MM-DD.
func (h *reportHandler) listReports(c *gin.Context) {
	ctx := c.Request.Context()

	if dateStr := c.Query("date"); dateStr != "" {
		day, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		reports, err := h.reportService.ListReportsByDate(ctx, day)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, reports)
		return
	}

	if collector := c.Query("collector"); collector != "" {
		reports, err := h.reportService.ListReportsByCollector(ctx, collector)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, reports)
		return
	}

	reports, err := h.reportService.ListReports(ctx)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}

func (h *reportHandler) createReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateReport", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *reportHandler) deleteReport(c *gin.Context) {
	if err := h.reportService.DeleteReport(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
