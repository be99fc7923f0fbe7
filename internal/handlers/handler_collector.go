package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
	"github.com/jdrojas/cobranza_app/internal/middleware"
)

// collectorHandler handles HTTP requests related to collectors.
type collectorHandler struct {
	collectorService portssvc.CollectorSvcFacade
}

// registerCollectorRoutes registers routes related to collectors.
func registerCollectorRoutes(rg *gin.RouterGroup, collectorService portssvc.CollectorSvcFacade) {
	h := &collectorHandler{collectorService: collectorService}

	collectors := rg.Group("/collectors")
	{
		collectors.GET("", h.listCollectors)
		collectors.POST("", h.createCollector)
		collectors.GET("/:code", h.getCollector)
		collectors.PUT("/:code", h.updateCollector)
		collectors.DELETE("/:code", h.deleteCollector)
	}
}

func (h *collectorHandler) listCollectors(c *gin.Context) {
	collectors, err := h.collectorService.ListCollectors(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collectors)
}

func (h *collectorHandler) getCollector(c *gin.Context) {
	collector, err := h.collectorService.GetCollectorByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collector)
}

func (h *collectorHandler) createCollector(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCollector", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	collector, err := h.collectorService.CreateCollector(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, collector)
}

func (h *collectorHandler) updateCollector(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateCollectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCollector", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	collector, err := h.collectorService.UpdateCollector(c.Request.Context(), c.Param("code"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, collector)
}

func (h *collectorHandler) deleteCollector(c *gin.Context) {
	if err := h.collectorService.DeleteCollector(c.Request.Context(), c.Param("code")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
