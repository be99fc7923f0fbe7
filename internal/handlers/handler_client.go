package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
	"github.com/jdrojas/cobranza_app/internal/middleware"
)

// clientHandler handles HTTP requests related to clients and their loan
// lifecycle.
type clientHandler struct {
	clientService portssvc.ClientSvcFacade
	loanService   portssvc.LoanSvcFacade
}

// registerClientRoutes registers routes related to clients.
func registerClientRoutes(rg *gin.RouterGroup, clientService portssvc.ClientSvcFacade, loanService portssvc.LoanSvcFacade) {
	h := &clientHandler{clientService: clientService, loanService: loanService}

	clients := rg.Group("/clients")
	{
		clients.GET("", h.listClients)
		clients.GET("/:code", h.getClient)
		clients.GET("/:code/history", h.getClientHistory)
		clients.PUT("/:code", h.updateClient)
		clients.PUT("/:code/card-terms", h.updateCardTerms)
		clients.POST("/:code/deactivate", h.deactivateClient)
		clients.POST("/:code/status-refresh", h.refreshClientStatus)
		clients.DELETE("/:code", h.purgeClient)
	}
}

func clientCodeParam(c *gin.Context) (int64, bool) {
	code, err := strconv.ParseInt(c.Param("code"), 10, 64)
	if err != nil || code <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client code"})
		return 0, false
	}
	return code, true
}

// listClients returns all clients in route order, optionally scoped to one
// collector via ?collector=.
func (h *clientHandler) listClients(c *gin.Context) {
	var (
		overviews any
		err       error
	)
	if collector := c.Query("collector"); collector != "" {
		overviews, err = h.clientService.ListClientsByCollector(c.Request.Context(), collector)
	} else {
		overviews, err = h.clientService.ListClients(c.Request.Context())
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overviews)
}

// getClient returns one client with its active-card standing.
func (h *clientHandler) getClient(c *gin.Context) {
	code, ok := clientCodeParam(c)
	if !ok {
		return
	}
	overview, err := h.clientService.GetClientByCode(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// getClientHistory returns every card the client has held with repayment
// summaries.
func (h *clientHandler) getClientHistory(c *gin.Context) {
	code, ok := clientCodeParam(c)
	if !ok {
		return
	}
	history, err := h.clientService.GetClientHistory(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// updateClient rewrites a client's basic identity fields.
func (h *clientHandler) updateClient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code, ok := clientCodeParam(c)
	if !ok {
		return
	}

	var req dto.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateClient", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	client, err := h.clientService.UpdateClientBasics(c.Request.Context(), code, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// updateCardTerms rewrites the schedule of the client's active card.
func (h *clientHandler) updateCardTerms(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	code, ok := clientCodeParam(c)
	if !ok {
		return
	}

	var req dto.UpdateCardTermsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCardTerms", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	card, err := h.clientService.UpdateActiveCardTerms(c.Request.Context(), code, req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

// deactivateClient retires a zero-balance client from the route.
func (h *clientHandler) deactivateClient(c *gin.Context) {
	code, ok := clientCodeParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	client, err := h.loanService.DeactivateClient(c.Request.Context(), code, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// refreshClientStatus recomputes and persists the client's derived activity
// state.
func (h *clientHandler) refreshClientStatus(c *gin.Context) {
	code, ok := clientCodeParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	overview, err := h.loanService.RefreshClientStatus(c.Request.Context(), code, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// purgeClient hard-deletes a client with all cards and ledger entries.
func (h *clientHandler) purgeClient(c *gin.Context) {
	code, ok := clientCodeParam(c)
	if !ok {
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.loanService.PurgeClient(c.Request.Context(), code, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
