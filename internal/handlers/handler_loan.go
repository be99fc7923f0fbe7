package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/jdrojas/cobranza_app/internal/core/ports/services"
	"github.com/jdrojas/cobranza_app/internal/dto"
	"github.com/jdrojas/cobranza_app/internal/middleware"
)

// loanHandler handles loan origination and payments.
type loanHandler struct {
	loanService   portssvc.LoanSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

// registerLoanRoutes registers loan and card routes.
func registerLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := &loanHandler{loanService: loanService, ledgerService: ledgerService}

	rg.POST("/loans", h.openLoan)

	cards := rg.Group("/cards")
	{
		cards.POST("/:cardCode/payments", h.recordPayment)
		cards.GET("/:cardCode/ledger", h.getCardLedger)
		cards.GET("/:cardCode/balance", h.getCardBalance)
	}
}

// openLoan opens a loan for a new or known client.
func (h *loanHandler) openLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.OpenLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpenLoan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	grant, err := h.loanService.OpenLoan(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

// recordPayment records one installment payment on a card.
func (h *loanHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	receipt, err := h.loanService.RecordPayment(c.Request.Context(), c.Param("cardCode"), req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// getCardLedger returns a card's full entry history with its summary.
func (h *loanHandler) getCardLedger(c *gin.Context) {
	ledger, err := h.ledgerService.GetCardLedger(c.Request.Context(), c.Param("cardCode"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// getCardBalance returns a card's outstanding balance.
func (h *loanHandler) getCardBalance(c *gin.Context) {
	balance, err := h.ledgerService.CurrentBalance(c.Request.Context(), c.Param("cardCode"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cardCode": c.Param("cardCode"), "balance": balance})
}
