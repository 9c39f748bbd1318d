package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/powersave-cy/powersave-backend/internal/services"
)

// WalletHandler handles waste-wallet HTTP requests
type WalletHandler struct {
	walletService services.WalletService
}

// NewWalletHandler creates a new WalletHandler
func NewWalletHandler(walletService services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// GetBalance handles GET /wallet/:userId/balance
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	account, err := h.walletService.GetBalance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

// GetCoverage handles GET /wallet/:userId/coverage
func (h *WalletHandler) GetCoverage(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	coverage, err := h.walletService.GetCoverage(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, coverage)
}

// ListTransactions handles GET /wallet/:userId/transactions
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	transactions, err := h.walletService.ListTransactions(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

// debitRequest is the payload for POST /wallet/:userId/debit
type debitRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description"`
}

// Debit handles POST /wallet/:userId/debit
func (h *WalletHandler) Debit(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	var req debitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.walletService.Debit(c.Request.Context(), userID, req.Amount, models.TransactionDebit, req.Description, "")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// donateRequest is the payload for POST /wallet/:userId/donate
type donateRequest struct {
	Amount          float64 `json:"amount" binding:"required,gt=0"`
	RecipientFundID string  `json:"recipient_fund_id"`
}

// Donate handles POST /wallet/:userId/donate
func (h *WalletHandler) Donate(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	var req donateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.RecipientFundID == "" {
		req.RecipientFundID = "energy-solidarity-fund"
	}

	transaction, err := h.walletService.Donate(c.Request.Context(), userID, req.Amount, req.RecipientFundID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// payRequest is the payload for POST /wallet/:userId/pay-municipality
type payRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// PayMunicipality handles POST /wallet/:userId/pay-municipality
func (h *WalletHandler) PayMunicipality(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transaction, err := h.walletService.PayMunicipality(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, transaction)
}

// MonthlySummary handles GET /wallet/:userId/summary/:year/:month
func (h *WalletHandler) MonthlySummary(c *gin.Context) {
	userID, ok := targetUserID(c, c.Param("userId"))
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2020 || year > time.Now().Year()+1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	summary, err := h.walletService.MonthlySummary(c.Request.Context(), userID, year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
