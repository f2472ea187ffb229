package http

import (
	"errors"
	"net/http"
	"strconv"

	"contest-arena/pkg/ledger"
	"contest-arena/pkg/logger"
	"contest-arena/services/wallet/internal/usecase"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	walletUseCase usecase.WalletUseCase
	logger        *logger.Logger
}

func NewWalletHandler(walletUseCase usecase.WalletUseCase, logger *logger.Logger) *WalletHandler {
	return &WalletHandler{
		walletUseCase: walletUseCase,
		logger:        logger,
	}
}

type AmountRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// GetBalance godoc
// @Summary      Get wallet balance
// @Description  Get the current balance for the authenticated user
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /wallet/balance [get]
func (h *WalletHandler) GetBalance(c *gin.Context) {
	userID := c.GetString("user_id")

	balance, err := h.walletUseCase.GetBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ledger.ErrWalletNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"message": "Wallet not found",
			})
			return
		}
		h.logger.Error("Failed to get balance: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to get balance",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Balance retrieved",
		"data":    gin.H{"balance": balance},
	})
}

// AddFunds godoc
// @Summary      Add funds
// @Description  Deposit funds into the authenticated user's wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Idempotency key"
// @Param        request body AmountRequest true "Deposit amount"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Router       /wallet/add [post]
func (h *WalletHandler) AddFunds(c *gin.Context) {
	userID := c.GetString("user_id")

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Amount must be a positive number",
		})
		return
	}

	txn, err := h.walletUseCase.AddFunds(c.Request.Context(), userID, req.Amount, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.respondMoneyError(c, userID, err, "Failed to add funds")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Funds added successfully",
		"data": gin.H{
			"balance":     txn.BalanceAfter,
			"transaction": txn,
		},
	})
}

// DeductFunds godoc
// @Summary      Deduct funds
// @Description  Withdraw funds from the authenticated user's wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key header string false "Idempotency key"
// @Param        request body AmountRequest true "Withdrawal amount"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /wallet/deduct [post]
func (h *WalletHandler) DeductFunds(c *gin.Context) {
	userID := c.GetString("user_id")

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Amount must be a positive number",
		})
		return
	}

	txn, err := h.walletUseCase.DeductFunds(c.Request.Context(), userID, req.Amount, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.respondMoneyError(c, userID, err, "Failed to deduct funds")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Funds deducted successfully",
		"data": gin.H{
			"balance":     txn.BalanceAfter,
			"transaction": txn,
		},
	})
}

// GetHistory godoc
// @Summary      Get transaction history
// @Description  Get the transaction history for the authenticated user, newest first
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Number of transactions"
// @Param        offset query int false "Offset"
// @Success      200  {object}  map[string]interface{}
// @Router       /wallet/transactions [get]
func (h *WalletHandler) GetHistory(c *gin.Context) {
	userID := c.GetString("user_id")
	limit := 50
	offset := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			limit = l
		}
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}

	transactions, err := h.walletUseCase.GetHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to get transactions: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to get transactions",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Transactions retrieved",
		"data": gin.H{
			"transactions": transactions,
			"count":        len(transactions),
		},
	})
}

// respondMoneyError maps ledger failures to HTTP responses. Rejections that
// leave the wallet intact include the authoritative balance when it can be
// read back.
func (h *WalletHandler) respondMoneyError(c *gin.Context, userID string, err error, fallback string) {
	switch {
	case errors.Is(err, ledger.ErrWalletNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Wallet not found",
		})
	case errors.Is(err, ledger.ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Amount must be a positive number",
		})
	case errors.Is(err, ledger.ErrInsufficientFunds):
		body := gin.H{
			"success": false,
			"message": "Insufficient funds",
		}
		if balance, berr := h.walletUseCase.GetBalance(c.Request.Context(), userID); berr == nil {
			body["data"] = gin.H{"balance": balance}
		}
		c.JSON(http.StatusBadRequest, body)
	case errors.Is(err, ledger.ErrDailyLimitExceeded):
		body := gin.H{
			"success": false,
			"message": "Daily limit exceeded",
		}
		if balance, berr := h.walletUseCase.GetBalance(c.Request.Context(), userID); berr == nil {
			body["data"] = gin.H{"balance": balance}
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		h.logger.Error("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": fallback,
		})
	}
}
