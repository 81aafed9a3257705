package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/services/ledger"
	"github.com/valecashback/backend/internal/services/transfer"
)

// TransferHandler handles peer-to-peer balance transfers
type TransferHandler struct {
	transferService *transfer.Service
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transferService *transfer.Service) *TransferHandler {
	return &TransferHandler{transferService: transferService}
}

// CreateTransfer moves balance from the authenticated user to another user
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		ToUserID    uuid.UUID       `json:"to_user_id" binding:"required"`
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Description string          `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.transferService.Transfer(userID, input.ToUserID, input.Amount, input.Description)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrInvalidAmount), errors.Is(err, transfer.ErrSameUser):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, transfer.ErrRecipientNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrInsufficientFunds):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to transfer"})
		}
		return
	}

	c.JSON(http.StatusCreated, t)
}

// GetTransfers lists the authenticated user's transfers
func (h *TransferHandler) GetTransfers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	transfers, total, err := h.transferService.GetTransfers(userID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get transfers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transfers": transfers,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}
