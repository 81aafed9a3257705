package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/services/ledger"
	"github.com/valecashback/backend/internal/services/rates"
	"github.com/valecashback/backend/internal/services/sale"
	"github.com/valecashback/backend/internal/services/settlement"
)

// SaleHandler handles sale registration requests
type SaleHandler struct {
	saleService *sale.Service
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(saleService *sale.Service) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// RegisterSale settles a sale for a client at a merchant
func (h *SaleHandler) RegisterSale(c *gin.Context) {
	var input struct {
		UserID        uuid.UUID       `json:"user_id" binding:"required"`
		MerchantID    uuid.UUID       `json:"merchant_id" binding:"required"`
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		PaymentMethod string          `json:"payment_method"`
		Description   string          `json:"description"`
		Reference     string          `json:"reference"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	txn, err := h.saleService.RegisterSale(sale.RegisterSaleInput{
		UserID:        input.UserID,
		MerchantID:    input.MerchantID,
		Amount:        input.Amount,
		PaymentMethod: input.PaymentMethod,
		Description:   input.Description,
		Reference:     input.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, settlement.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, sale.ErrMerchantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, sale.ErrMerchantNotApproved):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, rates.ErrConfigurationMissing):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrPersistence):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "settlement failed, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register sale"})
		}
		return
	}

	c.JSON(http.StatusCreated, txn)
}
