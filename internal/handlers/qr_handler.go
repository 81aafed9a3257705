package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/services/ledger"
	"github.com/valecashback/backend/internal/services/qrcode"
	"github.com/valecashback/backend/internal/services/sale"
	"gorm.io/gorm"
)

// QRHandler handles merchant payment QR codes
type QRHandler struct {
	db        *gorm.DB
	qrService *qrcode.Service
}

// NewQRHandler creates a new QR code handler
func NewQRHandler(db *gorm.DB, qrService *qrcode.Service) *QRHandler {
	return &QRHandler{db: db, qrService: qrService}
}

// CreateCode creates a payment QR code for the authenticated merchant
func (h *QRHandler) CreateCode(c *gin.Context) {
	merchant, ok := h.currentMerchant(c)
	if !ok {
		return
	}

	var input struct {
		Amount      decimal.Decimal `json:"amount" binding:"required"`
		Description string          `json:"description"`
		TTLMinutes  int             `json:"ttl_minutes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.TTLMinutes <= 0 {
		input.TTLMinutes = 15
	}

	code, err := h.qrService.CreateCode(merchant.ID, input.Amount, input.Description, time.Duration(input.TTLMinutes)*time.Minute)
	if err != nil {
		if errors.Is(err, qrcode.ErrInvalidAmount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create QR code"})
		return
	}

	c.JSON(http.StatusCreated, code)
}

// GetCodes lists the authenticated merchant's QR codes
func (h *QRHandler) GetCodes(c *gin.Context) {
	merchant, ok := h.currentMerchant(c)
	if !ok {
		return
	}

	codes, err := h.qrService.GetMerchantCodes(merchant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get QR codes"})
		return
	}

	c.JSON(http.StatusOK, codes)
}

// PayCode pays a QR code as the authenticated client
func (h *QRHandler) PayCode(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input struct {
		PaymentMethod string `json:"payment_method"`
	}
	// Body is optional; default the payment method when absent
	_ = c.ShouldBindJSON(&input)
	if input.PaymentMethod == "" {
		input.PaymentMethod = "qrcode"
	}

	txn, err := h.qrService.PayCode(c.Param("code"), userID, input.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, qrcode.ErrCodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, qrcode.ErrCodeExpired), errors.Is(err, qrcode.ErrCodeUsed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, sale.ErrMerchantNotApproved):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ledger.ErrPersistence):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "settlement failed, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to pay QR code"})
		}
		return
	}

	c.JSON(http.StatusCreated, txn)
}

// currentMerchant resolves the merchant profile of the authenticated user
func (h *QRHandler) currentMerchant(c *gin.Context) (*models.Merchant, bool) {
	userID, ok := currentUserID(c)
	if !ok {
		return nil, false
	}

	var merchant models.Merchant
	err := h.db.First(&merchant, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusForbidden, gin.H{"error": "no merchant profile"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load merchant profile"})
		return nil, false
	}
	return &merchant, true
}
