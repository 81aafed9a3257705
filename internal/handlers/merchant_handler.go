package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/valecashback/backend/internal/models"
	"gorm.io/gorm"
)

// MerchantHandler handles admin operations on merchants
type MerchantHandler struct {
	db *gorm.DB
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(db *gorm.DB) *MerchantHandler {
	return &MerchantHandler{db: db}
}

// ListMerchants lists merchants, optionally filtered by approval state
func (h *MerchantHandler) ListMerchants(c *gin.Context) {
	query := h.db.Model(&models.Merchant{})
	if approved := c.Query("approved"); approved != "" {
		query = query.Where("approved = ?", approved == "true")
	}

	var merchants []models.Merchant
	if err := query.Order("created_at DESC").Find(&merchants).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list merchants"})
		return
	}

	c.JSON(http.StatusOK, merchants)
}

// ApproveMerchant marks a merchant as approved for sales
func (h *MerchantHandler) ApproveMerchant(c *gin.Context) {
	merchantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid merchant ID"})
		return
	}

	result := h.db.Model(&models.Merchant{}).Where("id = ?", merchantID).Update("approved", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve merchant"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "merchant not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"approved": true})
}

// SetCommissionRate sets or clears a merchant's commission override
func (h *MerchantHandler) SetCommissionRate(c *gin.Context) {
	merchantID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid merchant ID"})
		return
	}

	var input struct {
		// Null clears the override so the global rate applies again
		CommissionRate *decimal.Decimal `json:"commission_rate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.CommissionRate != nil && input.CommissionRate.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commission rate must not be negative"})
		return
	}

	var merchant models.Merchant
	err = h.db.First(&merchant, "id = ?", merchantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "merchant not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load merchant"})
		return
	}

	merchant.CommissionRate = input.CommissionRate
	if err := h.db.Save(&merchant).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update merchant"})
		return
	}

	c.JSON(http.StatusOK, merchant)
}
