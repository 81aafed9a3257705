package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valecashback/backend/internal/services/rates"
)

// SettingsHandler handles admin rate configuration
type SettingsHandler struct {
	ratesService *rates.Service
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(ratesService *rates.Service) *SettingsHandler {
	return &SettingsHandler{ratesService: ratesService}
}

// GetRates returns the global rate configuration
func (h *SettingsHandler) GetRates(c *gin.Context) {
	config, err := h.ratesService.GetGlobalRates()
	if err != nil {
		if errors.Is(err, rates.ErrConfigurationMissing) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get rates"})
		return
	}

	c.JSON(http.StatusOK, config)
}

// UpdateRates replaces the global rate configuration
func (h *SettingsHandler) UpdateRates(c *gin.Context) {
	var config rates.RateConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.ratesService.UpdateGlobalRates(config); err != nil {
		if errors.Is(err, rates.ErrInvalidRates) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update rates"})
		return
	}

	c.JSON(http.StatusOK, config)
}
