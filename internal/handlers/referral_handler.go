package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valecashback/backend/internal/services/referral"
)

// ReferralHandler handles referral queries
type ReferralHandler struct {
	referralService *referral.Service
}

// NewReferralHandler creates a new referral handler
func NewReferralHandler(referralService *referral.Service) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// GetReferrals lists the authenticated user's referrals
func (h *ReferralHandler) GetReferrals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	refs, err := h.referralService.GetReferrals(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get referrals"})
		return
	}

	c.JSON(http.StatusOK, refs)
}

// GetStats summarizes the authenticated user's referral earnings
func (h *ReferralHandler) GetStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.referralService.GetStats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get referral stats"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
