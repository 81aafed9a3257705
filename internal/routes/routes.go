package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/valecashback/backend/internal/handlers"
	"github.com/valecashback/backend/internal/middleware"
	"github.com/valecashback/backend/internal/models"
	"github.com/valecashback/backend/internal/services/auth"
	"github.com/valecashback/backend/internal/services/ledger"
	"github.com/valecashback/backend/internal/services/qrcode"
	"github.com/valecashback/backend/internal/services/rates"
	"github.com/valecashback/backend/internal/services/referral"
	"github.com/valecashback/backend/internal/services/sale"
	"github.com/valecashback/backend/internal/services/transfer"
	"gorm.io/gorm"
)

// Services bundles the service layer passed into route registration
type Services struct {
	Auth     *auth.Service
	Rates    *rates.Service
	Ledger   *ledger.Service
	Referral *referral.Service
	Sale     *sale.Service
	Transfer *transfer.Service
	QRCode   *qrcode.Service
}

// RegisterRoutes registers all API routes. The rate limiter is owned by the
// caller, which is responsible for stopping it on shutdown.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, rateLimiter *middleware.RateLimiter, services Services) {
	authHandler := handlers.NewAuthHandler(services.Auth)
	saleHandler := handlers.NewSaleHandler(services.Sale)
	balanceHandler := handlers.NewBalanceHandler(services.Ledger)
	transferHandler := handlers.NewTransferHandler(services.Transfer)
	settingsHandler := handlers.NewSettingsHandler(services.Rates)
	referralHandler := handlers.NewReferralHandler(services.Referral)
	qrHandler := handlers.NewQRHandler(db, services.QRCode)
	merchantHandler := handlers.NewMerchantHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db)

	api := router.Group("/api/v1")
	api.Use(rateLimiter.Middleware())

	// Public routes
	public := api.Group("/auth")
	{
		public.POST("/register", authHandler.Register)
		public.POST("/register/merchant", authHandler.RegisterMerchant)
		public.POST("/login", authHandler.Login)
	}

	// Authenticated routes
	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		authenticated.GET("/balance", balanceHandler.GetBalance)
		authenticated.GET("/transactions", balanceHandler.GetTransactions)

		authenticated.POST("/transfers", transferHandler.CreateTransfer)
		authenticated.GET("/transfers", transferHandler.GetTransfers)

		authenticated.GET("/referrals", referralHandler.GetReferrals)
		authenticated.GET("/referrals/stats", referralHandler.GetStats)

		authenticated.POST("/qrcodes/:code/pay", qrHandler.PayCode)

		authenticated.GET("/notifications", notificationHandler.GetNotifications)
		authenticated.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	}

	// Merchant routes
	merchant := api.Group("/merchant")
	merchant.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleMerchant, models.RoleAdmin))
	{
		merchant.POST("/sales", saleHandler.RegisterSale)
		merchant.POST("/qrcodes", qrHandler.CreateCode)
		merchant.GET("/qrcodes", qrHandler.GetCodes)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/settings/rates", settingsHandler.GetRates)
		admin.PUT("/settings/rates", settingsHandler.UpdateRates)

		admin.GET("/merchants", merchantHandler.ListMerchants)
		admin.PATCH("/merchants/:id/approve", merchantHandler.ApproveMerchant)
		admin.PATCH("/merchants/:id/commission", merchantHandler.SetCommissionRate)
	}
}
