package main

import (
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/valecashback/backend/internal/config"
	"github.com/valecashback/backend/internal/database"
	"github.com/valecashback/backend/internal/database/migrations"
	"github.com/valecashback/backend/internal/jobs"
	"github.com/valecashback/backend/internal/middleware"
	"github.com/valecashback/backend/internal/queue"
	"github.com/valecashback/backend/internal/routes"
	"github.com/valecashback/backend/internal/services/auth"
	"github.com/valecashback/backend/internal/services/ledger"
	"github.com/valecashback/backend/internal/services/qrcode"
	"github.com/valecashback/backend/internal/services/rates"
	"github.com/valecashback/backend/internal/services/referral"
	"github.com/valecashback/backend/internal/services/sale"
	"github.com/valecashback/backend/internal/services/transfer"
)

func main() {
	cfg := config.LoadConfig()

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := migrations.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis-backed job queue
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("Invalid Redis URL: %v", err)
	}
	if cfg.Redis.Password != "" {
		redisOpts.Password = cfg.Redis.Password
	}
	redisOpts.DB = cfg.Redis.DB
	redisQueue := queue.NewRedisClient(redis.NewClient(redisOpts), db)
	defer redisQueue.Close()

	// Service layer
	referralService := referral.NewService(db)
	ratesService := rates.NewService(db)
	ledgerService := ledger.NewService(db, referralService)
	saleService := sale.NewService(db, ratesService, ledgerService, redisQueue)
	transferService := transfer.NewService(db, ledgerService, redisQueue)
	qrService := qrcode.NewService(db, saleService)
	authService := auth.NewService(db, referralService)

	// Background workers
	worker := queue.NewWorker(redisQueue, 4)
	jobs.RegisterNotificationJobHandlers(worker, db)
	jobs.RegisterQRCodeExpiryJob(worker, qrService)
	worker.Start()
	defer worker.Stop()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	rateLimiter := middleware.NewRateLimiter(10, 20)
	defer rateLimiter.Stop()

	routes.RegisterRoutes(router, db, rateLimiter, routes.Services{
		Auth:     authService,
		Rates:    ratesService,
		Ledger:   ledgerService,
		Referral: referralService,
		Sale:     saleService,
		Transfer: transferService,
		QRCode:   qrService,
	})

	fmt.Printf("Vale Cashback API server running on port %s\n", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
