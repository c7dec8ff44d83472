package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"sodtech/internal/auth"
	"sodtech/internal/cache"
	"sodtech/internal/config"
	"sodtech/internal/database"
	"sodtech/internal/handlers"
	"sodtech/internal/jobs"
	"sodtech/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Campaign cache is optional: without REDIS_ADDR the list endpoint just
	// reads the database directly.
	var campaignCache *cache.CampaignCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
		})
		campaignCache = cache.NewCampaignCache(rdb, 30*time.Second)
		log.Printf("Campaign cache enabled (redis at %s)", cfg.Redis.Addr)
	}

	// Initialize services
	ledgerService := services.NewLedgerService(database.GetDB())
	miningService := services.NewMiningService(database.GetDB(), ledgerService)
	campaignService := services.NewCampaignService(database.GetDB(), ledgerService, campaignCache)
	referralService := services.NewReferralService(database.GetDB(), ledgerService)
	authService := services.NewAuthService(database.GetDB(), referralService)
	userService := services.NewUserService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService)
	walletHandler := handlers.NewWalletHandler(ledgerService)
	miningHandler := handlers.NewMiningHandler(miningService)
	campaignHandler := handlers.NewCampaignHandler(campaignService)
	referralHandler := handlers.NewReferralHandler(referralService, userService)

	// Start the midnight mining reset
	dailyReset := jobs.NewDailyMiningReset(database.GetDB())
	if err := dailyReset.Start(); err != nil {
		log.Fatalf("Failed to start daily mining reset: %v", err)
	}
	defer dailyReset.Stop()

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.GetMe)
	}

	// Public campaign routes
	router.GET("/api/campaigns", campaignHandler.ListCampaigns)
	router.GET("/api/campaigns/:id", campaignHandler.GetCampaign)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		// Wallet endpoints
		walletRoutes := api.Group("/wallet")
		{
			walletRoutes.GET("", walletHandler.GetWallet)
			walletRoutes.GET("/transactions", walletHandler.GetTransactions)
		}

		// Mining endpoints
		miningRoutes := api.Group("/mining")
		{
			miningRoutes.POST("/mine", miningHandler.Mine)
			miningRoutes.POST("/boost", miningHandler.ActivateBoost)
			miningRoutes.GET("/boost", miningHandler.GetBoostState)
			miningRoutes.GET("/stats", miningHandler.GetStats)
		}

		// Campaign participation endpoints
		api.GET("/participations", campaignHandler.GetParticipations)
		api.POST("/campaigns/:id/participate", campaignHandler.Participate)
		api.POST("/campaigns/:id/complete", campaignHandler.Complete)

		// Referral endpoints
		referralRoutes := api.Group("/referral")
		{
			referralRoutes.GET("/code", referralHandler.GetReferralCode)
			referralRoutes.GET("/referrals", referralHandler.GetReferrals)
		}
	}

	// Business routes (protected + business role)
	business := router.Group("/api/business")
	business.Use(auth.AuthMiddleware())
	business.Use(auth.RequireBusiness())
	{
		business.POST("/campaigns", campaignHandler.CreateCampaign)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
