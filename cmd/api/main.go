package main

import (
	"fmt"
	"net/http"
	"os"

	"totality/internal/config"
	"totality/internal/database"
	"totality/internal/handlers"
	"totality/internal/logger"
	"totality/internal/middleware"
	"totality/internal/services"
	"totality/internal/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators before the first request binds
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	workspaceService := services.NewWorkspaceService(db)
	accountService := services.NewAccountService(db)
	bucketService := services.NewBucketService(db)
	transactionService := services.NewTransactionService(db, accountService)
	balanceService := services.NewBalanceService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, auditService)
	accountHandler := handlers.NewAccountHandler(accountService, balanceService, auditService)
	bucketHandler := handlers.NewBucketHandler(bucketService, balanceService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Currency directory
	v1.GET("/currencies", accountHandler.GetCurrencies)

	// Workspace routes
	workspaces := v1.Group("/workspaces")
	workspaces.POST("", workspaceHandler.CreateWorkspace)
	workspaces.GET("", workspaceHandler.GetWorkspaces)
	workspaces.GET("/:workspace_id", workspaceHandler.GetWorkspace)
	workspaces.GET("/:workspace_id/balances", accountHandler.GetBalances)

	// Account routes
	accounts := workspaces.Group("/:workspace_id/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.GET("", accountHandler.GetAccounts)
	accounts.GET("/:account_id", accountHandler.GetAccount)

	// Bucket routes
	buckets := workspaces.Group("/:workspace_id/buckets")
	buckets.POST("", bucketHandler.CreateBucket)
	buckets.GET("", bucketHandler.GetBuckets)
	buckets.GET("/balances", bucketHandler.GetBucketBalances)
	buckets.GET("/:bucket_id", bucketHandler.GetBucket)

	// Transaction routes
	transactions := accounts.Group("/:account_id/transactions")
	transactions.POST("", transactionHandler.PostTransaction)
	transactions.POST("/import", transactionHandler.ImportTransactions)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.DELETE("/:transaction_id", transactionHandler.DeleteTransaction)

	log.Infof("Starting Totality backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
