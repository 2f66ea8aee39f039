package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"ledgerly/internal/config"
	"ledgerly/internal/database"
	"ledgerly/internal/handlers"
	"ledgerly/internal/logger"
	"ledgerly/internal/middleware"
	"ledgerly/internal/services"
	"ledgerly/internal/validator"

	_ "ledgerly/internal/docs" // Import swagger docs
)

// @title           Ledgerly API
// @version         1.0
// @description     Ledgerly is a personal daily-budget ledger: every day gets an allocation, expenses draw it down, and the unspent remainder rolls forward while a savings balance tracks net worth.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

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

	// Register custom request validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	carryoverService := services.NewCarryoverService(db)
	ledgerService := services.NewLedgerService(db, carryoverService, appConfig.DefaultDailyBudget)
	expenseService := services.NewExpenseService(db, ledgerService, carryoverService, appConfig.RefundOnDelete)
	savingsService := services.NewSavingsService(db, ledgerService, carryoverService)
	categoryService := services.NewCategoryService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, savingsService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, carryoverService, savingsService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	savingsHandler := handlers.NewSavingsHandler(savingsService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	metaHandler := handlers.NewMetaHandler()

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

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	v1.GET("/meta", metaHandler.GetMeta)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Ledger routes
	ledger := protected.Group("/ledger")
	ledger.GET("/:date", ledgerHandler.GetDay)
	ledger.GET("/:date/summary", ledgerHandler.GetDaySummary)
	ledger.PUT("/:date/budget", ledgerHandler.UpdateBudget)
	ledger.POST("/:date/expenses", expenseHandler.CreateExpense)

	// Month overview
	protected.GET("/calendar/:year/:month", ledgerHandler.GetMonthOverview)

	// Expense routes
	expenses := protected.Group("/expenses")
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Savings routes
	savings := protected.Group("/savings")
	savings.GET("", savingsHandler.GetAccount)
	savings.POST("/deposit", savingsHandler.Deposit)
	savings.POST("/withdraw", savingsHandler.Withdraw)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	log.Infof("Starting Ledgerly backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
