package main

import (
	"log"
	"os"

	_ "retailpos/api/swagger" // swagger docs
	"retailpos/internal/cache"
	"retailpos/internal/config"
	"retailpos/internal/database"
	"retailpos/internal/handler"
	"retailpos/internal/middleware"
	"retailpos/internal/repository"
	"retailpos/internal/service"
	"retailpos/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Retail POS Back-Office API
// @version         1.0
// @description     Sales, expense approval, purchasing, reporting and catalog management for a retail back office.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	if level, parseErr := logrus.ParseLevel(cfg.LogLevel); parseErr == nil {
		logrus.SetLevel(level)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	if cfg.JWTSecret != "" {
		os.Setenv("JWT_SECRET", cfg.JWTSecret)
	}

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	logrus.Info("connected to PostgreSQL")

	// Report cache is optional; without REDIS_ADDR reports hit the DB directly.
	var summaryCache service.SummaryCache
	if cfg.RedisAddr != "" {
		redisClient, cacheErr := cache.New(cfg.RedisAddr)
		if cacheErr != nil {
			logrus.WithError(cacheErr).Warn("redis unavailable, report cache disabled")
		} else {
			summaryCache = redisClient
			defer redisClient.Close()
			logrus.Info("connected to Redis")
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	supplierTxRepo := repository.NewSupplierTransactionRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	reportRepo := repository.NewReportRepository(db)

	userService := service.NewUserService(userRepo, service.TokenConfig{Secret: string(middleware.GetJWTSecret())})
	catalogService := service.NewCatalogService(categoryRepo, productRepo, auditRepo, txManager)
	customerService := service.NewCustomerService(customerRepo, auditRepo, txManager)
	supplierService := service.NewSupplierService(supplierRepo, auditRepo, txManager)
	employeeService := service.NewEmployeeService(employeeRepo, storeRepo, auditRepo, txManager, service.EmployeeDefaults{
		SalesQuota:     cfg.SalesQuota(),
		CommissionRate: cfg.CommissionRate(),
	})
	orgService := service.NewOrganizationService(storeRepo, departmentRepo, auditRepo, txManager)
	saleService := service.NewSaleService(saleRepo, productRepo, customerRepo, employeeRepo, auditRepo, txManager, wsHub)
	expenseService := service.NewExpenseService(expenseRepo, departmentRepo, auditRepo, txManager)
	supplierTxService := service.NewSupplierTransactionService(supplierTxRepo, supplierRepo, productRepo, auditRepo, txManager)
	reportService := service.NewReportService(reportRepo, productRepo, summaryCache, logrus.StandardLogger())
	auditService := service.NewAuditService(auditRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	customerHandler := handler.NewCustomerHandler(customerService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	orgHandler := handler.NewOrganizationHandler(orgService)
	saleHandler := handler.NewSaleHandler(saleService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	supplierTxHandler := handler.NewSupplierTransactionHandler(supplierTxService)
	reportHandler := handler.NewReportHandler(reportService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	catalogHandler.RegisterRoutes(root)
	customerHandler.RegisterRoutes(root)
	supplierHandler.RegisterRoutes(root)
	employeeHandler.RegisterRoutes(root)
	orgHandler.RegisterRoutes(root)
	saleHandler.RegisterRoutes(root)
	expenseHandler.RegisterRoutes(root)
	supplierTxHandler.RegisterRoutes(root)
	reportHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)

	logrus.WithField("port", cfg.Port).Info("server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("server failed")
	}
}
