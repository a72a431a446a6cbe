package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/config"
	"github.com/staffhousing/backoffice-api/internal/database"
	"github.com/staffhousing/backoffice-api/internal/handlers"
	"github.com/staffhousing/backoffice-api/internal/middleware"
	"github.com/staffhousing/backoffice-api/internal/services"
	"github.com/staffhousing/backoffice-api/pkg/jwt"
	"github.com/staffhousing/backoffice-api/pkg/validator"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

// initialLoadTimeout bounds the directory load done before the server accepts requests
const initialLoadTimeout = 2 * time.Minute

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting staff housing back-office API")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if err := validator.RegisterBindings(); err != nil {
		logger.Fatalf("Failed to register request validators: %v", err)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	adminUserRepo := database.NewAdminUserRepository(db)
	adminTokenRepo := database.NewAdminRefreshTokenRepository(db)
	auditRepo := database.NewAuditLogRepository(db)
	staffRepo := database.NewExternalStaffRepository(db)
	propertyRepo := database.NewPropertyRepository(db)
	assignmentRepo := database.NewAssignmentRepository(db)
	depositRepo := database.NewSecurityDepositRepository(db)
	flightRepo := database.NewFlightAgreementRepository(db)
	inventoryRepo := database.NewInventoryRepository(db)
	supplierRepo := database.NewSupplierRepository(db)
	purchaseOrderRepo := database.NewPurchaseOrderRepository(db)
	billingRepo := database.NewBillingRepository(db)

	// Services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	auditService := services.NewAuditService(auditRepo, logger, cfg.Security.EnableAuditLog)
	adminAuthService := services.NewAdminAuthService(adminUserRepo, adminTokenRepo, jwtService, logger)
	directoryService := services.NewStaffDirectoryService(staffRepo, logger, cfg.Directory.PageSize, cfg.Directory.LoadAttempts)
	importService := services.NewStaffImportService(staffRepo, directoryService, logger, cfg.Import.BatchSize)
	assignmentService := services.NewAssignmentService(assignmentRepo, depositRepo, propertyRepo, flightRepo, directoryService, logger)
	depositService := services.NewSecurityDepositService(depositRepo, assignmentRepo, logger)
	flightService := services.NewFlightAgreementService(flightRepo, logger)
	inventoryService := services.NewInventoryService(inventoryRepo, supplierRepo, logger)
	purchaseOrderService := services.NewPurchaseOrderService(purchaseOrderRepo, logger)
	billingService := services.NewBillingService(billingRepo, logger)

	// An empty directory still serves requests; the hourly refresh retries.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), initialLoadTimeout)
	if err := directoryService.Refresh(loadCtx); err != nil {
		logger.WithError(err).Warn("Initial staff directory load failed")
	}
	cancelLoad()

	cronService := services.NewCronService(services.CronJobs{
		Directory: directoryService,
		Billing:   billingService,
		Deposits:  depositService,
		Auth:      adminAuthService,
		Audit:     auditService,
	}, logger, cfg.Directory.RefreshCron)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAdminAuthHandler(adminAuthService, auditService, logger)
	staffHandler := handlers.NewExternalStaffHandler(staffRepo, directoryService, importService, auditService, logger, cfg.Import.MaxUploadMB)
	propertyHandler := handlers.NewPropertyHandler(propertyRepo, logger)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService, depositService, auditService, logger)
	depositHandler := handlers.NewSecurityDepositHandler(depositService, auditService, logger)
	flightHandler := handlers.NewFlightAgreementHandler(flightService, logger)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, logger)
	purchaseOrderHandler := handlers.NewPurchaseOrderHandler(purchaseOrderService, auditService, logger)
	billingHandler := handlers.NewBillingHandler(billingService, logger)
	activityHandler := handlers.NewActivityHandler(auditService, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db, directoryService))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		{
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Only managers and admins change records; viewers read
			write := middleware.RequireRole("admin", "manager")

			staff := protected.Group("/external-staff")
			{
				staff.GET("", staffHandler.List)
				staff.GET("/stats", staffHandler.Stats)
				staff.GET("/search", staffHandler.Search)
				staff.GET("/:id", staffHandler.Get)
				staff.POST("/import", write, staffHandler.Import)
			}

			properties := protected.Group("/properties")
			{
				properties.GET("", propertyHandler.List)
				properties.POST("", write, propertyHandler.Create)
				properties.GET("/:id/rooms", propertyHandler.ListRooms)
				properties.POST("/:id/rooms", write, propertyHandler.CreateRoom)
			}

			assignments := protected.Group("/assignments")
			{
				assignments.POST("/deduction-preview", assignmentHandler.PreviewDeductions)
				assignments.POST("/flight-preview", assignmentHandler.PreviewFlightDeductions)
				assignments.GET("", assignmentHandler.List)
				assignments.POST("", write, assignmentHandler.Create)
				assignments.GET("/:id", assignmentHandler.Get)
				assignments.GET("/:id/security-deposits", assignmentHandler.ListDeposits)
				assignments.PATCH("/:id/start-date", write, assignmentHandler.UpdateStartDate)
				assignments.PATCH("/:id/status", write, assignmentHandler.UpdateStatus)
				assignments.DELETE("/:id", write, assignmentHandler.Delete)
			}

			deposits := protected.Group("/security-deposits", write)
			{
				deposits.PUT("/:id/amount", depositHandler.UpdateAmount)
				deposits.POST("/:id/mark-paid", depositHandler.MarkPaid)
				deposits.PATCH("/:id/deductions/:number", depositHandler.UpdateDeductionStatus)
			}

			flights := protected.Group("/flight-agreements")
			{
				flights.GET("", flightHandler.List)
				flights.GET("/:id", flightHandler.Get)
				flights.PATCH("/:id/deductions/:sequence", write, flightHandler.UpdateDeduction)
				flights.POST("/:id/cancel", write, flightHandler.Cancel)
			}

			inventory := protected.Group("/inventory")
			{
				inventory.GET("/categories", inventoryHandler.ListCategories)
				inventory.POST("/categories", write, inventoryHandler.CreateCategory)
				inventory.PUT("/categories/:id", write, inventoryHandler.UpdateCategory)
				inventory.GET("/items", inventoryHandler.ListItems)
				inventory.POST("/items", write, inventoryHandler.CreateItem)
				inventory.GET("/items/:id", inventoryHandler.GetItem)
				inventory.PUT("/items/:id", write, inventoryHandler.UpdateItem)
				inventory.POST("/items/:id/adjust", write, inventoryHandler.AdjustStock)
				inventory.POST("/items/:id/issue", write, inventoryHandler.IssueItem)
				inventory.GET("/items/:id/transactions", inventoryHandler.ListTransactions)
			}

			suppliers := protected.Group("/suppliers")
			{
				suppliers.GET("", inventoryHandler.ListSuppliers)
				suppliers.POST("", write, inventoryHandler.CreateSupplier)
				suppliers.PUT("/:id", write, inventoryHandler.UpdateSupplier)
			}

			orders := protected.Group("/purchase-orders")
			{
				orders.GET("", purchaseOrderHandler.List)
				orders.POST("", write, purchaseOrderHandler.Create)
				orders.GET("/:id", purchaseOrderHandler.Get)
				orders.PATCH("/:id/status", write, purchaseOrderHandler.UpdateStatus)
				orders.POST("/:id/receive", write, purchaseOrderHandler.Receive)
			}

			bills := protected.Group("/bills")
			{
				bills.GET("", billingHandler.List)
				bills.GET("/stats", billingHandler.Stats)
				bills.POST("", write, billingHandler.Create)
				bills.POST("/:id/pay", write, billingHandler.MarkPaid)
				bills.DELETE("/:id", write, billingHandler.Delete)
			}

			protected.GET("/activity-log", middleware.RequireRole("admin"), activityHandler.List)
			protected.GET("/cron/status", middleware.RequireRole("admin"), func(c *gin.Context) {
				c.JSON(http.StatusOK, cronService.GetJobStatus())
			})
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
			"has_auth":   c.GetHeader("Authorization") != "",
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["roles"] = userCtx.Roles
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler reports database reachability and the directory snapshot size
func healthCheckHandler(db database.DB, directory *services.StaffDirectoryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		size, loadedAt := directory.Size()
		directoryStatus := gin.H{"staff_count": size}
		if !loadedAt.IsZero() {
			directoryStatus["loaded_at"] = loadedAt.UTC().Format(time.RFC3339)
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"directory": directoryStatus,
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
