// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sparkletidy/internal/handlers"
	"sparkletidy/internal/middleware"
	"sparkletidy/internal/services"

	_ "sparkletidy/internal/docs" // Import swagger docs
)

// Deps holds everything the router needs.
type Deps struct {
	Transactions services.TransactionServicer
	Reports      services.ReportServicer
	Exports      services.ExportServicer
	Mock         services.MockServicer
	Auth         services.AuthServicer
	Audit        services.AuditServicer
	Store        handlers.Pinger

	Tokens        *middleware.TokenIssuer
	BookingAPIKey string

	// EnableDocs mounts /swagger and /metrics.
	EnableDocs bool
}

// NewRouter builds the gin engine with every API route.
func NewRouter(d Deps) *gin.Engine {
	authHandler := handlers.NewAuthHandler(d.Auth, d.Audit, d.Tokens)
	transactionHandler := handlers.NewTransactionHandler(d.Transactions, d.Audit)
	reportHandler := handlers.NewReportHandler(d.Reports, d.Exports)
	mockHandler := handlers.NewMockHandler(d.Mock, d.Audit)
	healthHandler := handlers.NewHealthHandler(d.Store)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.RequestMetrics())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	if d.EnableDocs {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/api/health", healthHandler.Health)

	v1 := router.Group("/api/v1")

	// Public routes
	v1.POST("/auth/login", authHandler.Login)

	// Booking site intake
	intake := v1.Group("/intake")
	intake.Use(middleware.APIKeyMiddleware(d.BookingAPIKey))
	intake.POST("/transactions", transactionHandler.IntakeTransaction)

	// Admin routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(d.Tokens))

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.ListTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	transactions.POST("/:id/refund", transactionHandler.RecordRefund)
	transactions.PUT("/:id/payout", transactionHandler.SetPayoutStatus)

	reports := protected.Group("/financial-reports")
	reports.GET("", reportHandler.GetFinancialReport)
	reports.GET("/export", reportHandler.ExportFinancialReport)

	protected.POST("/generate-mock-transactions", mockHandler.GenerateMockTransactions)

	return router
}
