package main

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"travel-booking-server/config"
	"travel-booking-server/database"
	"travel-booking-server/jobs"
	"travel-booking-server/logger"
	"travel-booking-server/middleware"
	"travel-booking-server/routes"
	"travel-booking-server/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}

	// Idempotent startup reconciliation: make sure a default admin exists
	if err := EnsureDefaultAdmin(); err != nil {
		logger.Fatal("failed to ensure default admin", "error", err)
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.CORSMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Travel Booking Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Shared collaborators
	mailService := services.NewMailService()
	pdfService := services.NewPDFService()

	newsletterJob := jobs.NewNewsletterJob(mailService)
	newsletterJob.Start()
	defer newsletterJob.Stop()

	routes.Setup(mailService, pdfService, newsletterJob)

	// API routes
	api := router.Group("/api/v1")
	routes.Register(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = config.AppConfig.Server.Port
	}

	logger.Info("server starting", "port", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		logger.Fatal("failed to start server", "error", err)
	}
}
