package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Zaffarpulse/pulse-hospital-app/config"
	"github.com/Zaffarpulse/pulse-hospital-app/handlers"
	"github.com/Zaffarpulse/pulse-hospital-app/middleware"
	"github.com/Zaffarpulse/pulse-hospital-app/models"
	"github.com/Zaffarpulse/pulse-hospital-app/services"
	"github.com/Zaffarpulse/pulse-hospital-app/store"
)

func SetupRoutes(router *gin.Engine, st store.Storage, cfg *config.Config) {
	logger := config.GetLogger()

	// Initialize services and handlers
	sheetsClient := services.NewSheetsClient(cfg.SheetsURL, logger)
	authService := services.NewAuthService(st, cfg, logger)
	reportService := services.NewReportService(st, sheetsClient, logger)

	authHandler := handlers.NewAuthHandler(authService)
	reportHandler := handlers.NewReportHandler(reportService)
	userHandler := handlers.NewUserHandler(authService)

	router.Use(middleware.RequestID())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"success": true,
			"message": "Server is running",
		})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/generate-otp", authHandler.GenerateOTP)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.GET("/me", middleware.AuthMiddleware(cfg), authHandler.GetMe)
		}

		reports := api.Group("/reports")
		{
			reports.POST("/electrical", reportHandler.SubmitElectrical)
			reports.POST("/ac", reportHandler.SubmitAC)
			reports.GET("", reportHandler.GetReports)
			reports.GET("/:id", reportHandler.GetReportByID)
			reports.PATCH("/:id", reportHandler.UpdateReport)
		}

		// Admin path for provisioning staff accounts
		users := api.Group("/users")
		users.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(models.RoleManager))
		{
			users.POST("", userHandler.CreateUser)
		}
	}
}
