package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/powersave-cy/powersave-backend/internal/config"
	"github.com/powersave-cy/powersave-backend/internal/handlers"
	"github.com/powersave-cy/powersave-backend/internal/middleware"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	walletHandler *handlers.WalletHandler,
	sessionHandler *handlers.SessionHandler,
	gardenHandler *handlers.GardenHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	wallet := protected.Group("/wallet/:userId")
	{
		wallet.GET("/balance", walletHandler.GetBalance)
		wallet.GET("/coverage", walletHandler.GetCoverage)
		wallet.GET("/transactions", walletHandler.ListTransactions)
		wallet.GET("/summary/:year/:month", walletHandler.MonthlySummary)
		wallet.POST("/debit", walletHandler.Debit)
		wallet.POST("/donate", walletHandler.Donate)
		wallet.POST("/pay-municipality", walletHandler.PayMunicipality)
	}

	sessions := protected.Group("/sessions")
	{
		sessions.POST("", sessionHandler.Schedule)
		sessions.GET("/user/:userId", sessionHandler.List)
		sessions.GET("/user/:userId/stats", sessionHandler.Stats)
		sessions.GET("/:id", sessionHandler.GetByID)
		sessions.POST("/:id/start", sessionHandler.Start)
		sessions.POST("/:id/complete", sessionHandler.Complete)
		sessions.POST("/:id/cancel", sessionHandler.Cancel)
		// Failing a session is an operator action, not a user one.
		sessions.POST("/:id/fail", middleware.AdminMiddleware(), sessionHandler.Fail)
	}

	garden := protected.Group("/garden")
	{
		garden.GET("/plants", gardenHandler.Catalog)
		garden.GET("/:userId", gardenHandler.GetGarden)
		garden.POST("/:userId/plant", gardenHandler.Plant)
		garden.POST("/:userId/water", gardenHandler.Water)
	}

	return router
}
