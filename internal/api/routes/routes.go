package routes

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"cadetboard/internal/api/handlers"
	"cadetboard/internal/api/middleware"
	"cadetboard/internal/config"
	"cadetboard/internal/services"
)

// Deps carries the wired services into the route table. Everything is
// injected; the router owns no state of its own.
type Deps struct {
	Auth    *services.AuthService
	Records *services.RecordService
	Cadets  *services.CadetService
	Log     *slog.Logger
}

func SetupRoutes(r *gin.Engine, cfg *config.Config, d Deps) {
	authHandler := handlers.NewAuthHandler(d.Auth, cfg)
	recordsHandler := handlers.NewRecordsHandler(d.Records)
	cadetsHandler := handlers.NewCadetsHandler(d.Cadets)

	// Middleware
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.ErrorHandler())
	if d.Log != nil {
		r.Use(middleware.RequestLogger(d.Log))
	}

	// Public routes (game client and spreadsheet sidebar)
	api := r.Group("/api")
	api.Use(middleware.APIKeyMiddleware(cfg.Security.APIKeyHash))
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "CadetBoard API is running",
			})
		})

		api.POST("/auth", authHandler.Authenticate)
		api.POST("/users", authHandler.Register)
		api.POST("/dialogue", recordsHandler.Submit)
	}

	// Protected routes (bearer token from /api/auth)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(d.Auth))
	{
		records := protected.Group("/records")
		{
			records.GET("/:status", recordsHandler.List)
			records.POST("/status", middleware.RequireEditButtons(), recordsHandler.Review)
		}

		cadets := protected.Group("/cadets")
		{
			cadets.GET("/:nickname", cadetsHandler.Info)
			cadets.POST("/online", cadetsHandler.Online)
		}
	}
}
