// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niceai/studio-backend/internal/config"
	"github.com/niceai/studio-backend/internal/gateway"
	"github.com/niceai/studio-backend/internal/handlers"
	"github.com/niceai/studio-backend/internal/idgen"
	"github.com/niceai/studio-backend/internal/middleware"
	"github.com/niceai/studio-backend/internal/services"
	"github.com/niceai/studio-backend/internal/session"
	"github.com/niceai/studio-backend/internal/store"
	"github.com/niceai/studio-backend/internal/utils"
)

func Initialize(st store.Store, gw gateway.Gateway, ids idgen.Generator, cfg *config.Config) (*gin.Engine, error) {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	profileService := services.NewProfileService(st, ids)
	generationService := services.NewGenerationService(profileService, gw, storageService)
	paymentService := services.NewPaymentService(profileService, cfg)
	navigator := session.NewNavigator()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(profileService, ids, navigator, cfg)
	profileHandler := handlers.NewProfileHandler(profileService)
	catalogHandler := handlers.NewCatalogHandler()
	generationHandler := handlers.NewGenerationHandler(generationService, navigator)
	cartHandler := handlers.NewCartHandler(profileService)
	orderHandler := handlers.NewOrderHandler(profileService)
	workHandler := handlers.NewWorkHandler(profileService, navigator)
	rechargeHandler := handlers.NewRechargeHandler(paymentService)

	// Set session token secret
	utils.SetSessionSecret(cfg.Session.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	// Rate limiters are process-wide and keyed by client IP, which makes
	// them useless noise under test where every request shares one IP.
	rateLimited := cfg.Environment != "test"
	if rateLimited {
		r.Use(middleware.GeneralRateLimit())
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Locally stored uploads are served by the app itself in development
	if cfg.AWS.AccessKeyID == "" {
		r.Static("/uploads", cfg.AWS.LocalUploadsDir)
	}

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Session bootstrap is the only open profile endpoint
		v1.POST("/session", sessionHandler.Open)

		// Catalog is public and static
		catalogRoutes := v1.Group("/catalog")
		{
			catalogRoutes.GET("", catalogHandler.List)
			catalogRoutes.GET("/:category", catalogHandler.Get)
			catalogRoutes.POST("/price", catalogHandler.PriceQuote)
		}

		// Everything below is bound to one profile storage key
		protected := v1.Group("")
		protected.Use(middleware.SessionRequired())
		{
			protected.GET("/session/state", sessionHandler.State)
			protected.POST("/session/navigate", sessionHandler.Navigate)

			protected.GET("/profile", profileHandler.Get)
			protected.PUT("/profile/nickname", profileHandler.UpdateNickname)
			protected.POST("/profile/register", profileHandler.Register)

			if rateLimited {
				protected.POST("/generate", middleware.GenerationRateLimit(), generationHandler.Generate)
			} else {
				protected.POST("/generate", generationHandler.Generate)
			}

			works := protected.Group("/works")
			{
				works.GET("", workHandler.List)
				works.POST("/:id/like", workHandler.Like)
				works.POST("/:id/visibility", workHandler.ToggleVisibility)
				works.POST("/:id/quote", workHandler.Quote)
				works.POST("/:id/mockup", generationHandler.RefreshMockup)
				works.DELETE("/:id", workHandler.Delete)
			}
			protected.GET("/gallery", workHandler.Gallery)

			cart := protected.Group("/cart")
			{
				cart.GET("", cartHandler.List)
				cart.POST("", cartHandler.Add)
				cart.DELETE("/:id", cartHandler.Remove)
				cart.POST("/:id/order", cartHandler.Order)
			}

			orders := protected.Group("/orders")
			{
				orders.GET("", orderHandler.List)
				orders.POST("", orderHandler.Place)
			}

			recharge := protected.Group("/recharge")
			if rateLimited {
				recharge.Use(middleware.PaymentRateLimit())
			}
			{
				recharge.POST("", rechargeHandler.Create)
				recharge.POST("/confirm", rechargeHandler.Confirm)
			}
		}
	}

	return r, nil
}
