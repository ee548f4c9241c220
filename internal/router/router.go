package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rdcplates/carte-rose-backend/config"
	"github.com/rdcplates/carte-rose-backend/internal/app/controller"
	"github.com/rdcplates/carte-rose-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	vehicleController  *controller.VehicleController
	documentController *controller.DocumentController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	vehicleController *controller.VehicleController,
	documentController *controller.DocumentController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		vehicleController:  vehicleController,
		documentController: documentController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Carte Rose API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.Me)
		}

		// Lookups stay public so checkpoints and drivers can verify a card;
		// everything that writes goes through an authenticated operator.
		vehicles := v1.Group("/vehicles")
		{
			vehicles.GET("", r.vehicleController.Search)
			vehicles.GET("/export",
				r.authMiddleware.Authenticate(),
				r.vehicleController.Export,
			)
			vehicles.GET("/:id", r.vehicleController.Get)
			vehicles.GET("/chassis/:chassis", r.vehicleController.GetByChassis)

			vehicles.POST("",
				r.authMiddleware.Authenticate(),
				r.vehicleController.Register,
			)
			vehicles.POST("/:id/reprint",
				r.authMiddleware.Authenticate(),
				r.vehicleController.Reprint,
			)
			vehicles.POST("/:id/print",
				r.authMiddleware.Authenticate(),
				r.vehicleController.Print,
			)
			vehicles.POST("/:id/qrcode",
				r.authMiddleware.Authenticate(),
				r.vehicleController.GenerateQR,
			)

			vehicles.GET("/:id/documents",
				r.authMiddleware.Authenticate(),
				r.documentController.List,
			)
			vehicles.POST("/:id/documents",
				r.authMiddleware.Authenticate(),
				r.documentController.Attach,
			)
			vehicles.GET("/:id/history",
				r.authMiddleware.Authenticate(),
				r.documentController.History,
			)
			vehicles.POST("/:id/history",
				r.authMiddleware.Authenticate(),
				r.documentController.RecordPrint,
			)
		}

		v1.GET("/regions", r.vehicleController.Regions)
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
