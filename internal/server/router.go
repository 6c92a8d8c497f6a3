package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/laser-thinhs/lt316-customizer-app/internal/handlers"
	"github.com/laser-thinhs/lt316-customizer-app/internal/middleware"
)

type RouterConfig struct {
	HealthcheckHandler    *handlers.HealthcheckHandler
	ProductProfileHandler *handlers.ProductProfileHandler
	DesignJobHandler      *handlers.DesignJobHandler
	APIAuthMiddleware     *middleware.APIAuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "X-Requested-With", "X-Api-Key", "X-Actor-Role"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")

	// ===============
	// || Public    ||
	// ===============
	api.GET("/health", cfg.HealthcheckHandler.Health)
	api.GET("/product-profiles", cfg.ProductProfileHandler.List)
	api.GET("/product-profiles/:id", cfg.ProductProfileHandler.GetByID)
	api.GET("/design-jobs/:id", cfg.DesignJobHandler.GetByID)
	api.GET("/design-jobs/:id/proof", cfg.DesignJobHandler.GetProof)
	api.GET("/design-jobs/:id/assets", cfg.DesignJobHandler.ListAssets)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.APIAuthMiddleware.RequireRole())
	protected.POST("/design-jobs", cfg.DesignJobHandler.Create)
	protected.PATCH("/design-jobs/:id", cfg.DesignJobHandler.UpdatePlacement)
	protected.PATCH("/design-jobs/:id/placement", cfg.DesignJobHandler.UpdatePlacement)
	protected.POST("/design-jobs/:id/proof", cfg.DesignJobHandler.RenderProof)
	protected.POST("/design-jobs/:id/preflight", cfg.DesignJobHandler.Preflight)
	protected.POST("/design-jobs/:id/export", cfg.DesignJobHandler.Export)
	protected.POST("/design-jobs/:id/export/svg", cfg.DesignJobHandler.ExportSVG)
	protected.GET("/protected/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"pong": true}})
	})

	return router
}
