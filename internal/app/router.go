package app

import (
	"github.com/gin-gonic/gin"

	"github.com/laser-thinhs/lt316-customizer-app/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		HealthcheckHandler:    handlerset.Healthcheck,
		ProductProfileHandler: handlerset.ProductProfile,
		DesignJobHandler:      handlerset.DesignJob,
		APIAuthMiddleware:     middlewareset.APIAuth,
	})
}
