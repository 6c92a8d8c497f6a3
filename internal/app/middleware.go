package app

import (
	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/middleware"
)

type Middleware struct {
	APIAuth *middleware.APIAuthMiddleware
}

func wireMiddleware(log *logger.Logger, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		APIAuth: middleware.NewAPIAuthMiddleware(log, middleware.APIAuthConfig{
			Env:                   cfg.Env,
			APIAuthRequired:       cfg.APIAuthRequired,
			APIAuthRequiredInTest: cfg.APIAuthRequiredInTest,
			APIKey:                cfg.APIKey,
		}),
	}
}
