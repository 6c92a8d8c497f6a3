package app

import (
	"github.com/laser-thinhs/lt316-customizer-app/internal/db"
	"github.com/laser-thinhs/lt316-customizer-app/internal/handlers"
	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
)

type Handlers struct {
	Healthcheck    *handlers.HealthcheckHandler
	ProductProfile *handlers.ProductProfileHandler
	DesignJob      *handlers.DesignJobHandler
}

func wireHandlers(log *logger.Logger, pg *db.PostgresService, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Healthcheck:    handlers.NewHealthcheckHandler(pg),
		ProductProfile: handlers.NewProductProfileHandler(serviceset.ProductProfile),
		DesignJob:      handlers.NewDesignJobHandler(serviceset.DesignJob, serviceset.Proof),
	}
}
