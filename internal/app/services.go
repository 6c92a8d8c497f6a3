package app

import (
	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/services"
)

type Services struct {
	ProductProfile services.ProductProfileService
	DesignJob      services.DesignJobService
	Proof          services.ProofService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")
	return Services{
		ProductProfile: services.NewProductProfileService(db, log, reposet.ProductProfile),
		DesignJob: services.NewDesignJobService(
			db,
			log,
			reposet.DesignJob,
			reposet.ProductProfile,
			reposet.MachineProfile,
			reposet.Asset,
			reposet.ExportArtifact,
		),
		Proof: services.NewProofService(db, log, reposet.DesignJob, cfg.ProofDir),
	}
}
