package app

import (
	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/repos"
)

type Repos struct {
	ProductProfile repos.ProductProfileRepo
	MachineProfile repos.MachineProfileRepo
	DesignJob      repos.DesignJobRepo
	Asset          repos.AssetRepo
	ExportArtifact repos.ExportArtifactRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		ProductProfile: repos.NewProductProfileRepo(db, log),
		MachineProfile: repos.NewMachineProfileRepo(db, log),
		DesignJob:      repos.NewDesignJobRepo(db, log),
		Asset:          repos.NewAssetRepo(db, log),
		ExportArtifact: repos.NewExportArtifactRepo(db, log),
	}
}
