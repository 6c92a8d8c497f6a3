package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/types"
	"github.com/laser-thinhs/lt316-customizer-app/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "lt316", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := MigrateModels(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}

	s.log.Info("Configuring foreign key relationships for postgres tables...")
	statements := []string{
		`ALTER TABLE "design_job" DROP CONSTRAINT IF EXISTS "fk_design_job_product_profile_id";`,
		`ALTER TABLE "design_job"
		 ADD CONSTRAINT "fk_design_job_product_profile_id"
		 FOREIGN KEY ("product_profile_id") REFERENCES "product_profile"("id");`,
		`ALTER TABLE "design_job" DROP CONSTRAINT IF EXISTS "fk_design_job_machine_profile_id";`,
		`ALTER TABLE "design_job"
		 ADD CONSTRAINT "fk_design_job_machine_profile_id"
		 FOREIGN KEY ("machine_profile_id") REFERENCES "machine_profile"("id");`,
		`ALTER TABLE "asset" DROP CONSTRAINT IF EXISTS "fk_asset_design_job_id";`,
		`ALTER TABLE "asset"
		 ADD CONSTRAINT "fk_asset_design_job_id"
		 FOREIGN KEY ("design_job_id") REFERENCES "design_job"("id") ON DELETE CASCADE;`,
		`ALTER TABLE "export_artifact" DROP CONSTRAINT IF EXISTS "fk_export_artifact_design_job_id";`,
		`ALTER TABLE "export_artifact"
		 ADD CONSTRAINT "fk_export_artifact_design_job_id"
		 FOREIGN KEY ("design_job_id") REFERENCES "design_job"("id") ON DELETE CASCADE;`,
	}
	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to configure foreign keys: %w", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// Ping verifies database connectivity for the health endpoint.
func (s *PostgresService) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// MigrateModels migrates every entity table. Shared with the sqlite-backed
// service tests.
func MigrateModels(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&types.ProductProfile{},
		&types.MachineProfile{},
		&types.DesignJob{},
		&types.Asset{},
		&types.ExportArtifact{},
	)
}
