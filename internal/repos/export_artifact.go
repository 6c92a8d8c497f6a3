package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/types"
)

type ExportArtifactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, artifacts []*types.ExportArtifact) ([]*types.ExportArtifact, error)
	GetByDesignJobID(ctx context.Context, tx *gorm.DB, designJobID uuid.UUID) ([]*types.ExportArtifact, error)
}

type exportArtifactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewExportArtifactRepo(db *gorm.DB, baseLog *logger.Logger) ExportArtifactRepo {
	return &exportArtifactRepo{db: db, log: baseLog.With("repo", "ExportArtifactRepo")}
}

func (r *exportArtifactRepo) Create(ctx context.Context, tx *gorm.DB, artifacts []*types.ExportArtifact) ([]*types.ExportArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(artifacts) == 0 {
		return []*types.ExportArtifact{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&artifacts).Error; err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (r *exportArtifactRepo) GetByDesignJobID(ctx context.Context, tx *gorm.DB, designJobID uuid.UUID) ([]*types.ExportArtifact, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ExportArtifact
	if err := transaction.WithContext(ctx).
		Where("design_job_id = ?", designJobID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
