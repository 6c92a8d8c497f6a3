package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/types"
)

type DesignJobRepo interface {
	Create(ctx context.Context, tx *gorm.DB, job *types.DesignJob) (*types.DesignJob, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DesignJob, error)
	Save(ctx context.Context, tx *gorm.DB, job *types.DesignJob) (*types.DesignJob, error)
}

type designJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDesignJobRepo(db *gorm.DB, baseLog *logger.Logger) DesignJobRepo {
	return &designJobRepo{db: db, log: baseLog.With("repo", "DesignJobRepo")}
}

func (r *designJobRepo) Create(ctx context.Context, tx *gorm.DB, job *types.DesignJob) (*types.DesignJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *designJobRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DesignJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.DesignJob
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *designJobRepo) Save(ctx context.Context, tx *gorm.DB, job *types.DesignJob) (*types.DesignJob, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Save(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}
