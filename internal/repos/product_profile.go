package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/types"
)

type ProductProfileRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ProductProfile, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.ProductProfile, error)
}

type productProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProductProfileRepo {
	return &productProfileRepo{db: db, log: baseLog.With("repo", "ProductProfileRepo")}
}

func (r *productProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ProductProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ProductProfile
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

func (r *productProfileRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.ProductProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ProductProfile
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
