package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/apperr"
	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/repos"
	"github.com/laser-thinhs/lt316-customizer-app/internal/types"
)

type ProductProfileService interface {
	List(ctx context.Context, tx *gorm.DB) ([]*types.ProductProfile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ProductProfile, error)
}

type productProfileService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.ProductProfileRepo
}

func NewProductProfileService(db *gorm.DB, baseLog *logger.Logger, repo repos.ProductProfileRepo) ProductProfileService {
	return &productProfileService{
		db:   db,
		log:  baseLog.With("service", "ProductProfileService"),
		repo: repo,
	}
}

func (s *productProfileService) List(ctx context.Context, tx *gorm.DB) ([]*types.ProductProfile, error) {
	return s.repo.List(ctx, tx)
}

func (s *productProfileService) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.ProductProfile, error) {
	profile, err := s.repo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NotFound("ProductProfile")
	}
	return profile, nil
}
