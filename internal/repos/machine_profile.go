package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/laser-thinhs/lt316-customizer-app/internal/logger"
	"github.com/laser-thinhs/lt316-customizer-app/internal/types"
)

type MachineProfileRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.MachineProfile, error)
}

type machineProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMachineProfileRepo(db *gorm.DB, baseLog *logger.Logger) MachineProfileRepo {
	return &machineProfileRepo{db: db, log: baseLog.With("repo", "MachineProfileRepo")}
}

func (r *machineProfileRepo) GetByID(ctx context.Context, tx *gorm.DB, id string) (*types.MachineProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.MachineProfile
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
