package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"gorm.io/gorm"
)

type SpotRepo interface {
	Create(ctx context.Context, s *model.Spot) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Spot, error)
	ListActive(ctx context.Context) ([]model.Spot, error)
	// IncrementInterested adjusts the aggregate interested counter with a
	// server-side atomic increment, floored at zero.
	IncrementInterested(ctx context.Context, spotID uuid.UUID, delta int64) error
}

type spotRepo struct {
	db *gorm.DB
}

func NewSpotRepo(db *gorm.DB) SpotRepo {
	return &spotRepo{db: db}
}

func (r *spotRepo) Create(ctx context.Context, s *model.Spot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *spotRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Spot, error) {
	var s model.Spot
	if err := r.db.WithContext(ctx).Where(&model.Spot{ID: id}).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *spotRepo) ListActive(ctx context.Context) ([]model.Spot, error) {
	var spots []model.Spot
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("interested_count DESC").
		Find(&spots).Error
	return spots, err
}

func (r *spotRepo) IncrementInterested(ctx context.Context, spotID uuid.UUID, delta int64) error {
	return r.db.WithContext(ctx).Model(&model.Spot{}).
		Where("id = ?", spotID).
		UpdateColumns(map[string]interface{}{
			"interested_count": gorm.Expr("GREATEST(interested_count + ?, 0)", delta),
			"updated_at":       time.Now(),
		}).Error
}
