package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"gorm.io/gorm"
)

type InterestRepo interface {
	Create(ctx context.Context, in *model.SpotInterest) error
	// ListVisible returns the non-hidden interest records for a spot, newest
	// first.
	ListVisible(ctx context.Context, spotID uuid.UUID) ([]model.SpotInterest, error)
	CountVisibleByUser(ctx context.Context, spotID, userID uuid.UUID) (int64, error)
	// DeleteByUser removes every interest record the user holds for the spot
	// and reports how many rows went away. Duplicate rows from a prior bug
	// window are all cleaned up in one call.
	DeleteByUser(ctx context.Context, spotID, userID uuid.UUID) (int64, error)
	// Hide soft-hides the given users' records for a spot; rows are kept so
	// the interest history survives matching.
	Hide(ctx context.Context, spotID uuid.UUID, userIDs []uuid.UUID) error
}

type interestRepo struct {
	db *gorm.DB
}

func NewInterestRepo(db *gorm.DB) InterestRepo {
	return &interestRepo{db: db}
}

func (r *interestRepo) Create(ctx context.Context, in *model.SpotInterest) error {
	return r.db.WithContext(ctx).Create(in).Error
}

func (r *interestRepo) ListVisible(ctx context.Context, spotID uuid.UUID) ([]model.SpotInterest, error) {
	var interests []model.SpotInterest
	err := r.db.WithContext(ctx).
		Where("spot_id = ? AND is_hidden = ?", spotID, false).
		Order("created_at DESC").
		Find(&interests).Error
	return interests, err
}

func (r *interestRepo) CountVisibleByUser(ctx context.Context, spotID, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SpotInterest{}).
		Where("spot_id = ? AND user_id = ? AND is_hidden = ?", spotID, userID, false).
		Count(&count).Error
	return count, err
}

func (r *interestRepo) DeleteByUser(ctx context.Context, spotID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("spot_id = ? AND user_id = ?", spotID, userID).
		Delete(&model.SpotInterest{})
	return res.RowsAffected, res.Error
}

func (r *interestRepo) Hide(ctx context.Context, spotID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.SpotInterest{}).
		Where("spot_id = ? AND user_id IN ?", spotID, userIDs).
		UpdateColumn("is_hidden", true).Error
}
