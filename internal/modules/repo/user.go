package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"gorm.io/gorm"
)

type UserRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error)
	// IncrementRewardTotals adds to the user's running point/meetup totals
	// with a server-side increment, never read-modify-write, so two
	// participants completing within the same instant cannot lose updates.
	IncrementRewardTotals(ctx context.Context, userID uuid.UUID, points, meetups int64) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where(&model.User{ID: id}).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *userRepo) IncrementRewardTotals(ctx context.Context, userID uuid.UUID, points, meetups int64) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		UpdateColumns(map[string]interface{}{
			"points":        gorm.Expr("points + ?", points),
			"total_meetups": gorm.Expr("total_meetups + ?", meetups),
			"updated_at":    time.Now(),
		}).Error
}
