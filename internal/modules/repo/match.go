package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MatchRepo interface {
	// EnsureForInvite creates the match record unless one already exists for
	// the invite. Same at-most-once shape as session creation.
	EnsureForInvite(ctx context.Context, m *model.SpotMatch) (bool, error)
	GetForUser(ctx context.Context, spotID, userID uuid.UUID) (*model.SpotMatch, error)
}

type matchRepo struct {
	db *gorm.DB
}

func NewMatchRepo(db *gorm.DB) MatchRepo {
	return &matchRepo{db: db}
}

func (r *matchRepo) EnsureForInvite(ctx context.Context, m *model.SpotMatch) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "invite_id"}},
			DoNothing: true,
		}).
		Create(m)
	return res.RowsAffected == 1, res.Error
}

func (r *matchRepo) GetForUser(ctx context.Context, spotID, userID uuid.UUID) (*model.SpotMatch, error) {
	var m model.SpotMatch
	err := r.db.WithContext(ctx).
		Where("spot_id = ? AND status = ? AND (user1_id = ? OR user2_id = ?)",
			spotID, model.MatchStatusMatched, userID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}
