package repo

import (
	"context"

	"github.com/meetspot-io/meetspot/internal/modules/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ChatRoomRepo interface {
	// GetOrCreate provisions the room for a pair+spot. The deterministic
	// primary key makes this an upsert: concurrent accepts both land on the
	// same room.
	GetOrCreate(ctx context.Context, room *model.ChatRoom) (*model.ChatRoom, error)
}

type chatRoomRepo struct {
	db *gorm.DB
}

func NewChatRoomRepo(db *gorm.DB) ChatRoomRepo {
	return &chatRoomRepo{db: db}
}

func (r *chatRoomRepo) GetOrCreate(ctx context.Context, room *model.ChatRoom) (*model.ChatRoom, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).
		Create(room)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return room, nil
	}

	var existing model.ChatRoom
	if err := r.db.WithContext(ctx).Where("id = ?", room.ID).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
