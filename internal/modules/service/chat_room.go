package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/modules/model"
	"github.com/meetspot-io/meetspot/internal/modules/repo"
	"gorm.io/datatypes"
)

// RoomProvisioner provisions the private chat room shared by an invite's two
// participants. Provisioning is idempotent per pair+spot.
type RoomProvisioner interface {
	GetOrCreateRoom(ctx context.Context, user1ID, user2ID, spotID uuid.UUID) (string, error)
}

type roomProvisioner struct {
	rooms repo.ChatRoomRepo
}

func NewRoomProvisioner(rooms repo.ChatRoomRepo) RoomProvisioner {
	return &roomProvisioner{rooms: rooms}
}

func (p *roomProvisioner) GetOrCreateRoom(ctx context.Context, user1ID, user2ID, spotID uuid.UUID) (string, error) {
	now := time.Now()
	room := &model.ChatRoom{
		ID:              model.ChatRoomID(user1ID, user2ID, spotID),
		SpotID:          spotID,
		Participants:    datatypes.NewJSONSlice([]uuid.UUID{user1ID, user2ID}),
		LastMessage:     "You matched at this spot! Say hi and plan your meetup.",
		LastMessageTime: now,
	}

	created, err := p.rooms.GetOrCreate(ctx, room)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}
