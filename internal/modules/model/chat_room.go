package model

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ChatRoom is the conversation record provisioned when an invite is
// accepted. The deterministic primary key (sorted pair + spot) makes
// provisioning an upsert: concurrent accepts converge on the same room.
type ChatRoom struct {
	ID           string                         `gorm:"primaryKey" json:"id"`
	SpotID       uuid.UUID                      `gorm:"type:uuid;not null;index" json:"spot_id"`
	Participants datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb;not null" json:"participants"`

	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (ChatRoom) TableName() string { return "chat_rooms" }

// ChatRoomID derives the room key for a participant pair within a spot
// context. Order of the pair does not matter.
func ChatRoomID(user1ID, user2ID, spotID uuid.UUID) string {
	ids := []string{user1ID.String(), user2ID.String()}
	sort.Strings(ids)
	return strings.Join(append(ids, spotID.String()), "-")
}
