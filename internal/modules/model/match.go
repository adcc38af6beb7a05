package model

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// SpotMatch is the durable record that two users paired for a spot. It is
// created at mutual confirmation, not at completion; "matched" is a different
// milestone from "met in person".
type SpotMatch struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SpotID   uuid.UUID `gorm:"type:uuid;not null;index" json:"spot_id"`
	InviteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"invite_id"`

	User1ID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user1_id"`
	User2ID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"user2_id"`
	ChatRoomID string      `gorm:"not null" json:"chat_room_id"`
	Status     MatchStatus `gorm:"type:text;not null;default:'matched'" json:"status"`

	CreatedAt   time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	ConfirmedAt time.Time `gorm:"not null" json:"confirmed_at"`
}

func (SpotMatch) TableName() string { return "spot_matches" }
