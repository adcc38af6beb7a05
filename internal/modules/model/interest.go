package model

import (
	"time"

	"github.com/google/uuid"
)

// SpotInterest records a user's non-binding interest in a spot. Matched pairs
// are soft-hidden (IsHidden) so interest history survives; rows are deleted
// only when the user withdraws interest explicitly.
type SpotInterest struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SpotID   uuid.UUID `gorm:"type:uuid;not null;index:idx_interests_spot_user" json:"spot_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index:idx_interests_spot_user" json:"user_id"`
	IsHidden bool      `gorm:"not null;default:false" json:"is_hidden"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	// SpotInterest <-> Spot
	Spot *Spot `gorm:"foreignKey:SpotID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`

	// SpotInterest <-> User
	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (SpotInterest) TableName() string { return "spot_interests" }
