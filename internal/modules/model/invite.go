package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
	"gorm.io/datatypes"
)

type InviteStatus string

const (
	InviteStatusPending        InviteStatus = "pending"
	InviteStatusAccepted       InviteStatus = "accepted"
	InviteStatusDeclined       InviteStatus = "declined"
	InviteStatusConfirmedGoing InviteStatus = "confirmed_going"
	InviteStatusCompleted      InviteStatus = "completed"
	InviteStatusExpired        InviteStatus = "expired"
)

// Live reports whether the invite still occupies its (sender, receiver, spot)
// slot. Only one live invite may exist per triple.
func (s InviteStatus) Live() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusConfirmedGoing:
		return true
	}
	return false
}

// SpotSnapshot is the location snapshot embedded in the invite so later
// stages never depend on the spot row surviving.
type SpotSnapshot struct {
	Address    string         `json:"address"`
	Coordinate geo.Coordinate `json:"coordinate"`
}

// Invite is a directed request from one interested user to another to meet
// at a spot.
//
// The confirmation flags are flattened into columns (rather than nested in a
// JSON document) so each party's flag can be set with a single atomic
// single-column UPDATE, and promotion can be a conditional UPDATE that only
// one concurrent caller wins.
type Invite struct {
	ID           uuid.UUID                        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SpotID       uuid.UUID                        `gorm:"type:uuid;not null;index" json:"spot_id"`
	SpotTitle    string                           `gorm:"not null" json:"spot_title"`
	SpotLocation datatypes.JSONType[SpotSnapshot] `gorm:"type:jsonb" json:"spot_location"`

	SenderID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID    `gorm:"type:uuid;not null;index" json:"receiver_id"`
	Status     InviteStatus `gorm:"type:text;not null;default:'pending';index" json:"status"`

	// DedupeKey holds spot:sender:receiver while the invite is live; cleared
	// on terminal transitions so the triple can be re-invited later. The
	// unique index makes concurrent duplicate sends collapse onto one row.
	DedupeKey *string `gorm:"uniqueIndex" json:"-"`

	// Confirmation flags are monotonic: once true they are never unset within
	// the same invite lifecycle.
	SenderConfirmed   bool       `gorm:"not null;default:false" json:"sender_confirmed"`
	ReceiverConfirmed bool       `gorm:"not null;default:false" json:"receiver_confirmed"`
	ConfirmedAt       *time.Time `json:"confirmed_at,omitempty"`

	BothCheckedIn bool       `gorm:"not null;default:false" json:"both_checked_in"`
	MeetupTime    *time.Time `json:"meetup_time,omitempty"`

	ChatRoomID *string `json:"chat_room_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	// Invite <-> Spot
	Spot *Spot `gorm:"foreignKey:SpotID;references:ID;constraint:OnDelete:CASCADE,OnUpdate:CASCADE;" json:"-"`
}

func (Invite) TableName() string { return "invites" }

func (i *Invite) IsParticipant(userID uuid.UUID) bool {
	return i.SenderID == userID || i.ReceiverID == userID
}

func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// InviteDedupeKey is the deterministic key occupying the unique live-invite
// slot for a (spot, sender, receiver) triple.
func InviteDedupeKey(spotID, senderID, receiverID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", spotID, senderID, receiverID)
}
