package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionStatusBothConfirmed     SessionStatus = "both_confirmed"
	SessionStatusCheckingProximity SessionStatus = "checking_proximity"
	SessionStatusCompleted         SessionStatus = "completed"
)

// CheckInEntry is one participant's slice of the session's check-in map.
// Each participant may only ever write their own entry.
type CheckInEntry struct {
	Location       *geo.Coordinate `json:"location,omitempty"`
	IsWithinRadius bool            `json:"is_within_radius"`
	CheckInTime    *time.Time      `json:"check_in_time,omitempty"`
}

// Reward is the one-time payload issued when both participants verify
// in-person proximity.
type Reward struct {
	Points  int64    `json:"points"`
	Badge   string   `json:"badge,omitempty"`
	Message string   `json:"message"`
	Items   []string `json:"items,omitempty"`
}

// MeetupSession is the live tracking record created the instant an invite
// reaches confirmed_going. The unique index on InviteID guarantees at most
// one session per invite no matter how the dual-confirmation race resolves.
type MeetupSession struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SpotID   uuid.UUID `gorm:"type:uuid;not null;index" json:"spot_id"`
	InviteID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"invite_id"`

	// Spot coordinate snapshot so containment never re-reads the spot row.
	SpotLatitude  float64 `gorm:"not null" json:"spot_latitude"`
	SpotLongitude float64 `gorm:"not null" json:"spot_longitude"`

	Participants datatypes.JSONSlice[uuid.UUID] `gorm:"type:jsonb;not null" json:"participants"`

	Status SessionStatus `gorm:"type:text;not null;default:'both_confirmed';index" json:"status"`

	// CheckInData maps participant id -> their latest check-in entry. Writes
	// merge a single key via jsonb_set; the whole map is never written back
	// from a client-side read.
	CheckInData datatypes.JSONType[map[string]CheckInEntry] `gorm:"type:jsonb" json:"check_in_data"`

	Rewards datatypes.JSONType[*Reward] `gorm:"type:jsonb" json:"rewards"`

	CreatedAt   time.Time  `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (MeetupSession) TableName() string { return "meetup_sessions" }

func (s *MeetupSession) IsParticipant(userID uuid.UUID) bool {
	for _, p := range s.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// AllWithinRadius reports whether every participant's latest check-in entry
// is inside the radius. Participants with no entry yet count as outside.
func (s *MeetupSession) AllWithinRadius() bool {
	data := s.CheckInData.Data()
	for _, p := range s.Participants {
		entry, ok := data[p.String()]
		if !ok || !entry.IsWithinRadius {
			return false
		}
	}
	return len(s.Participants) > 0
}

func (s *MeetupSession) SpotCoordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: s.SpotLatitude, Longitude: s.SpotLongitude}
}
