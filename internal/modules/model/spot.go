package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/meetspot-io/meetspot/internal/pkg/geo"
)

// Spot is a place or event users can express interest in and physically meet
// at. InterestedCount is maintained with atomic increments, never
// read-modify-write.
type Spot struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Address   string    `json:"address"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`

	InterestedCount int64 `gorm:"not null;default:0" json:"interested_count"`
	IsActive        bool  `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime;not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Spot) TableName() string { return "spots" }

func (s *Spot) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}
