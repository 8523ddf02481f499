package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sponsorship lifecycle states. The only legal transition is open -> closed.
const (
	SponsorshipStatusOpen   = "open"
	SponsorshipStatusClosed = "closed"
)

// Sponsorship is a paid development challenge posted by a sponsor.
type Sponsorship struct {
	ID          uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	SponsorID   uuid.UUID      `json:"sponsorId" db:"sponsor_id" gorm:"type:uuid;not null;index"`
	SponsorName string         `json:"sponsorName" db:"sponsor_name" gorm:"type:text"`
	Title       string         `json:"title" db:"title" gorm:"type:text;not null"`
	Description string         `json:"description" db:"description" gorm:"type:text"`
	Budget      string         `json:"budget" db:"budget" gorm:"type:text"`
	Timeline    string         `json:"timeline" db:"timeline" gorm:"type:text"`
	Skills      datatypes.JSON `json:"skills" db:"skills"`
	Status      string         `json:"status" db:"status" gorm:"type:text;not null;index;default:open"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (s *Sponsorship) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SponsorshipStatusOpen
	}
	return nil
}

func (s *Sponsorship) OwnedBy() uuid.UUID {
	return s.SponsorID
}
