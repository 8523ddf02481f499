package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application lifecycle states. An application takes exactly one terminal
// transition: pending -> accepted or pending -> rejected, never both.
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

// Application is a developer's submission against an open sponsorship.
// SponsorshipID and DeveloperID are immutable once set.
type Application struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	SponsorshipID uuid.UUID `json:"sponsorshipId" db:"sponsorship_id" gorm:"type:uuid;not null;index"`
	DeveloperID   uuid.UUID `json:"developerId" db:"developer_id" gorm:"type:uuid;not null;index"`
	DeveloperName string    `json:"developerName" db:"developer_name" gorm:"type:text"`
	Intro         string    `json:"intro" db:"intro" gorm:"type:text"`
	ContactNumber string    `json:"contactNumber" db:"contact_number" gorm:"type:text"`
	PortfolioURL  string    `json:"portfolioUrl,omitempty" db:"portfolio_url" gorm:"type:text"`
	ResumeURL     string    `json:"resumeUrl,omitempty" db:"resume_url" gorm:"type:text"`
	Status        string    `json:"status" db:"status" gorm:"type:text;not null;index;default:pending"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ApplicationStatusPending
	}
	return nil
}

func (a *Application) OwnedBy() uuid.UUID {
	return a.DeveloperID
}
