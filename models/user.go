package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a registered participant. Roles are interchangeable: the same user
// may act as seller, buyer, sponsor, or developer.
type User struct {
	ID            uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Email         string         `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash  string         `json:"-" db:"password_hash" gorm:"type:text;not null"`
	DisplayName   string         `json:"displayName" db:"display_name" gorm:"type:text"`
	ContactNumber string         `json:"contactNumber" db:"contact_number" gorm:"type:text"`
	Roles         datatypes.JSON `json:"roles" db:"roles"`
	Bio           string         `json:"bio,omitempty" db:"bio" gorm:"type:text"`
	Skills        datatypes.JSON `json:"skills,omitempty" db:"skills"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// RoleNames decodes the stored role set.
func (u *User) RoleNames() []string {
	return ListFromJSON(u.Roles)
}
