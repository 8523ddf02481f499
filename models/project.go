package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project lifecycle states. A project moves available -> sold exactly once
// and is never reversed by normal flow.
const (
	ProjectStatusAvailable = "available"
	ProjectStatusSold      = "sold"
)

// Project is a software listing offered for sale by its seller.
type Project struct {
	ID          uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	SellerID    uuid.UUID      `json:"sellerId" db:"seller_id" gorm:"type:uuid;not null;index"`
	SellerName  string         `json:"sellerName" db:"seller_name" gorm:"type:text"` // denormalized for listing display
	Title       string         `json:"title" db:"title" gorm:"type:text;not null"`
	Description string         `json:"description" db:"description" gorm:"type:text"`
	Price       float64        `json:"price" db:"price" gorm:"not null"`
	Category    string         `json:"category" db:"category" gorm:"type:text"`
	TechStack   datatypes.JSON `json:"techStack" db:"tech_stack"`
	Images      datatypes.JSON `json:"images" db:"images"`
	DemoVideo   string         `json:"demoVideo,omitempty" db:"demo_video" gorm:"type:text"`
	LiveURL     string         `json:"liveUrl,omitempty" db:"live_url" gorm:"type:text"`
	Status      string         `json:"status" db:"status" gorm:"type:text;not null;index;default:available"`
	BuyerID     *uuid.UUID     `json:"buyerId,omitempty" db:"buyer_id" gorm:"type:uuid"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at" gorm:"not null"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectStatusAvailable
	}
	return nil
}

// OwnedBy reports the owner bound to the record at creation.
func (p *Project) OwnedBy() uuid.UUID {
	return p.SellerID
}
