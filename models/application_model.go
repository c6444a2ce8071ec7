package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PassType string

const (
	PassMonthly   PassType = "MONTHLY"
	PassQuarterly PassType = "QUARTERLY"
	PassYearly    PassType = "YEARLY"
)

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

// Application is a user's request for a bus pass of a given type. Status is
// only ever changed by an admin action; a user may hold several applications
// over time.
type Application struct {
	ID       uuid.UUID         `gorm:"type:uuid;primary_key;default:(gen_random_uuid())" json:"id"`
	UserID   uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	PassType PassType          `gorm:"size:20;not null" json:"pass_type"`
	Status   ApplicationStatus `gorm:"size:20;not null;default:'PENDING'" json:"status"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
