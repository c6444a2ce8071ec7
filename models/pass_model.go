package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PassStatus string

const (
	PassActive  PassStatus = "ACTIVE"
	PassExpired PassStatus = "EXPIRED"
)

// Pass is the issued entitlement for a settled application. The stored Status
// column is an override only written by an explicit expire action; every read
// path derives the effective status from EndDate instead (see services).
// The unique index on ApplicationID enforces one pass per application.
type Pass struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:(gen_random_uuid())" json:"id"`
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ApplicationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`
	PassNumber    string     `gorm:"size:40;not null;unique" json:"pass_number"`
	PassType      PassType   `gorm:"size:20;not null" json:"pass_type"`
	StartDate     time.Time  `gorm:"not null" json:"start_date"`
	EndDate       time.Time  `gorm:"not null" json:"end_date"`
	Status        PassStatus `gorm:"size:20;not null;default:'ACTIVE'" json:"status"`

	User        User        `gorm:"foreignkey:UserID" json:"-"`
	Application Application `gorm:"foreignkey:ApplicationID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Pass) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
