package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleGeneral Role = "GENERAL"
	RoleAdmin   Role = "ADMIN"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:(gen_random_uuid())" json:"id"`
	FullName string    `gorm:"size:255;not null" json:"full_name"`
	Email    string    `gorm:"size:255;not null;unique" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     Role      `gorm:"size:20;not null;default:'GENERAL'" json:"role"`
	Phone    *string   `gorm:"size:20" json:"phone"`
	Address  *string   `gorm:"type:text" json:"address"`

	IDProofURL  *string `gorm:"size:255" json:"id_proof_url"`
	BonafideURL *string `gorm:"size:255" json:"bonafide_url"`
	PhotoURL    *string `gorm:"size:255" json:"photo_url"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
