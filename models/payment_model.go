package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "UNPAID"
	PaymentPaid   PaymentStatus = "PAID"
)

// Payment is the single ledger row for an application. The unique index on
// ApplicationID is what makes payment creation insert-if-absent; a duplicate
// key on insert means another request already opened the payment.
type Payment struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key;default:(gen_random_uuid())" json:"id"`
	ApplicationID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"application_id"`
	Amount        float64       `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status        PaymentStatus `gorm:"size:20;not null;default:'UNPAID'" json:"status"`
	PaidAt        *time.Time    `json:"paid_at"`

	GatewayOrderID   *string `gorm:"size:255" json:"gateway_order_id"`
	GatewayPaymentID *string `gorm:"size:255" json:"gateway_payment_id"`
	GatewaySignature *string `gorm:"size:255" json:"-"`

	Application Application `gorm:"foreignkey:ApplicationID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
