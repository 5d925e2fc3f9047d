package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// BillingPeriod is how often a recurring product bills.
type BillingPeriod string

const (
	BillingMonthly BillingPeriod = "monthly"
	BillingAnnual  BillingPeriod = "annual"
)

// PaymentType distinguishes recurring subscriptions from one-time charges.
type PaymentType string

const (
	PaymentRecurring PaymentType = "recurring"
	PaymentOneTime   PaymentType = "one_time"
)

// Product is a sellable plan. PriceCents is the full-period price in minor
// units: the monthly price for monthly billing, the full annual price for
// annual billing.
type Product struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	Name          string            `gorm:"not null" json:"name"`
	Description   string            `json:"description,omitempty"`
	PriceCents    int64             `gorm:"not null" json:"price_cents"`
	Currency      string            `gorm:"not null;default:'USD'" json:"currency"`
	BillingPeriod BillingPeriod     `gorm:"not null;default:'monthly'" json:"billing_period"`
	PaymentType   PaymentType       `gorm:"not null;default:'recurring'" json:"payment_type"`
	Active        bool              `gorm:"not null;default:true" json:"active"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func ValidBillingPeriod(value BillingPeriod) bool {
	switch value {
	case BillingMonthly, BillingAnnual:
		return true
	default:
		return false
	}
}

func ValidPaymentType(value PaymentType) bool {
	switch value {
	case PaymentRecurring, PaymentOneTime:
		return true
	default:
		return false
	}
}
