package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
	"gorm.io/datatypes"
)

type PlanStatus string

const (
	PlanDraft    PlanStatus = "draft"
	PlanActive   PlanStatus = "active"
	PlanArchived PlanStatus = "archived"
)

// Plan is a user-drafted pricing plan. Plans are working documents, not
// billable products; promoting one to the catalog happens through the product
// service.
type Plan struct {
	ID            snowflake.ID               `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID               `gorm:"not null;index" json:"organization_id"`
	Name          string                     `gorm:"not null" json:"name"`
	PriceCents    int64                      `gorm:"not null" json:"price_cents"`
	Currency      string                     `gorm:"not null;default:'USD'" json:"currency"`
	BillingPeriod productdomain.BillingPeriod `gorm:"not null;default:'monthly'" json:"billing_period"`
	PaymentType   productdomain.PaymentType   `gorm:"not null;default:'recurring'" json:"payment_type"`
	Status        PlanStatus                 `gorm:"not null;default:'draft';index" json:"status"`
	Notes         string                     `json:"notes,omitempty"`
	Metadata      datatypes.JSONMap          `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt     time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time                  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func ValidPlanStatus(value PlanStatus) bool {
	switch value {
	case PlanDraft, PlanActive, PlanArchived:
		return true
	default:
		return false
	}
}
