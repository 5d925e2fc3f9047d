package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
	"gorm.io/datatypes"
)

type ClientStatus string

const (
	ClientActive  ClientStatus = "active"
	ClientChurned ClientStatus = "churned"
)

type AddonStatus string

const (
	AddonActive    AddonStatus = "active"
	AddonCancelled AddonStatus = "cancelled"
)

// Client is a customer subscription. StartDate is the date the relationship
// began and the date of first billing. ChurnDate is meaningful only when the
// status is churned and marks the first day the client no longer counts as
// active.
type Client struct {
	ID        snowflake.ID           `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID           `gorm:"not null;index" json:"organization_id"`
	Name      string                 `gorm:"not null" json:"name"`
	Email     string                 `json:"email,omitempty"`
	Status    ClientStatus           `gorm:"not null;default:'active'" json:"status"`
	ProductID *snowflake.ID          `gorm:"index" json:"product_id,omitempty"`
	Product   *productdomain.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	StartDate time.Time              `gorm:"not null;index" json:"start_date"`
	ChurnDate *time.Time             `gorm:"index" json:"churn_date,omitempty"`
	Metadata  datatypes.JSONMap      `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ClientAddon is an additional product attached to a client with a lifecycle
// independent of the client's main product. Cancelled add-ons may be
// reactivated, which clears the end date.
type ClientAddon struct {
	ID        snowflake.ID           `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID           `gorm:"not null;index" json:"organization_id"`
	ClientID  snowflake.ID           `gorm:"not null;index" json:"client_id"`
	ProductID snowflake.ID           `gorm:"not null;index" json:"product_id"`
	Product   *productdomain.Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int                    `gorm:"not null;default:1" json:"quantity"`
	Status    AddonStatus            `gorm:"not null;default:'active'" json:"status"`
	StartDate time.Time              `gorm:"not null;index" json:"start_date"`
	EndDate   *time.Time             `json:"end_date,omitempty"`
	CreatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time              `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
