package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeRevenue TransactionType = "revenue"
)

// Expense categories cover the spend side; revenue categories the income side.
const (
	CategoryMarketing  = "marketing"
	CategorySales      = "sales"
	CategoryInfra      = "infra"
	CategoryTools      = "tools"
	CategoryPayroll    = "payroll"
	CategoryTaxes      = "taxes"
	CategoryAdmin      = "admin"
	CategorySubscript  = "subscription"
	CategoryService    = "service"
	CategoryConsulting = "consulting"
	CategoryOther      = "other"
)

// Transaction is a ledger entry independent of the subscription model.
// AmountCents is signed: negative for expenses, positive for revenue. IsCAC
// flags spend that counts toward customer acquisition cost.
type Transaction struct {
	ID          snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID      `gorm:"not null;index" json:"organization_id"`
	Type        TransactionType   `gorm:"not null" json:"type"`
	Category    string            `gorm:"not null;default:'other'" json:"category"`
	Description string            `json:"description,omitempty"`
	AmountCents int64             `gorm:"not null" json:"amount_cents"`
	IsCAC       bool              `gorm:"column:is_cac;not null;default:false" json:"is_cac"`
	OccurredAt  time.Time         `gorm:"not null;index" json:"occurred_at"`
	Metadata    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Expense is the legacy predecessor of CAC-tagged transactions: one row per
// month of marketing and sales spend. Read-only fallback when a period has no
// CAC-tagged transactions.
type Expense struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID          snowflake.ID `gorm:"not null;index" json:"organization_id"`
	MonthYear      string       `gorm:"not null;index" json:"month_year"` // 2006-01
	MarketingCents int64        `gorm:"not null;default:0" json:"marketing_cents"`
	SalesCents     int64        `gorm:"not null;default:0" json:"sales_cents"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func ValidType(value TransactionType) bool {
	switch value {
	case TypeExpense, TypeRevenue:
		return true
	default:
		return false
	}
}
