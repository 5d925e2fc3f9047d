package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
)

// Bundle is the full KPI set for one period. Money fields are int64 minor
// units rounded half-up; rates are percentages.
type Bundle struct {
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	PeriodMonths int       `json:"period_months"`

	MRRCents           int64 `json:"mrr_cents"`
	ARRCents           int64 `json:"arr_cents"`
	AverageTicketCents int64 `json:"average_ticket_cents"`

	ActiveClients          int     `json:"active_clients"`
	ActiveClientsRecurring int     `json:"active_clients_recurring"`
	ClientsAtStart         int     `json:"clients_at_start"`
	AverageClients         float64 `json:"average_clients"`
	NewClients             int     `json:"new_clients"`
	ChurnedClients         int     `json:"churned_clients"`

	ChurnRate        float64 `json:"churn_rate"`
	ChurnRateMonthly float64 `json:"churn_rate_monthly"`

	CACExpensesCents        int64   `json:"cac_expenses_cents"`
	CACCents                int64   `json:"cac_cents"`
	EstimatedLifetimeMonths float64 `json:"estimated_lifetime_months"`
	LTVCents                int64   `json:"ltv_cents"`

	RecurringRevenueCents int64 `json:"recurring_revenue_cents"`
	SetupRevenueCents     int64 `json:"setup_revenue_cents"`
	BilledRevenueCents    int64 `json:"billed_revenue_cents"`

	PaybackPeriodMonths float64 `json:"payback_period_months"`

	NewMRRCents     int64 `json:"new_mrr_cents"`
	ChurnedMRRCents int64 `json:"churned_mrr_cents"`

	LTVCACRatio Ratio `json:"ltv_cac_ratio"`
	QuickRatio  Ratio `json:"quick_ratio"`

	GrossMargin float64 `json:"gross_margin"`
	NetMargin   float64 `json:"net_margin"`
}

// MRRSnapshot is the point-in-time recurring revenue figure.
type MRRSnapshot struct {
	At       time.Time `json:"at"`
	MRRCents int64     `json:"mrr_cents"`
	ARRCents int64     `json:"arr_cents"`
}

type MRRPoint struct {
	Month    string `json:"month"`
	MRRCents int64  `json:"mrr_cents"`
}

type ChurnPoint struct {
	Month          string `json:"month"`
	NewClients     int    `json:"new_clients"`
	ChurnedClients int    `json:"churned_clients"`
}

type RevenuePoint struct {
	Month          string `json:"month"`
	RecurringCents int64  `json:"recurring_cents"`
	OneTimeCents   int64  `json:"one_time_cents"`
}

// RankedClient is one row of the realized-LTV ranking: what the client has
// actually been billed over its tenure, not the projected figure in Bundle.
type RankedClient struct {
	ClientID           snowflake.ID              `json:"client_id"`
	Name               string                    `json:"name"`
	Status             clientdomain.ClientStatus `json:"status"`
	RealizedLTVCents   int64                     `json:"realized_ltv_cents"`
	TenureMonths       int                       `json:"tenure_months"`
	AverageTicketCents int64                     `json:"average_ticket_cents"`
}
