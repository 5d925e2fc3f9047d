package engine

import (
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	metricsdomain "github.com/smallbiznis/pulse/internal/metrics/domain"
)

// MRRAt computes total monthly recurring revenue at one instant, in
// fractional cents: every active client's recurring main product at its
// monthly value, plus every active add-on of an active client at its monthly
// value times quantity. One-time products never contribute.
func MRRAt(clients []clientdomain.Client, addons []clientdomain.ClientAddon, at time.Time) float64 {
	total := 0.0
	activeByID := make(map[snowflake.ID]bool, len(clients))
	for _, c := range clients {
		active := WasClientActiveAt(c, at)
		activeByID[c.ID] = active
		if !active {
			continue
		}
		if c.Product == nil || !IsRecurring(c.Product) {
			continue
		}
		total += MonthlyValueCents(c.Product)
	}

	for _, a := range addons {
		if !activeByID[a.ClientID] {
			continue
		}
		if !WasAddonActiveAt(a, at) {
			continue
		}
		if a.Product == nil || !IsRecurring(a.Product) {
			continue
		}
		total += MonthlyValueCents(a.Product) * float64(a.Quantity)
	}

	return total
}

// SnapshotMRR samples MRR at one instant and pairs it with its annualized
// figure, rounded to whole cents.
func SnapshotMRR(clients []clientdomain.Client, addons []clientdomain.ClientAddon, at time.Time) metricsdomain.MRRSnapshot {
	mrr := MRRAt(clients, addons, at)
	return metricsdomain.MRRSnapshot{
		At:       at,
		MRRCents: roundMoney(mrr),
		ARRCents: roundMoney(mrr * 12),
	}
}
