package engine

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	metricsdomain "github.com/smallbiznis/pulse/internal/metrics/domain"
)

// RankClients computes realized LTV per client: each recurring product's
// monthly value multiplied by its own active window, one-time prices added
// once. Add-on windows are independent of the client's tenure and of each
// other. Result is sorted descending by realized LTV, or by tenure when
// requested.
func RankClients(clients []clientdomain.Client, addons []clientdomain.ClientAddon, now time.Time, status clientdomain.ClientStatus, sortBy string) []metricsdomain.RankedClient {
	byClient := make(map[snowflake.ID][]clientdomain.ClientAddon, len(clients))
	for _, a := range addons {
		byClient[a.ClientID] = append(byClient[a.ClientID], a)
	}

	ranked := make([]metricsdomain.RankedClient, 0, len(clients))
	for _, c := range clients {
		if status != "" && c.Status != status {
			continue
		}

		effectiveEnd := now
		if c.Status == clientdomain.ClientChurned && c.ChurnDate != nil {
			effectiveEnd = *c.ChurnDate
		}

		tenure := monthsBetween(c.StartDate, effectiveEnd) + 1
		if tenure < 1 {
			tenure = 1
		}

		total := 0.0
		if c.Product != nil {
			if IsRecurring(c.Product) {
				total += MonthlyValueCents(c.Product) * float64(tenure)
			} else {
				total += float64(c.Product.PriceCents)
			}
		}

		for _, a := range byClient[c.ID] {
			if a.Product == nil {
				continue
			}
			if !IsRecurring(a.Product) {
				total += float64(a.Product.PriceCents) * float64(a.Quantity)
				continue
			}
			addonEnd := effectiveEnd
			if a.Status == clientdomain.AddonCancelled && a.EndDate != nil {
				addonEnd = *a.EndDate
			}
			months := monthsBetween(a.StartDate, addonEnd)
			if months < 1 {
				months = 1
			}
			total += MonthlyValueCents(a.Product) * float64(a.Quantity) * float64(months)
		}

		ranked = append(ranked, metricsdomain.RankedClient{
			ClientID:           c.ID,
			Name:               c.Name,
			Status:             c.Status,
			RealizedLTVCents:   roundMoney(total),
			TenureMonths:       tenure,
			AverageTicketCents: roundMoney(total / float64(tenure)),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if sortBy == metricsdomain.SortByTenure {
			if ranked[i].TenureMonths != ranked[j].TenureMonths {
				return ranked[i].TenureMonths > ranked[j].TenureMonths
			}
			return ranked[i].RealizedLTVCents > ranked[j].RealizedLTVCents
		}
		if ranked[i].RealizedLTVCents != ranked[j].RealizedLTVCents {
			return ranked[i].RealizedLTVCents > ranked[j].RealizedLTVCents
		}
		return ranked[i].TenureMonths > ranked[j].TenureMonths
	})

	return ranked
}
