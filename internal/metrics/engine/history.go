package engine

import (
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	metricsdomain "github.com/smallbiznis/pulse/internal/metrics/domain"
)

// MRRHistory emits one point per calendar month touched by the range, each
// sampling MRR at that month's end. Months with no activity still get a
// point; charts need regular steps.
func MRRHistory(clients []clientdomain.Client, addons []clientdomain.ClientAddon, start, end time.Time) []metricsdomain.MRRPoint {
	points := []metricsdomain.MRRPoint{}
	for month := startOfMonth(start); !month.After(startOfMonth(end)); month = month.AddDate(0, 1, 0) {
		points = append(points, metricsdomain.MRRPoint{
			Month:    monthLabel(month),
			MRRCents: roundMoney(MRRAt(clients, addons, endOfMonth(month))),
		})
	}
	return points
}

// ChurnHistory counts client starts and churns per calendar month.
func ChurnHistory(clients []clientdomain.Client, start, end time.Time) []metricsdomain.ChurnPoint {
	points := []metricsdomain.ChurnPoint{}
	for month := startOfMonth(start); !month.After(startOfMonth(end)); month = month.AddDate(0, 1, 0) {
		next := month.AddDate(0, 1, 0)
		point := metricsdomain.ChurnPoint{Month: monthLabel(month)}
		for _, c := range clients {
			if !c.StartDate.Before(month) && c.StartDate.Before(next) {
				point.NewClients++
			}
			if c.Status == clientdomain.ClientChurned && c.ChurnDate != nil &&
				!c.ChurnDate.Before(month) && c.ChurnDate.Before(next) {
				point.ChurnedClients++
			}
		}
		points = append(points, point)
	}
	return points
}

// RevenueHistory splits each month's billing into recurring and one-time
// amounts, replaying the same per-month logic the billed-revenue
// reconstruction uses.
func RevenueHistory(snap Snapshot, start, end time.Time) []metricsdomain.RevenuePoint {
	points := []metricsdomain.RevenuePoint{}
	for month := startOfMonth(start); !month.After(startOfMonth(end)); month = month.AddDate(0, 1, 0) {
		points = append(points, metricsdomain.RevenuePoint{
			Month:          monthLabel(month),
			RecurringCents: roundMoney(MRRAt(snap.Clients, snap.Addons, endOfMonth(month))),
			OneTimeCents:   roundMoney(setupRevenueIn(snap, month)),
		})
	}
	return points
}
