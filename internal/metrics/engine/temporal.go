package engine

import (
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
)

// WasClientActiveAt reports whether the client counted as active at the given
// instant. Activity spans the half-open interval [start_date, churn_date):
// the start date is the first active day, the churn date the first inactive
// one. A churned client with no recorded churn date evaluates as never
// active; that quirk is load-bearing for historical figures and is pinned by
// a test rather than corrected here.
func WasClientActiveAt(c clientdomain.Client, at time.Time) bool {
	if c.StartDate.After(at) {
		return false
	}
	if c.Status == clientdomain.ClientChurned {
		if c.ChurnDate != nil {
			return c.ChurnDate.After(at)
		}
		return false
	}
	return c.Status == clientdomain.ClientActive
}

// WasAddonActiveAt is the add-on counterpart of WasClientActiveAt, using the
// cancellation status and end date. The owning client's own activity is NOT
// checked here; callers combine both predicates.
func WasAddonActiveAt(a clientdomain.ClientAddon, at time.Time) bool {
	if a.StartDate.After(at) {
		return false
	}
	if a.Status == clientdomain.AddonCancelled {
		if a.EndDate != nil {
			return a.EndDate.After(at)
		}
		return false
	}
	return a.Status == clientdomain.AddonActive
}
