// Package engine holds the pure metric calculations. Every function here is
// a side-effect-free computation over an in-memory snapshot of the record
// collections; loading the snapshot and caching results belong to the caller.
package engine

import (
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	transactiondomain "github.com/smallbiznis/pulse/internal/transaction/domain"
)

// Snapshot is a consistent read of the four record collections for one
// organization. Products must be resolved on clients and add-ons before the
// snapshot is handed to the engine; an unresolved product contributes zero.
type Snapshot struct {
	Clients      []clientdomain.Client
	Addons       []clientdomain.ClientAddon
	Transactions []transactiondomain.Transaction
	Expenses     []transactiondomain.Expense
}

// Period is an inclusive date range.
type Period struct {
	Start time.Time
	End   time.Time
}

// Assumptions are the business constants the projections depend on.
type Assumptions struct {
	// LifetimeCapMonths caps the estimated customer lifetime. Three years is
	// the usual ceiling for a realistic B2B SaaS relationship.
	LifetimeCapMonths int
}

func DefaultAssumptions() Assumptions {
	return Assumptions{LifetimeCapMonths: 36}
}
