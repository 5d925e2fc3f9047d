package engine

import (
	"testing"
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	transactiondomain "github.com/smallbiznis/pulse/internal/transaction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePeriod_SingleActiveMonthlyClient(t *testing.T) {
	node := newNode(t)
	snap := Snapshot{
		Clients: []clientdomain.Client{
			activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 10)),
		},
	}
	period := Period{Start: date(2024, time.January, 1), End: date(2024, time.March, 31)}

	b := ComputePeriod(snap, period, DefaultAssumptions())

	assert.Equal(t, int64(10000), b.MRRCents)
	assert.Equal(t, int64(120000), b.ARRCents)
	assert.Equal(t, int64(10000), b.AverageTicketCents)

	assert.Equal(t, 1, b.ActiveClients)
	assert.Equal(t, 1, b.ActiveClientsRecurring)
	assert.Equal(t, 0, b.ClientsAtStart)
	assert.InDelta(t, 0.5, b.AverageClients, 0.0001)
	assert.Equal(t, 1, b.NewClients)
	assert.Equal(t, 0, b.ChurnedClients)
	assert.Equal(t, 3, b.PeriodMonths)

	assert.Equal(t, float64(0), b.ChurnRate)
	assert.Equal(t, float64(0), b.ChurnRateMonthly)

	// No churn observed: lifetime sits at the cap.
	assert.Equal(t, float64(36), b.EstimatedLifetimeMonths)
	assert.Equal(t, int64(360000), b.LTVCents)

	assert.Equal(t, int64(0), b.CACCents)
	assert.Equal(t, float64(0), b.PaybackPeriodMonths)

	// Jan, Feb and Mar are fully contained; the client is active at every
	// month end.
	assert.Equal(t, int64(30000), b.RecurringRevenueCents)
	assert.Equal(t, int64(0), b.SetupRevenueCents)
	assert.Equal(t, int64(30000), b.BilledRevenueCents)

	assert.Equal(t, int64(10000), b.NewMRRCents)
	assert.Equal(t, int64(0), b.ChurnedMRRCents)

	assert.True(t, b.LTVCACRatio.IsNotApplicable())
	assert.Equal(t, float64(-1), b.LTVCACRatio.Sentinel())
	assert.True(t, b.QuickRatio.IsInfinite())
	assert.Equal(t, float64(99), b.QuickRatio.Sentinel())

	assert.Equal(t, float64(100), b.GrossMargin)
	assert.Equal(t, float64(100), b.NetMargin)
}

func TestComputePeriod_ChurnMidPeriod(t *testing.T) {
	node := newNode(t)
	snap := Snapshot{
		Clients: []clientdomain.Client{
			activeClient(node, monthlyProduct(node, 10000), date(2023, time.June, 1)),
			churnedClient(node, monthlyProduct(node, 20000), date(2023, time.July, 1), datePtr(2024, time.March, 15)),
		},
	}
	period := Period{Start: date(2024, time.January, 1), End: date(2024, time.March, 31)}

	b := ComputePeriod(snap, period, DefaultAssumptions())

	assert.Equal(t, 1, b.ActiveClients)
	assert.Equal(t, 2, b.ClientsAtStart)
	assert.InDelta(t, 1.5, b.AverageClients, 0.0001)
	assert.Equal(t, 0, b.NewClients)
	assert.Equal(t, 1, b.ChurnedClients)

	assert.Equal(t, int64(10000), b.MRRCents)
	assert.Equal(t, int64(0), b.NewMRRCents)
	assert.Equal(t, int64(20000), b.ChurnedMRRCents)

	assert.InDelta(t, 66.6667, b.ChurnRate, 0.001)
	assert.InDelta(t, 22.2222, b.ChurnRateMonthly, 0.001)

	// 100 / 22.22 beats the 36 month cap.
	assert.InDelta(t, 4.5, b.EstimatedLifetimeMonths, 0.0001)
	assert.Equal(t, int64(45000), b.LTVCents)

	// Jan and Feb bill both clients, Mar only the survivor.
	assert.Equal(t, int64(70000), b.RecurringRevenueCents)

	quick, ok := b.QuickRatio.Value()
	require.True(t, ok)
	assert.Equal(t, float64(0), quick)
}

func TestComputePeriod_CACFromTaggedTransactions(t *testing.T) {
	node := newNode(t)
	snap := Snapshot{
		Clients: []clientdomain.Client{
			activeClient(node, monthlyProduct(node, 10000), date(2024, time.February, 10)),
		},
		Transactions: []transactiondomain.Transaction{
			{
				ID:          node.Generate(),
				Type:        transactiondomain.TypeExpense,
				Category:    transactiondomain.CategoryMarketing,
				AmountCents: -50000,
				IsCAC:       true,
				OccurredAt:  date(2024, time.February, 5),
			},
			{
				ID:          node.Generate(),
				Type:        transactiondomain.TypeExpense,
				Category:    transactiondomain.CategoryMarketing,
				AmountCents: -99999,
				IsCAC:       true,
				OccurredAt:  date(2024, time.January, 5),
			},
		},
		Expenses: []transactiondomain.Expense{
			// Ignored: tagged transactions exist in the period.
			{ID: node.Generate(), MonthYear: "2024-02", MarketingCents: 11111},
		},
	}
	period := Period{Start: date(2024, time.February, 1), End: date(2024, time.February, 29)}

	b := ComputePeriod(snap, period, DefaultAssumptions())

	assert.Equal(t, int64(50000), b.CACExpensesCents)
	assert.Equal(t, int64(50000), b.CACCents)
	assert.InDelta(t, 5, b.PaybackPeriodMonths, 0.0001)

	ratio, ok := b.LTVCACRatio.Value()
	require.True(t, ok)
	assert.InDelta(t, 7.2, ratio, 0.0001)
}

func TestComputePeriod_CACLegacyExpenseFallback(t *testing.T) {
	node := newNode(t)
	snap := Snapshot{
		Clients: []clientdomain.Client{
			activeClient(node, monthlyProduct(node, 10000), date(2024, time.February, 10)),
		},
		Expenses: []transactiondomain.Expense{
			{ID: node.Generate(), MonthYear: "2024-02", MarketingCents: 30000, SalesCents: 20000},
			{ID: node.Generate(), MonthYear: "2024-01", MarketingCents: 99999},
			{ID: node.Generate(), MonthYear: "not-a-month"},
		},
	}
	period := Period{Start: date(2024, time.February, 1), End: date(2024, time.February, 29)}

	b := ComputePeriod(snap, period, DefaultAssumptions())

	assert.Equal(t, int64(50000), b.CACExpensesCents)
	assert.Equal(t, int64(50000), b.CACCents)
}

func TestComputePeriod_EmptySnapshot(t *testing.T) {
	period := Period{Start: date(2024, time.January, 1), End: date(2024, time.January, 31)}

	b := ComputePeriod(Snapshot{}, period, DefaultAssumptions())

	assert.Equal(t, int64(0), b.MRRCents)
	assert.Equal(t, int64(0), b.ARRCents)
	assert.Equal(t, 0, b.ActiveClients)
	assert.Equal(t, float64(0), b.AverageClients)
	assert.Equal(t, float64(0), b.ChurnRate)
	assert.Equal(t, float64(36), b.EstimatedLifetimeMonths)
	assert.Equal(t, int64(0), b.LTVCents)
	assert.Equal(t, int64(0), b.BilledRevenueCents)
	assert.Equal(t, float64(0), b.GrossMargin)
	assert.Equal(t, float64(0), b.NetMargin)
	assert.Equal(t, float64(0), b.PaybackPeriodMonths)

	assert.Equal(t, float64(-1), b.LTVCACRatio.Sentinel())
	assert.Equal(t, float64(-1), b.QuickRatio.Sentinel())
}

func TestComputePeriod_OneTimeProduct(t *testing.T) {
	node := newNode(t)
	snap := Snapshot{
		Clients: []clientdomain.Client{
			activeClient(node, oneTimeProduct(node, 50000), date(2024, time.February, 10)),
		},
	}
	period := Period{Start: date(2024, time.February, 1), End: date(2024, time.February, 29)}

	b := ComputePeriod(snap, period, DefaultAssumptions())

	assert.Equal(t, int64(0), b.MRRCents)
	assert.Equal(t, 1, b.ActiveClients)
	assert.Equal(t, 0, b.ActiveClientsRecurring)
	assert.Equal(t, int64(0), b.AverageTicketCents)
	assert.Equal(t, 1, b.NewClients)
	assert.Equal(t, int64(0), b.NewMRRCents)

	assert.Equal(t, int64(0), b.RecurringRevenueCents)
	assert.Equal(t, int64(50000), b.SetupRevenueCents)
	assert.Equal(t, int64(50000), b.BilledRevenueCents)

	assert.Equal(t, float64(-1), b.QuickRatio.Sentinel())
}

func TestComputePeriod_BilledRevenueSkipsPartialMonths(t *testing.T) {
	node := newNode(t)
	snap := Snapshot{
		Clients: []clientdomain.Client{
			activeClient(node, monthlyProduct(node, 10000), date(2023, time.June, 1)),
		},
	}

	b := ComputePeriod(snap, Period{
		Start: date(2024, time.January, 15),
		End:   date(2024, time.March, 31),
	}, DefaultAssumptions())

	// January starts mid-month and is excluded; Feb and Mar bill.
	assert.Equal(t, int64(20000), b.RecurringRevenueCents)

	b = ComputePeriod(snap, Period{
		Start: date(2024, time.January, 15),
		End:   date(2024, time.January, 20),
	}, DefaultAssumptions())

	// No fully contained month at all.
	assert.Equal(t, int64(0), b.BilledRevenueCents)
	assert.Equal(t, 1, b.PeriodMonths)
}

func TestComputePeriod_NetMarginUsesAllExpenses(t *testing.T) {
	node := newNode(t)
	snap := Snapshot{
		Clients: []clientdomain.Client{
			activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1)),
		},
		Transactions: []transactiondomain.Transaction{
			{
				ID:          node.Generate(),
				Type:        transactiondomain.TypeExpense,
				Category:    transactiondomain.CategoryMarketing,
				AmountCents: -20000,
				IsCAC:       true,
				OccurredAt:  date(2024, time.February, 5),
			},
			{
				ID:          node.Generate(),
				Type:        transactiondomain.TypeExpense,
				Category:    transactiondomain.CategoryInfra,
				AmountCents: -15000,
				OccurredAt:  date(2024, time.February, 10),
			},
			{
				ID:          node.Generate(),
				Type:        transactiondomain.TypeRevenue,
				Category:    transactiondomain.CategoryConsulting,
				AmountCents: 5000,
				OccurredAt:  date(2024, time.February, 12),
			},
		},
	}
	period := Period{Start: date(2024, time.February, 1), End: date(2024, time.February, 29)}

	b := ComputePeriod(snap, period, DefaultAssumptions())

	assert.Equal(t, int64(10000), b.BilledRevenueCents)
	assert.Equal(t, int64(20000), b.CACExpensesCents)
	assert.InDelta(t, -100, b.GrossMargin, 0.0001)
	assert.InDelta(t, -250, b.NetMargin, 0.0001)
}

func TestComputePeriod_AnnualProration(t *testing.T) {
	node := newNode(t)
	snap := Snapshot{
		Clients: []clientdomain.Client{
			activeClient(node, annualProduct(node, 100000), date(2024, time.January, 1)),
		},
	}
	period := Period{Start: date(2024, time.January, 1), End: date(2024, time.March, 31)}

	b := ComputePeriod(snap, period, DefaultAssumptions())

	// 100000 / 12 rounds half up at the boundary only.
	assert.Equal(t, int64(8333), b.MRRCents)
	assert.Equal(t, int64(100000), b.ARRCents)
	// Three month ends accumulate before rounding: 25000 exactly.
	assert.Equal(t, int64(25000), b.RecurringRevenueCents)
}
