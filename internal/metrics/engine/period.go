package engine

import (
	"math"
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	metricsdomain "github.com/smallbiznis/pulse/internal/metrics/domain"
	transactiondomain "github.com/smallbiznis/pulse/internal/transaction/domain"
)

// ComputePeriod derives the full KPI bundle for an inclusive date range.
// Every denominator that can reach zero short-circuits to a defined value or
// sentinel; the output never carries NaN or Inf.
func ComputePeriod(snap Snapshot, period Period, assume Assumptions) metricsdomain.Bundle {
	start := period.Start.UTC()
	end := period.End.UTC()
	if assume.LifetimeCapMonths <= 0 {
		assume = DefaultAssumptions()
	}

	activeClients := 0
	activeRecurring := 0
	clientsAtStart := 0
	for _, c := range snap.Clients {
		if WasClientActiveAt(c, end) {
			activeClients++
			if c.Product != nil && IsRecurring(c.Product) {
				activeRecurring++
			}
		}
		if WasClientActiveAt(c, start) {
			clientsAtStart++
		}
	}

	mrr := MRRAt(snap.Clients, snap.Addons, end)
	arr := mrr * 12

	ticket := 0.0
	if activeRecurring > 0 {
		ticket = mrr / float64(activeRecurring)
	}

	newClients := 0
	churnedClients := 0
	newMRR := 0.0
	churnedMRR := 0.0
	for _, c := range snap.Clients {
		recurringValue := 0.0
		if c.Product != nil && IsRecurring(c.Product) {
			recurringValue = MonthlyValueCents(c.Product)
		}
		if inRange(c.StartDate, start, end) {
			newClients++
			newMRR += recurringValue
		}
		if c.Status == clientdomain.ClientChurned && c.ChurnDate != nil && inRange(*c.ChurnDate, start, end) {
			churnedClients++
			churnedMRR += recurringValue
		}
	}

	averageClients := (float64(clientsAtStart) + float64(activeClients)) / 2

	periodMonths := monthsBetween(start, end) + 1
	if periodMonths < 1 {
		periodMonths = 1
	}

	churnRate := 0.0
	if averageClients > 0 {
		churnRate = float64(churnedClients) / averageClients * 100
	}
	churnRateMonthly := churnRate / float64(periodMonths)

	cacExpenses := cacSpend(snap, start, end)
	cac := 0.0
	if newClients > 0 {
		cac = cacExpenses / float64(newClients)
	}

	lifetime := float64(assume.LifetimeCapMonths)
	if churnRateMonthly > 0 {
		lifetime = math.Min(100/churnRateMonthly, lifetime)
	}
	ltv := ticket * lifetime

	recurringRevenue, setupRevenue := billedRevenue(snap, start, end)
	billed := recurringRevenue + setupRevenue

	payback := 0.0
	if ticket > 0 {
		payback = cac / ticket
	}

	ltvCACRatio := metricsdomain.RatioNotApplicable()
	if cac > 0 {
		ltvCACRatio = metricsdomain.RatioValue(ltv / cac)
	}

	quickRatio := metricsdomain.RatioNotApplicable()
	switch {
	case churnedMRR > 0:
		quickRatio = metricsdomain.RatioValue(newMRR / churnedMRR)
	case newMRR > 0:
		quickRatio = metricsdomain.RatioInfinite()
	}

	grossMargin := 0.0
	if billed > 0 {
		grossMargin = (billed - cacExpenses) / billed * 100
	}

	allExpenses := totalExpenses(snap, start, end, cacExpenses)
	netMargin := 0.0
	if billed > 0 {
		netMargin = (billed - allExpenses) / billed * 100
	}

	return metricsdomain.Bundle{
		PeriodStart:  start,
		PeriodEnd:    end,
		PeriodMonths: periodMonths,

		MRRCents:           roundMoney(mrr),
		ARRCents:           roundMoney(arr),
		AverageTicketCents: roundMoney(ticket),

		ActiveClients:          activeClients,
		ActiveClientsRecurring: activeRecurring,
		ClientsAtStart:         clientsAtStart,
		AverageClients:         averageClients,
		NewClients:             newClients,
		ChurnedClients:         churnedClients,

		ChurnRate:        churnRate,
		ChurnRateMonthly: churnRateMonthly,

		CACExpensesCents:        roundMoney(cacExpenses),
		CACCents:                roundMoney(cac),
		EstimatedLifetimeMonths: lifetime,
		LTVCents:                roundMoney(ltv),

		RecurringRevenueCents: roundMoney(recurringRevenue),
		SetupRevenueCents:     roundMoney(setupRevenue),
		BilledRevenueCents:    roundMoney(billed),

		PaybackPeriodMonths: payback,

		NewMRRCents:     roundMoney(newMRR),
		ChurnedMRRCents: roundMoney(churnedMRR),

		LTVCACRatio: ltvCACRatio,
		QuickRatio:  quickRatio,

		GrossMargin: grossMargin,
		NetMargin:   netMargin,
	}
}

// cacSpend sums acquisition spend in the period: CAC-tagged transactions
// when any exist, otherwise the legacy per-month expense rows.
func cacSpend(snap Snapshot, start, end time.Time) float64 {
	total := 0.0
	found := false
	for _, t := range snap.Transactions {
		if !t.IsCAC {
			continue
		}
		if !inRange(t.OccurredAt, start, end) {
			continue
		}
		found = true
		total += math.Abs(float64(t.AmountCents))
	}
	if found {
		return total
	}

	total = 0
	firstMonth := startOfMonth(start)
	lastMonth := startOfMonth(end)
	for _, e := range snap.Expenses {
		month, err := time.Parse("2006-01", e.MonthYear)
		if err != nil {
			continue
		}
		if month.Before(firstMonth) || month.After(lastMonth) {
			continue
		}
		total += float64(e.MarketingCents + e.SalesCents)
	}
	return total
}

// totalExpenses sums every expense-type transaction in the period for the
// net margin; with no expense transactions at all it falls back to the CAC
// figure so the margin still reflects known spend.
func totalExpenses(snap Snapshot, start, end time.Time, cacExpenses float64) float64 {
	total := 0.0
	found := false
	for _, t := range snap.Transactions {
		if t.Type != transactiondomain.TypeExpense {
			continue
		}
		if !inRange(t.OccurredAt, start, end) {
			continue
		}
		found = true
		total += math.Abs(float64(t.AmountCents))
	}
	if !found {
		return cacExpenses
	}
	return total
}

// billedRevenue reconstructs what was actually billed by walking every
// calendar month fully contained in the period: the recurring side samples
// MRR at each month's end (population and prices can change month to month),
// the setup side adds each one-time product's full price once, in the month
// its owner started.
func billedRevenue(snap Snapshot, start, end time.Time) (recurring, setup float64) {
	first := startOfMonth(start)
	if first.Before(dateOnly(start)) {
		first = first.AddDate(0, 1, 0)
	}
	last := dateOnly(end)

	for month := first; !endOfMonth(month).After(last); month = month.AddDate(0, 1, 0) {
		recurring += MRRAt(snap.Clients, snap.Addons, endOfMonth(month))
		setup += setupRevenueIn(snap, month)
	}
	return recurring, setup
}

// setupRevenueIn sums one-time product prices for clients and add-ons whose
// start date falls inside the given calendar month.
func setupRevenueIn(snap Snapshot, monthStart time.Time) float64 {
	next := monthStart.AddDate(0, 1, 0)
	total := 0.0
	for _, c := range snap.Clients {
		if c.Product == nil || IsRecurring(c.Product) {
			continue
		}
		if c.StartDate.Before(monthStart) || !c.StartDate.Before(next) {
			continue
		}
		total += float64(c.Product.PriceCents)
	}
	for _, a := range snap.Addons {
		if a.Product == nil || IsRecurring(a.Product) {
			continue
		}
		if a.StartDate.Before(monthStart) || !a.StartDate.Before(next) {
			continue
		}
		total += float64(a.Product.PriceCents) * float64(a.Quantity)
	}
	return total
}
