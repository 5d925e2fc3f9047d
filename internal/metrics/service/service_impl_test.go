package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/smallbiznis/pulse/internal/clock"
	"github.com/smallbiznis/pulse/internal/config"
	"github.com/smallbiznis/pulse/internal/metrics/domain"
	"github.com/smallbiznis/pulse/internal/orgcontext"
	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
	transactiondomain "github.com/smallbiznis/pulse/internal/transaction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupMetricsTest(t *testing.T, now time.Time) (*gorm.DB, *Service, *clock.FakeClock, *snowflake.Node) {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&productdomain.Product{},
		&clientdomain.Client{},
		&clientdomain.ClientAddon{},
		&transactiondomain.Transaction{},
		&transactiondomain.Expense{},
	)
	require.NoError(t, err)

	node, _ := snowflake.NewNode(1)
	fake := clock.NewFakeClock(now)

	svc := &Service{
		db:          db,
		log:         zap.NewNop(),
		clock:       fake,
		assumptions: config.NewStaticAssumptions(config.DefaultAssumptions()),
	}

	return db, svc, fake, node
}

func orgContext(orgID snowflake.ID) context.Context {
	return orgcontext.WithOrgID(context.Background(), orgID.Int64())
}

func seedProduct(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID snowflake.ID, priceCents int64, period productdomain.BillingPeriod, payment productdomain.PaymentType) productdomain.Product {
	t.Helper()
	p := productdomain.Product{
		ID:            node.Generate(),
		OrgID:         orgID,
		Name:          "plan",
		PriceCents:    priceCents,
		Currency:      "USD",
		BillingPeriod: period,
		PaymentType:   payment,
		Active:        true,
		Metadata:      datatypes.JSONMap{},
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedClient(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID snowflake.ID, product productdomain.Product, start time.Time, churn *time.Time) clientdomain.Client {
	t.Helper()
	status := clientdomain.ClientActive
	if churn != nil {
		status = clientdomain.ClientChurned
	}
	c := clientdomain.Client{
		ID:        node.Generate(),
		OrgID:     orgID,
		Name:      "client",
		Status:    status,
		ProductID: &product.ID,
		StartDate: start,
		ChurnDate: churn,
		Metadata:  datatypes.JSONMap{},
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func TestGetOverview(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	db, svc, _, node := setupMetricsTest(t, now)

	orgID := node.Generate()
	otherOrg := node.Generate()

	monthly := seedProduct(t, db, node, orgID, 10000, productdomain.BillingMonthly, productdomain.PaymentRecurring)
	seedClient(t, db, node, orgID, monthly, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), nil)

	// Another organization's data must not leak in.
	foreign := seedProduct(t, db, node, otherOrg, 99999, productdomain.BillingMonthly, productdomain.PaymentRecurring)
	seedClient(t, db, node, otherOrg, foreign, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	bundle, err := svc.GetOverview(orgContext(orgID), domain.OverviewRequest{Start: &start, End: &end})
	require.NoError(t, err)

	assert.Equal(t, int64(10000), bundle.MRRCents)
	assert.Equal(t, int64(120000), bundle.ARRCents)
	assert.Equal(t, 1, bundle.ActiveClients)
	assert.Equal(t, 1, bundle.NewClients)
	assert.Equal(t, 3, bundle.PeriodMonths)
	assert.Equal(t, int64(30000), bundle.BilledRevenueCents)
	assert.Equal(t, float64(99), bundle.QuickRatio.Sentinel())
}

func TestGetOverview_DefaultRangeTrailsThirtyDays(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	db, svc, _, node := setupMetricsTest(t, now)

	orgID := node.Generate()
	monthly := seedProduct(t, db, node, orgID, 10000, productdomain.BillingMonthly, productdomain.PaymentRecurring)
	seedClient(t, db, node, orgID, monthly, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), nil)

	bundle, err := svc.GetOverview(orgContext(orgID), domain.OverviewRequest{})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), bundle.PeriodStart)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), bundle.PeriodEnd)
	assert.Equal(t, int64(10000), bundle.MRRCents)
	assert.Equal(t, 1, bundle.NewClients)
}

func TestGetOverview_Validation(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	_, svc, _, node := setupMetricsTest(t, now)

	_, err := svc.GetOverview(context.Background(), domain.OverviewRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)

	start := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = svc.GetOverview(orgContext(node.Generate()), domain.OverviewRequest{Start: &start, End: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestGetMRR(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	db, svc, _, node := setupMetricsTest(t, now)

	orgID := node.Generate()
	annual := seedProduct(t, db, node, orgID, 120000, productdomain.BillingAnnual, productdomain.PaymentRecurring)
	seedClient(t, db, node, orgID, annual, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)

	snap, err := svc.GetMRR(orgContext(orgID), domain.MRRRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), snap.MRRCents)
	assert.Equal(t, int64(120000), snap.ARRCents)

	// Sampling before the client existed reads zero.
	at := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	snap, err = svc.GetMRR(orgContext(orgID), domain.MRRRequest{At: &at})
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.MRRCents)
}

func TestGetMRRHistory_DefaultSpan(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	db, svc, _, node := setupMetricsTest(t, now)

	orgID := node.Generate()
	monthly := seedProduct(t, db, node, orgID, 10000, productdomain.BillingMonthly, productdomain.PaymentRecurring)
	seedClient(t, db, node, orgID, monthly, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), nil)

	points, err := svc.GetMRRHistory(orgContext(orgID), domain.HistoryRequest{})
	require.NoError(t, err)

	// Default assumptions trail twelve months: Jul/23 through Jun/24.
	require.Len(t, points, 12)
	assert.Equal(t, "Jul/23", points[0].Month)
	assert.Equal(t, "Jun/24", points[11].Month)
	assert.Equal(t, int64(0), points[8].MRRCents)
	assert.Equal(t, int64(10000), points[9].MRRCents)
}

func TestGetChurnHistory(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	db, svc, _, node := setupMetricsTest(t, now)

	orgID := node.Generate()
	monthly := seedProduct(t, db, node, orgID, 10000, productdomain.BillingMonthly, productdomain.PaymentRecurring)
	seedClient(t, db, node, orgID, monthly, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), nil)
	churn := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	seedClient(t, db, node, orgID, monthly, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), &churn)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	points, err := svc.GetChurnHistory(orgContext(orgID), domain.HistoryRequest{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.Equal(t, 1, points[1].NewClients)
	assert.Equal(t, 1, points[2].ChurnedClients)
}

func TestGetRevenueHistory(t *testing.T) {
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	db, svc, _, node := setupMetricsTest(t, now)

	orgID := node.Generate()
	monthly := seedProduct(t, db, node, orgID, 10000, productdomain.BillingMonthly, productdomain.PaymentRecurring)
	setup := seedProduct(t, db, node, orgID, 50000, productdomain.BillingMonthly, productdomain.PaymentOneTime)
	seedClient(t, db, node, orgID, monthly, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil)
	seedClient(t, db, node, orgID, setup, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), nil)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	points, err := svc.GetRevenueHistory(orgContext(orgID), domain.HistoryRequest{Start: &start, End: &end})
	require.NoError(t, err)

	require.Len(t, points, 3)
	assert.Equal(t, int64(10000), points[0].RecurringCents)
	assert.Equal(t, int64(50000), points[1].OneTimeCents)
	assert.Equal(t, int64(0), points[2].OneTimeCents)
}

func TestRankClientsByLTV(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	db, svc, _, node := setupMetricsTest(t, now)

	orgID := node.Generate()
	big := seedProduct(t, db, node, orgID, 50000, productdomain.BillingMonthly, productdomain.PaymentRecurring)
	small := seedProduct(t, db, node, orgID, 5000, productdomain.BillingMonthly, productdomain.PaymentRecurring)
	seedClient(t, db, node, orgID, big, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), nil)
	churn := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	seedClient(t, db, node, orgID, small, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), &churn)

	ranked, err := svc.RankClientsByLTV(orgContext(orgID), domain.RankRequest{})
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, int64(100000), ranked[0].RealizedLTVCents)

	ranked, err = svc.RankClientsByLTV(orgContext(orgID), domain.RankRequest{Status: "churned"})
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, clientdomain.ClientChurned, ranked[0].Status)

	_, err = svc.RankClientsByLTV(orgContext(orgID), domain.RankRequest{Status: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.RankClientsByLTV(orgContext(orgID), domain.RankRequest{SortBy: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
}
