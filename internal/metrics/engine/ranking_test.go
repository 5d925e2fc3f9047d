package engine

import (
	"testing"
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	metricsdomain "github.com/smallbiznis/pulse/internal/metrics/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankClients_RealizedLTV(t *testing.T) {
	node := newNode(t)
	now := date(2024, time.June, 20)

	active := activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 10))
	active.Name = "alpha"
	churned := churnedClient(node, monthlyProduct(node, 10000), date(2024, time.January, 10), datePtr(2024, time.March, 15))
	churned.Name = "beta"

	ranked := RankClients([]clientdomain.Client{active, churned}, nil, now, "", metricsdomain.SortByLTV)

	require.Len(t, ranked, 2)

	// Active client runs through now: Jan..Jun inclusive is 6 months.
	assert.Equal(t, "alpha", ranked[0].Name)
	assert.Equal(t, 6, ranked[0].TenureMonths)
	assert.Equal(t, int64(60000), ranked[0].RealizedLTVCents)
	assert.Equal(t, int64(10000), ranked[0].AverageTicketCents)

	// Churned client stops at its churn date: Jan..Mar is 3 months.
	assert.Equal(t, "beta", ranked[1].Name)
	assert.Equal(t, 3, ranked[1].TenureMonths)
	assert.Equal(t, int64(30000), ranked[1].RealizedLTVCents)
}

func TestRankClients_OneTimeProductCountsOnce(t *testing.T) {
	node := newNode(t)
	now := date(2024, time.June, 20)

	c := activeClient(node, oneTimeProduct(node, 50000), date(2024, time.January, 10))

	ranked := RankClients([]clientdomain.Client{c}, nil, now, "", metricsdomain.SortByLTV)

	require.Len(t, ranked, 1)
	assert.Equal(t, 6, ranked[0].TenureMonths)
	assert.Equal(t, int64(50000), ranked[0].RealizedLTVCents)
	assert.Equal(t, int64(8333), ranked[0].AverageTicketCents)
}

func TestRankClients_AddonWindows(t *testing.T) {
	node := newNode(t)
	now := date(2024, time.June, 1)

	owner := activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1))
	addonProduct := monthlyProduct(node, 2000)
	cancelledProduct := monthlyProduct(node, 4000)

	addons := []clientdomain.ClientAddon{
		{
			ID:        node.Generate(),
			ClientID:  owner.ID,
			ProductID: addonProduct.ID,
			Product:   addonProduct,
			Quantity:  2,
			Status:    clientdomain.AddonActive,
			StartDate: date(2024, time.March, 1),
		},
		{
			ID:        node.Generate(),
			ClientID:  owner.ID,
			ProductID: cancelledProduct.ID,
			Product:   cancelledProduct,
			Quantity:  1,
			Status:    clientdomain.AddonCancelled,
			StartDate: date(2024, time.March, 1),
			EndDate:   datePtr(2024, time.April, 15),
		},
	}

	ranked := RankClients([]clientdomain.Client{owner}, addons, now, "", metricsdomain.SortByLTV)

	require.Len(t, ranked, 1)
	// Main: 10000 over 6 months of tenure. Active add-on: 2000 x 2 over its
	// own Mar..Jun window of 3 months. Cancelled add-on: Mar..Apr is 1 month.
	assert.Equal(t, int64(60000+12000+4000), ranked[0].RealizedLTVCents)
	assert.Equal(t, 6, ranked[0].TenureMonths)
}

func TestRankClients_MinimumOneMonth(t *testing.T) {
	node := newNode(t)
	now := date(2024, time.January, 20)

	c := activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 10))

	ranked := RankClients([]clientdomain.Client{c}, nil, now, "", metricsdomain.SortByLTV)

	require.Len(t, ranked, 1)
	assert.Equal(t, 1, ranked[0].TenureMonths)
	assert.Equal(t, int64(10000), ranked[0].RealizedLTVCents)
}

func TestRankClients_StatusFilter(t *testing.T) {
	node := newNode(t)
	now := date(2024, time.June, 1)

	clients := []clientdomain.Client{
		activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1)),
		churnedClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1), datePtr(2024, time.March, 1)),
	}

	ranked := RankClients(clients, nil, now, clientdomain.ClientChurned, metricsdomain.SortByLTV)

	require.Len(t, ranked, 1)
	assert.Equal(t, clientdomain.ClientChurned, ranked[0].Status)
}

func TestRankClients_SortOrders(t *testing.T) {
	node := newNode(t)
	now := date(2024, time.June, 1)

	young := activeClient(node, monthlyProduct(node, 50000), date(2024, time.May, 1))
	young.Name = "young-big"
	old := activeClient(node, monthlyProduct(node, 5000), date(2023, time.June, 1))
	old.Name = "old-small"

	clients := []clientdomain.Client{young, old}

	byLTV := RankClients(clients, nil, now, "", metricsdomain.SortByLTV)
	require.Len(t, byLTV, 2)
	assert.Equal(t, "young-big", byLTV[0].Name)

	byTenure := RankClients(clients, nil, now, "", metricsdomain.SortByTenure)
	require.Len(t, byTenure, 2)
	assert.Equal(t, "old-small", byTenure[0].Name)
}
