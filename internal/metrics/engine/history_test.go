package engine

import (
	"testing"
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMRRHistory_EmitsEveryTouchedMonth(t *testing.T) {
	node := newNode(t)
	clients := []clientdomain.Client{
		activeClient(node, monthlyProduct(node, 10000), date(2024, time.February, 10)),
	}

	// Partial first and last months still produce points.
	points := MRRHistory(clients, nil, date(2024, time.January, 15), date(2024, time.March, 10))

	require.Len(t, points, 3)
	assert.Equal(t, "Jan/24", points[0].Month)
	assert.Equal(t, int64(0), points[0].MRRCents)
	assert.Equal(t, "Feb/24", points[1].Month)
	assert.Equal(t, int64(10000), points[1].MRRCents)
	assert.Equal(t, "Mar/24", points[2].Month)
	assert.Equal(t, int64(10000), points[2].MRRCents)
}

func TestMRRHistory_EmptyPopulationZeroFills(t *testing.T) {
	points := MRRHistory(nil, nil, date(2023, time.November, 1), date(2024, time.February, 1))

	require.Len(t, points, 4)
	assert.Equal(t, "Nov/23", points[0].Month)
	for _, p := range points {
		assert.Equal(t, int64(0), p.MRRCents)
	}
}

func TestChurnHistory(t *testing.T) {
	node := newNode(t)
	clients := []clientdomain.Client{
		activeClient(node, monthlyProduct(node, 10000), date(2024, time.February, 10)),
		churnedClient(node, monthlyProduct(node, 5000), date(2023, time.June, 1), datePtr(2024, time.March, 5)),
		// No churn date recorded: never counted as a churn event.
		churnedClient(node, monthlyProduct(node, 5000), date(2023, time.June, 1), nil),
	}

	points := ChurnHistory(clients, date(2024, time.January, 1), date(2024, time.March, 31))

	require.Len(t, points, 3)
	assert.Equal(t, 0, points[0].NewClients)
	assert.Equal(t, 0, points[0].ChurnedClients)
	assert.Equal(t, 1, points[1].NewClients)
	assert.Equal(t, 0, points[1].ChurnedClients)
	assert.Equal(t, 0, points[2].NewClients)
	assert.Equal(t, 1, points[2].ChurnedClients)
}

func TestRevenueHistory_SplitsRecurringAndOneTime(t *testing.T) {
	node := newNode(t)
	owner := activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1))
	setupAddon := oneTimeProduct(node, 5000)

	snap := Snapshot{
		Clients: []clientdomain.Client{
			owner,
			activeClient(node, oneTimeProduct(node, 50000), date(2024, time.February, 10)),
		},
		Addons: []clientdomain.ClientAddon{{
			ID:        node.Generate(),
			ClientID:  owner.ID,
			ProductID: setupAddon.ID,
			Product:   setupAddon,
			Quantity:  2,
			Status:    clientdomain.AddonActive,
			StartDate: date(2024, time.February, 20),
		}},
	}

	points := RevenueHistory(snap, date(2024, time.January, 1), date(2024, time.March, 31))

	require.Len(t, points, 3)
	assert.Equal(t, int64(10000), points[0].RecurringCents)
	assert.Equal(t, int64(0), points[0].OneTimeCents)
	assert.Equal(t, int64(10000), points[1].RecurringCents)
	assert.Equal(t, int64(60000), points[1].OneTimeCents)
	assert.Equal(t, int64(10000), points[2].RecurringCents)
	assert.Equal(t, int64(0), points[2].OneTimeCents)
}
