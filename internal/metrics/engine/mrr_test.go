package engine

import (
	"testing"
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/stretchr/testify/assert"
)

func TestMRRAt_MainProductsOnly(t *testing.T) {
	node := newNode(t)
	at := date(2024, time.June, 30)

	clients := []clientdomain.Client{
		activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1)),
		activeClient(node, annualProduct(node, 120000), date(2024, time.February, 1)),
		activeClient(node, oneTimeProduct(node, 50000), date(2024, time.March, 1)),
		churnedClient(node, monthlyProduct(node, 7000), date(2024, time.January, 1), datePtr(2024, time.May, 1)),
	}

	// 10000 monthly + 120000/12 annual; one-time and churned contribute nothing.
	assert.InDelta(t, 20000, MRRAt(clients, nil, at), 0.0001)
}

func TestMRRAt_AddonRequiresActiveOwner(t *testing.T) {
	node := newNode(t)
	at := date(2024, time.June, 30)

	owner := activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1))
	churned := churnedClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1), datePtr(2024, time.April, 1))

	addonProduct := monthlyProduct(node, 2500)
	addons := []clientdomain.ClientAddon{
		{
			ID:        node.Generate(),
			ClientID:  owner.ID,
			ProductID: addonProduct.ID,
			Product:   addonProduct,
			Quantity:  2,
			Status:    clientdomain.AddonActive,
			StartDate: date(2024, time.February, 1),
		},
		{
			ID:        node.Generate(),
			ClientID:  churned.ID,
			ProductID: addonProduct.ID,
			Product:   addonProduct,
			Quantity:  1,
			Status:    clientdomain.AddonActive,
			StartDate: date(2024, time.February, 1),
		},
	}

	// Owner MRR 2x10000 plus 2x2500 for the active owner's add-on; the
	// churned owner's add-on is excluded even though the add-on itself is
	// still marked active.
	got := MRRAt([]clientdomain.Client{owner, churned}, addons, at)
	assert.InDelta(t, 15000, got, 0.0001)
}

func TestMRRAt_CancelledAddonStopsCounting(t *testing.T) {
	node := newNode(t)

	owner := activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 1))
	addonProduct := monthlyProduct(node, 3000)
	addons := []clientdomain.ClientAddon{{
		ID:        node.Generate(),
		ClientID:  owner.ID,
		ProductID: addonProduct.ID,
		Product:   addonProduct,
		Quantity:  1,
		Status:    clientdomain.AddonCancelled,
		StartDate: date(2024, time.February, 1),
		EndDate:   datePtr(2024, time.April, 15),
	}}

	clients := []clientdomain.Client{owner}
	assert.InDelta(t, 13000, MRRAt(clients, addons, date(2024, time.April, 14)), 0.0001)
	assert.InDelta(t, 10000, MRRAt(clients, addons, date(2024, time.April, 15)), 0.0001)
}

func TestMRRAt_NilProductContributesNothing(t *testing.T) {
	node := newNode(t)
	clients := []clientdomain.Client{activeClient(node, nil, date(2024, time.January, 1))}

	assert.Equal(t, float64(0), MRRAt(clients, nil, date(2024, time.June, 30)))
}
