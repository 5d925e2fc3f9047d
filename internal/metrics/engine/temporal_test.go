package engine

import (
	"testing"
	"time"

	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	"github.com/stretchr/testify/assert"
)

func TestWasClientActiveAt_HalfOpenInterval(t *testing.T) {
	node := newNode(t)
	p := monthlyProduct(node, 10000)
	c := churnedClient(node, p, date(2024, time.January, 10), datePtr(2024, time.March, 15))

	tests := []struct {
		name   string
		at     time.Time
		active bool
	}{
		{"before start", date(2024, time.January, 9), false},
		{"on start date", date(2024, time.January, 10), true},
		{"mid lifetime", date(2024, time.February, 1), true},
		{"day before churn", date(2024, time.March, 14), true},
		{"on churn date", date(2024, time.March, 15), false},
		{"after churn", date(2024, time.April, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.active, WasClientActiveAt(c, tt.at))
		})
	}
}

func TestWasClientActiveAt_ActiveClient(t *testing.T) {
	node := newNode(t)
	c := activeClient(node, monthlyProduct(node, 10000), date(2024, time.January, 10))

	assert.False(t, WasClientActiveAt(c, date(2024, time.January, 9)))
	assert.True(t, WasClientActiveAt(c, date(2024, time.January, 10)))
	assert.True(t, WasClientActiveAt(c, date(2030, time.January, 1)))
}

// A churned client without a churn date never counts as active, not even
// between its start date and now. Downstream figures depend on this exact
// behavior, so it is pinned here.
func TestWasClientActiveAt_ChurnedWithoutDate(t *testing.T) {
	node := newNode(t)
	c := churnedClient(node, monthlyProduct(node, 10000), date(2024, time.January, 10), nil)

	assert.False(t, WasClientActiveAt(c, date(2024, time.February, 1)))
	assert.False(t, WasClientActiveAt(c, date(2024, time.January, 10)))
}

func TestWasAddonActiveAt(t *testing.T) {
	node := newNode(t)
	p := monthlyProduct(node, 2500)

	addon := clientdomain.ClientAddon{
		ID:        node.Generate(),
		ClientID:  node.Generate(),
		ProductID: p.ID,
		Product:   p,
		Quantity:  1,
		Status:    clientdomain.AddonActive,
		StartDate: date(2024, time.February, 1),
	}

	assert.False(t, WasAddonActiveAt(addon, date(2024, time.January, 31)))
	assert.True(t, WasAddonActiveAt(addon, date(2024, time.February, 1)))

	addon.Status = clientdomain.AddonCancelled
	addon.EndDate = datePtr(2024, time.April, 10)

	assert.True(t, WasAddonActiveAt(addon, date(2024, time.April, 9)))
	assert.False(t, WasAddonActiveAt(addon, date(2024, time.April, 10)))

	addon.EndDate = nil
	assert.False(t, WasAddonActiveAt(addon, date(2024, time.March, 1)))
}

func TestMonthsBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same month", date(2024, time.January, 1), date(2024, time.January, 31), 0},
		{"adjacent days across months", date(2024, time.January, 31), date(2024, time.February, 1), 1},
		{"full quarter", date(2024, time.January, 1), date(2024, time.March, 31), 2},
		{"year boundary", date(2023, time.November, 15), date(2024, time.February, 2), 3},
		{"reversed", date(2024, time.March, 1), date(2024, time.January, 1), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monthsBetween(tt.a, tt.b))
		})
	}
}

func TestMonthlyValueCents(t *testing.T) {
	node := newNode(t)

	assert.Equal(t, float64(10000), MonthlyValueCents(monthlyProduct(node, 10000)))
	assert.InDelta(t, 10000, MonthlyValueCents(annualProduct(node, 120000)), 0.0001)
	assert.InDelta(t, 8333.3333, MonthlyValueCents(annualProduct(node, 100000)), 0.0001)
	assert.Equal(t, float64(0), MonthlyValueCents(nil))
}

func TestIsRecurring(t *testing.T) {
	node := newNode(t)

	assert.True(t, IsRecurring(monthlyProduct(node, 10000)))
	assert.True(t, IsRecurring(annualProduct(node, 120000)))
	assert.False(t, IsRecurring(oneTimeProduct(node, 50000)))
	assert.True(t, IsRecurring(nil))
}
