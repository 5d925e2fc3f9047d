package engine

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	clientdomain "github.com/smallbiznis/pulse/internal/client/domain"
	productdomain "github.com/smallbiznis/pulse/internal/product/domain"
	"github.com/stretchr/testify/require"
)

func newNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	dt := date(y, m, d)
	return &dt
}

func monthlyProduct(node *snowflake.Node, priceCents int64) *productdomain.Product {
	return &productdomain.Product{
		ID:            node.Generate(),
		Name:          "monthly",
		PriceCents:    priceCents,
		BillingPeriod: productdomain.BillingMonthly,
		PaymentType:   productdomain.PaymentRecurring,
	}
}

func annualProduct(node *snowflake.Node, priceCents int64) *productdomain.Product {
	return &productdomain.Product{
		ID:            node.Generate(),
		Name:          "annual",
		PriceCents:    priceCents,
		BillingPeriod: productdomain.BillingAnnual,
		PaymentType:   productdomain.PaymentRecurring,
	}
}

func oneTimeProduct(node *snowflake.Node, priceCents int64) *productdomain.Product {
	return &productdomain.Product{
		ID:            node.Generate(),
		Name:          "setup",
		PriceCents:    priceCents,
		BillingPeriod: productdomain.BillingMonthly,
		PaymentType:   productdomain.PaymentOneTime,
	}
}

func activeClient(node *snowflake.Node, p *productdomain.Product, start time.Time) clientdomain.Client {
	c := clientdomain.Client{
		ID:        node.Generate(),
		Name:      "client",
		Status:    clientdomain.ClientActive,
		Product:   p,
		StartDate: start,
	}
	if p != nil {
		c.ProductID = &p.ID
	}
	return c
}

func churnedClient(node *snowflake.Node, p *productdomain.Product, start time.Time, churn *time.Time) clientdomain.Client {
	c := activeClient(node, p, start)
	c.Status = clientdomain.ClientChurned
	c.ChurnDate = churn
	return c
}
