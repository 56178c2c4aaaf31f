package service

import (
	"context"
	"testing"

	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/report"
	"github.com/capstore/online_shop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReports_SalesAndTopProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := &ReportService{Reader: &report.Reader{DB: testutil.ReadModel(t, f.Repo.DB)}}

	empty, err := svc.Sales(ctx, report.Range{})
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Count)
	assert.Contains(t, empty.ByMethod, models.PaymentCash)
	assert.Contains(t, empty.ByMethod, models.PaymentTransfer)

	top, err := svc.TopProducts(ctx, report.Range{}, 0)
	require.NoError(t, err)
	assert.NotNil(t, top)
	assert.Empty(t, top)

	ana := f.user(t, "ana@example.com", models.RoleClient)
	nike := f.product(t, "Nike", "10.00", 10)
	vans := f.product(t, "Vans", "20.00", 10)
	_, err = f.Cart.AddItem(ctx, ana.ID, nike.ID, 3)
	require.NoError(t, err)
	_, err = f.Cart.AddItem(ctx, ana.ID, vans.ID, 1)
	require.NoError(t, err)
	_, _, err = f.Checkout.Finalize(ctx, ana.ID, FinalizeInput{PaymentMethod: models.PaymentCash})
	require.NoError(t, err)

	sales, err := svc.Sales(ctx, report.Range{})
	require.NoError(t, err)
	assert.Equal(t, 1, sales.Count)
	assert.Equal(t, "57.50", sales.Total.StringFixed(2))

	top, err = svc.TopProducts(ctx, report.Range{}, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Nike", top[0].Name)
	assert.EqualValues(t, 3, top[0].Quantity)
}
