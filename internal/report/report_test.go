package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/report"
	"github.com/capstore/online_shop/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sale(total, method string, at time.Time) report.Sale {
	return report.Sale{Total: d(total), PaymentMethod: method, CreatedAt: at}
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	rep := report.Summarize(nil, models.PaymentCash, models.PaymentTransfer)
	assert.Equal(t, 0, rep.Count)
	assert.True(t, rep.Total.IsZero())
	assert.True(t, rep.Mean.IsZero())
	assert.True(t, rep.Median.IsZero())
	assert.True(t, rep.Mode.IsZero())
	assert.Empty(t, rep.ByDay)
	assert.Len(t, rep.ByMethod, 2)
	assert.True(t, rep.ByMethod[models.PaymentTransfer].IsZero())
}

func TestSummarize_Aggregates(t *testing.T) {
	t.Parallel()

	day1 := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	sales := []report.Sale{
		sale("10", models.PaymentCash, day1),
		sale("20", models.PaymentCash, day1),
		sale("20", models.PaymentTransfer, day2),
		sale("10", models.PaymentCash, day2),
		sale("40", models.PaymentCash, day2),
	}

	rep := report.Summarize(sales, models.PaymentCash, models.PaymentTransfer)
	assert.Equal(t, 5, rep.Count)
	assert.Equal(t, "100", rep.Total.String())
	assert.Equal(t, "20", rep.Mean.String())
	assert.Equal(t, "20", rep.Median.String())
	// 20 reaches two occurrences before 10 does
	assert.Equal(t, "20", rep.Mode.String())
	assert.Equal(t, "30", rep.ByDay["2024-05-01"].String())
	assert.Equal(t, "70", rep.ByDay["2024-05-02"].String())
	assert.Equal(t, "80", rep.ByMethod[models.PaymentCash].String())
	assert.Equal(t, "20", rep.ByMethod[models.PaymentTransfer].String())
}

func TestSummarize_ModeAllDistinctIsFirst(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rep := report.Summarize([]report.Sale{sale("7.50", models.PaymentCash, at), sale("3", models.PaymentCash, at)})
	assert.Equal(t, "7.5", rep.Mode.String())
	assert.Equal(t, "5.25", rep.Median.String())
}

func TestSummarize_MedianAndMode(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		totals []string
		median string
		mode   string
	}{
		{name: "odd count", totals: []string{"10", "20", "30"}, median: "20", mode: "10"},
		{name: "even count", totals: []string{"10", "20"}, median: "15", mode: "10"},
		{name: "repeated value", totals: []string{"10", "10", "20"}, median: "10", mode: "10"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sales := make([]report.Sale, 0, len(tt.totals))
			for _, v := range tt.totals {
				sales = append(sales, sale(v, models.PaymentCash, at))
			}
			rep := report.Summarize(sales)
			assert.Equal(t, tt.median, rep.Median.String())
			assert.Equal(t, tt.mode, rep.Mode.String())
		})
	}
}

func insertOrder(t *testing.T, db *gorm.DB, status string, at time.Time, items ...models.OrderItem) {
	t.Helper()

	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal)
	}
	o := &models.Order{
		UserID:        uuid.New(),
		CartID:        uuid.New(),
		Items:         items,
		Total:         total,
		Status:        status,
		PaymentMethod: models.PaymentCash,
		Invoice:       models.Invoice{Number: "FAC-" + uuid.NewString()[:8], IssuedAt: at, Subtotal: total, Tax: decimal.Zero, Total: total},
		CreatedAt:     at,
	}
	require.NoError(t, db.Create(o).Error)
}

func line(p *models.Product, qty int) models.OrderItem {
	return models.OrderItem{ProductID: p.ID, Name: p.Name, Quantity: qty, UnitPrice: p.Price, Subtotal: models.LineTotal(p.Price, qty)}
}

func TestReader_SalesAndTopProducts(t *testing.T) {
	db := testutil.NewDB(t)
	rd := &report.Reader{DB: testutil.ReadModel(t, db)}
	ctx := context.Background()

	mk := func(name string, price string) *models.Product {
		p := &models.Product{Name: name, Category: models.CategoryCasual, Size: models.SizeM, Color: "Negro", Price: d(price), Description: name, Available: true, Stock: 10}
		require.NoError(t, db.Create(p).Error)
		return p
	}
	alpha := mk("Alpha", "10")
	beta := mk("Beta", "20")
	gone := mk("Gone", "5")

	jan := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	insertOrder(t, db, models.OrderCompleted, jan, line(alpha, 2), line(beta, 1))
	insertOrder(t, db, models.OrderCompleted, feb, line(beta, 1), line(gone, 9))
	insertOrder(t, db, models.OrderCancelled, feb, line(alpha, 50))
	require.NoError(t, db.Delete(&models.Product{}, "id = ?", gone.ID).Error)

	all, err := rd.Sales(ctx, report.Range{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "40", all[0].Total.String())
	assert.True(t, all[0].CreatedAt.Equal(jan))

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ranged, err := rd.Sales(ctx, report.Range{From: &from})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	top, err := rd.TopProducts(ctx, report.Range{}, models.OrderCompleted, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	// tie on quantity falls back to name
	assert.Equal(t, "Alpha", top[0].Name)
	assert.EqualValues(t, 2, top[0].Quantity)
	assert.Equal(t, "Beta", top[1].Name)
	assert.EqualValues(t, 2, top[1].Quantity)
	assert.Equal(t, "40", top[1].Revenue.String())
	assert.Equal(t, beta.ID, top[1].ID)

	limited, err := rd.TopProducts(ctx, report.Range{}, models.OrderCompleted, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestReader_TopProductsKeepSoldName(t *testing.T) {
	db := testutil.NewDB(t)
	rd := &report.Reader{DB: testutil.ReadModel(t, db)}
	ctx := context.Background()

	p := &models.Product{Name: "Clasica", Category: models.CategoryCasual, Size: models.SizeM, Color: "Negro", Price: d("10"), Description: "x", Available: true, Stock: 10}
	require.NoError(t, db.Create(p).Error)
	insertOrder(t, db, models.OrderCompleted, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), line(p, 3))
	require.NoError(t, db.Model(p).Update("name", "Clasica Pro").Error)

	top, err := rd.TopProducts(ctx, report.Range{}, models.OrderCompleted, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Clasica", top[0].Name)
	assert.Equal(t, models.CategoryCasual, top[0].Category)
	assert.EqualValues(t, 3, top[0].Quantity)
}
