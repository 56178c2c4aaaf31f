package report

import (
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

type SalesReport struct {
	Total    decimal.Decimal            `json:"total_ventas"`
	Count    int                        `json:"cantidad_ventas"`
	Mean     decimal.Decimal            `json:"media"`
	Median   decimal.Decimal            `json:"mediana"`
	Mode     decimal.Decimal            `json:"moda"`
	ByDay    map[string]decimal.Decimal `json:"ventas_por_dia"`
	ByMethod map[string]decimal.Decimal `json:"ventas_por_metodo"`
}

// Summarize folds sales, given in creation order, into a SalesReport.
// methods lists the payment methods that always appear in ByMethod.
func Summarize(sales []Sale, methods ...string) SalesReport {
	rep := SalesReport{
		Total:    decimal.Zero,
		Count:    len(sales),
		Mean:     decimal.Zero,
		Median:   decimal.Zero,
		Mode:     decimal.Zero,
		ByDay:    map[string]decimal.Decimal{},
		ByMethod: map[string]decimal.Decimal{},
	}
	for _, m := range methods {
		rep.ByMethod[m] = decimal.Zero
	}
	if len(sales) == 0 {
		return rep
	}

	values := make(stats.Float64Data, 0, len(sales))
	for _, s := range sales {
		rep.Total = rep.Total.Add(s.Total)
		values = append(values, s.Total.InexactFloat64())

		day := s.CreatedAt.UTC().Format(dayLayout)
		rep.ByDay[day] = rep.ByDay[day].Add(s.Total)
		rep.ByMethod[s.PaymentMethod] = rep.ByMethod[s.PaymentMethod].Add(s.Total)
	}

	if mean, err := stats.Mean(values); err == nil {
		rep.Mean = decimal.NewFromFloat(mean)
	}
	if median, err := stats.Median(values); err == nil {
		rep.Median = decimal.NewFromFloat(median)
	}
	rep.Mode = firstMode(sales)
	return rep
}

// firstMode returns the value that first reaches the highest frequency
// while walking sales in order. stats.Mode reports every tied value, so the
// tie-break is done here.
func firstMode(sales []Sale) decimal.Decimal {
	counts := make(map[string]int, len(sales))
	best := 0
	mode := decimal.Zero
	for _, s := range sales {
		k := s.Total.String()
		counts[k]++
		if counts[k] > best {
			best = counts[k]
			mode = s.Total
		}
	}
	return mode
}
