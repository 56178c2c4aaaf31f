package service

import (
	"context"

	"github.com/capstore/online_shop/internal/models"
	"github.com/capstore/online_shop/internal/report"
	"github.com/capstore/online_shop/internal/tracing"
)

const (
	defaultTopLimit = 10
	maxTopLimit     = 100
)

type ReportService struct {
	Reader *report.Reader
}

func (s *ReportService) Sales(ctx context.Context, rng report.Range) (report.SalesReport, error) {
	ctx, span := tracing.Start(ctx, "report.sales")
	defer span.End()

	sales, err := s.Reader.Sales(ctx, rng)
	if err != nil {
		tracing.Fail(span, err)
		return report.SalesReport{}, err
	}
	return report.Summarize(sales, models.PaymentCash, models.PaymentTransfer), nil
}

// TopProducts ranks completed sales; limit falls back to 10 and is capped.
func (s *ReportService) TopProducts(ctx context.Context, rng report.Range, limit int) ([]report.TopProduct, error) {
	ctx, span := tracing.Start(ctx, "report.top_products")
	defer span.End()

	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	top, err := s.Reader.TopProducts(ctx, rng, models.OrderCompleted, limit)
	if err != nil {
		tracing.Fail(span, err)
		return nil, err
	}
	if top == nil {
		top = []report.TopProduct{}
	}
	return top, nil
}
