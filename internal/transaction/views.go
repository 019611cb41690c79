package transaction

import (
	"context"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
)

func (s *Service) records(ctx context.Context, userID int64, filter analytics.Filter) ([]analytics.Record, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return Records(txs), nil
}

func (s *Service) Summary(ctx context.Context, userID int64, filter analytics.Filter) (analytics.Summary, error) {
	records, err := s.records(ctx, userID, filter)
	if err != nil {
		return analytics.Summary{}, err
	}

	return analytics.Summarize(records), nil
}

func (s *Service) Categories(ctx context.Context, userID int64, filter analytics.Filter) ([]analytics.CategoryTotal, error) {
	records, err := s.records(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return analytics.CategoryTotals(records), nil
}

func (s *Service) Trends(ctx context.Context, userID int64, filter analytics.Filter) ([]analytics.MonthTotals, error) {
	records, err := s.records(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	return analytics.MonthlyTrend(records), nil
}

func (s *Service) Series(ctx context.Context, userID int64, filter analytics.Filter, g analytics.Granularity, topN int) (analytics.Series, error) {
	records, err := s.records(ctx, userID, filter)
	if err != nil {
		return analytics.Series{}, err
	}

	return analytics.BuildSeries(records, g, topN), nil
}
