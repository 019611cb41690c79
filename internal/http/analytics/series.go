package analytics

import (
	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

type BucketResponse struct {
	Key        string                    `json:"key"`
	Spent      finance.Amount            `json:"spent"`
	Count      int                       `json:"count"`
	Categories map[string]finance.Amount `json:"categories"`
}

// SeriesResponse is the JSON shape of a time series, shared by the ledger
// and budget endpoints.
type SeriesResponse struct {
	Granularity   analytics.Granularity `json:"granularity"`
	TopCategories []string              `json:"topCategories"`
	Buckets       []BucketResponse      `json:"buckets"`
}

func NewSeriesResponse(s analytics.Series) SeriesResponse {
	buckets := make([]BucketResponse, len(s.Buckets))
	for i, b := range s.Buckets {
		categories := make(map[string]finance.Amount, len(b.Categories))
		for c, v := range b.Categories {
			categories[c] = finance.NewAmount(v)
		}

		buckets[i] = BucketResponse{
			Key:        b.Key,
			Spent:      finance.NewAmount(b.Spent),
			Count:      b.Count,
			Categories: categories,
		}
	}

	return SeriesResponse{
		Granularity:   s.Granularity,
		TopCategories: s.TopCategories,
		Buckets:       buckets,
	}
}
