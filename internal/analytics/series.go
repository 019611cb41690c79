package analytics

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Granularity is the bucket size of a time series.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// DefaultTopCategories is how many categories get their own series.
const DefaultTopCategories = 4

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case GranularityDay, GranularityMonth, GranularityYear:
		return g, nil
	case "":
		return GranularityMonth, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}

func (g Granularity) layout() string {
	switch g {
	case GranularityDay:
		return "2006-01-02"
	case GranularityYear:
		return "2006"
	default:
		return "2006-01"
	}
}

type Bucket struct {
	Key        string
	Spent      decimal.Decimal
	Count      int
	Categories map[string]decimal.Decimal
}

type Series struct {
	Granularity   Granularity
	TopCategories []string
	Buckets       []Bucket
}

// BuildSeries buckets expense records by date key. Each bucket carries its
// total plus sub-totals for the topN categories of the whole record set.
func BuildSeries(records []Record, g Granularity, topN int) Series {
	if topN <= 0 {
		topN = DefaultTopCategories
	}

	totals := CategoryTotals(records)

	top := make([]string, 0, topN)
	for _, t := range totals[:min(topN, len(totals))] {
		top = append(top, t.Category)
	}

	byKey := make(map[string]*Bucket)

	for _, r := range records {
		if !isExpense(r) {
			continue
		}

		key := r.OccurredAt.UTC().Format(g.layout())

		b, ok := byKey[key]
		if !ok {
			b = &Bucket{Key: key, Categories: make(map[string]decimal.Decimal, len(top))}
			for _, c := range top {
				b.Categories[c] = decimal.Zero
			}

			byKey[key] = b
		}

		b.Spent = b.Spent.Add(r.Amount)
		b.Count++

		c := categoryOf(r)
		if _, tracked := b.Categories[c]; tracked {
			b.Categories[c] = b.Categories[c].Add(r.Amount)
		}
	}

	buckets := make([]Bucket, 0, len(byKey))
	for _, b := range byKey {
		buckets = append(buckets, *b)
	}

	slices.SortFunc(buckets, func(a, b Bucket) int {
		return cmp.Compare(a.Key, b.Key)
	})

	return Series{
		Granularity:   g,
		TopCategories: top,
		Buckets:       buckets,
	}
}
