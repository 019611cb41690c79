package analytics

import (
	"strings"
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

// Filter narrows a record set. Zero fields are ignored and set fields
// combine with AND. Category compares case-insensitively.
type Filter struct {
	From     *time.Time
	To       *time.Time
	Category *string
	Query    *string
	Type     *finance.Type
}

func (f Filter) Match(r Record) bool {
	if f.From != nil && r.OccurredAt.Before(*f.From) {
		return false
	}

	if f.To != nil && r.OccurredAt.After(*f.To) {
		return false
	}

	if f.Category != nil && !strings.EqualFold(categoryOf(r), strings.TrimSpace(*f.Category)) {
		return false
	}

	if f.Type != nil && r.Type != *f.Type {
		return false
	}

	if f.Query != nil {
		q := strings.ToLower(strings.TrimSpace(*f.Query))
		haystack := strings.ToLower(r.Label + " " + r.Category)

		if q != "" && !strings.Contains(haystack, q) {
			return false
		}
	}

	return true
}

func (f Filter) Apply(records []Record) []Record {
	out := make([]Record, 0, len(records))

	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}

	return out
}
