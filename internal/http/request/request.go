package request

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidGranularity = errors.New("invalid granularity")
)

// Filter reads the type, category, from, to and q query parameters.
// Unknown types are ignored. A date-only "to" covers the whole day.
func Filter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()

	var filter analytics.Filter

	if t := finance.Type(q.Get("type")); t.Valid() {
		filter.Type = new(t)
	}

	if s := strings.TrimSpace(q.Get("category")); s != "" {
		filter.Category = new(s)
	}

	if s := strings.TrimSpace(q.Get("q")); s != "" {
		filter.Query = new(s)
	}

	if s := q.Get("from"); s != "" {
		from, _, err := ParseTime(s)
		if err != nil {
			return analytics.Filter{}, err
		}

		filter.From = new(from)
	}

	if s := q.Get("to"); s != "" {
		to, dateOnly, err := ParseTime(s)
		if err != nil {
			return analytics.Filter{}, err
		}

		if dateOnly {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}

		filter.To = new(to)
	}

	return filter, nil
}

// SeriesParams reads granularity (default month) and top. An unparseable top
// falls back to the default number of categories.
func SeriesParams(r *http.Request) (analytics.Granularity, int, error) {
	g, err := analytics.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		return "", 0, ErrInvalidGranularity
	}

	top, _ := strconv.Atoi(r.URL.Query().Get("top"))

	return g, top, nil
}

// ParseTime accepts YYYY-MM-DD or RFC 3339 and reports which one it saw.
func ParseTime(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}

	return time.Time{}, false, ErrInvalidDate
}

// OptionalTime parses s when present. Blank or malformed input yields nil.
func OptionalTime(s string) *time.Time {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	t, _, err := ParseTime(s)
	if err != nil {
		return nil
	}

	return &t
}

// ID returns the {id} path parameter, or zero when it is not a positive integer.
func ID(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}

	return id
}
