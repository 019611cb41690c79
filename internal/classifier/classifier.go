package classifier

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

var ErrUnparseable = errors.New("unable to parse input")

// numeral matches an optional sign, an optional dollar glyph, digits and an
// optional two-digit fraction, e.g. "-$12.50", "+200", "15".
var numeral = regexp.MustCompile(`([+-]?\$?\d+(?:\.\d{1,2})?)`)

var (
	expenseCues = []string{"spent", "paid", "buy", "bought", "expense", "minus", "withdraw"}
	incomeCues  = []string{"income", "salary", "earned", "deposit", "plus", "credit", "received"}
)

type keywordGroup struct {
	category finance.Category
	keywords []string
}

// groups is checked in order; the first group with a hit wins.
var groups = []keywordGroup{
	{finance.CategoryFood, []string{"food", "grocery", "lunch", "dinner", "restaurant", "coffee"}},
	{finance.CategoryTransport, []string{"transport", "uber", "bus", "train", "fuel", "gas", "petrol", "taxi"}},
	{finance.CategoryHousing, []string{"rent", "mortgage", "utilities", "electric", "water", "internet"}},
	{finance.CategoryIncome, []string{"salary", "paycheck", "bonus", "freelance", "client", "invoice"}},
	{finance.CategoryShopping, []string{"shopping", "clothes", "amazon", "store"}},
	{finance.CategoryElectronics, []string{
		"electronics", "phone", "laptop", "watch", "tablet", "headphones", "camera",
		"tv", "television", "samsung", "apple", "sony", "xiaomi", "pixel", "oneplus",
	}},
}

// Proposal is an unpersisted transaction derived from free text.
type Proposal struct {
	Label      string
	Amount     decimal.Decimal
	Category   finance.Category
	Type       finance.Type
	OccurredAt time.Time
}

type Classifier struct {
	now func() time.Time
}

func New() *Classifier {
	return &Classifier{now: time.Now}
}

// NewWithClock returns a Classifier that stamps proposals using now.
func NewWithClock(now func() time.Time) *Classifier {
	return &Classifier{now: now}
}

// Classify turns text like "spent $12.50 on lunch" into a Proposal.
// It returns ErrUnparseable when the text carries no amount.
func (c *Classifier) Classify(text string) (*Proposal, error) {
	lower := strings.ToLower(text)

	raw := numeral.FindString(lower)
	if raw == "" {
		return nil, ErrUnparseable
	}

	value, explicitPlus, err := parseNumeral(raw)
	if err != nil {
		return nil, ErrUnparseable
	}

	return &Proposal{
		Label:      strings.TrimSpace(text),
		Amount:     value.Abs(),
		Category:   Categorize(text),
		Type:       inferType(lower, value, explicitPlus),
		OccurredAt: c.now(),
	}, nil
}

// Categorize returns the first keyword group matching text, or General.
func Categorize(text string) finance.Category {
	lower := strings.ToLower(text)

	for _, g := range groups {
		if containsAny(lower, g.keywords) {
			return g.category
		}
	}

	return finance.CategoryGeneral
}

// inferType leans towards expense: income needs a positive amount plus an
// income cue or an explicit '+', and only when no expense signal is present.
func inferType(lower string, value decimal.Decimal, explicitPlus bool) finance.Type {
	if value.IsNegative() || containsAny(lower, expenseCues) {
		return finance.TypeExpense
	}

	if value.IsPositive() && (explicitPlus || containsAny(lower, incomeCues)) {
		return finance.TypeIncome
	}

	return finance.TypeExpense
}

func parseNumeral(raw string) (decimal.Decimal, bool, error) {
	sign := ""
	if raw[0] == '+' || raw[0] == '-' {
		sign, raw = raw[:1], raw[1:]
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
	if err != nil {
		return decimal.Zero, false, err
	}

	if sign == "-" {
		d = d.Neg()
	}

	return d, sign == "+", nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}

	return false
}
