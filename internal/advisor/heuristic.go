package advisor

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
)

var (
	lowerTier = decimal.RequireFromString("0.5")
	upperTier = decimal.RequireFromString("0.85")
)

const (
	MsgNoBudget  = "Set a valid total budget to get insights."
	MsgUnderHalf = "Good job! You're under 50% of your budget. Consider saving or investing the surplus."
	MsgSafeRange = "You're within a safe range. Monitor recurring categories like Food or Transport to optimize further."
)

// Heuristic is the deterministic advisory used when no AI provider answers.
// Tiers split at spent/total < 0.5, < 0.85 and everything above.
func Heuristic(total, spent decimal.Decimal, categories []analytics.CategoryTotal) string {
	if !total.IsPositive() {
		return MsgNoBudget
	}

	pct := spent.Div(total)

	switch {
	case pct.LessThan(lowerTier):
		return MsgUnderHalf
	case pct.LessThan(upperTier):
		return MsgSafeRange
	}

	top := "N/A"
	if len(categories) > 0 {
		top = categories[0].Category
	}

	return fmt.Sprintf(
		"Warning: Spending is high (%s%% of budget). Biggest category: %s. Try setting a weekly cap or switching to lower-cost alternatives.",
		pct.Mul(decimal.NewFromInt(100)).Round(0).String(), top,
	)
}
