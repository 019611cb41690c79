package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
)

//go:generate mockgen -source=advisor.go -destination=provider_mock.go -package=advisor
type Provider interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// Advisor asks each configured provider in turn and falls back to the
// heuristic text when none of them produce an answer.
type Advisor struct {
	providers []Provider
	timeout   time.Duration
}

func New(timeout time.Duration, providers ...Provider) *Advisor {
	a := &Advisor{timeout: timeout}

	for _, p := range providers {
		if p != nil {
			a.providers = append(a.providers, p)
		}
	}

	return a
}

// Suggest returns spending advice for the given budget and expenses.
// It always returns text.
func (a *Advisor) Suggest(ctx context.Context, total decimal.Decimal, expenses []analytics.Record) string {
	overview := analytics.BuildOverview(total, expenses)

	prompt := buildPrompt(overview,
		"Given the monthly total budget and the list of expenses (label, category, amount), provide 3-5 concise, actionable suggestions to optimize spending.",
		"Be practical, avoid generic fluff, and use the top spending categories if useful.",
	)

	return a.complete(ctx, prompt, overview)
}

// Ask answers a free-form question about the user's budget.
func (a *Advisor) Ask(ctx context.Context, question string, total decimal.Decimal, expenses []analytics.Record) string {
	overview := analytics.BuildOverview(total, expenses)

	prompt := buildPrompt(overview,
		"Answer the user's question about their budget in a few short sentences, using the figures below.",
		"Question: "+strings.TrimSpace(question),
	)

	return a.complete(ctx, prompt, overview)
}

func (a *Advisor) complete(ctx context.Context, prompt string, overview analytics.Overview) string {
	for _, p := range a.providers {
		text, err := a.try(ctx, p, prompt)
		if err != nil {
			slog.Warn("ai provider failed", "provider", p.Name(), "error", err)
			continue
		}

		if text = strings.TrimSpace(text); text != "" {
			return text
		}
	}

	return Heuristic(overview.Total, overview.Spent, overview.Categories)
}

func (a *Advisor) try(ctx context.Context, p Provider, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	return p.Complete(ctx, prompt)
}

func buildPrompt(overview analytics.Overview, lines ...string) string {
	var sb strings.Builder

	sb.WriteString("You are a personal finance assistant.\n")

	for _, l := range lines {
		sb.WriteString(l)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Total budget: %s\n", overview.Total)
	fmt.Fprintf(&sb, "Total spent: %s\n", overview.Spent)
	sb.WriteString("Category totals:\n")

	for _, c := range overview.Categories {
		fmt.Fprintf(&sb, "- %s: %s\n", c.Category, c.Total)
	}

	return sb.String()
}
