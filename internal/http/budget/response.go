package budget

import (
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
)

type expenseResponse struct {
	ID        int64          `json:"id"`
	Label     string         `json:"label"`
	Category  string         `json:"category"`
	Amount    finance.Amount `json:"amount"`
	CreatedAt time.Time      `json:"created_at"`
}

type budgetResponse struct {
	TotalBudget finance.Amount    `json:"totalBudget"`
	Expenses    []expenseResponse `json:"expenses"`
}

type setResponse struct {
	Message     string         `json:"message"`
	TotalBudget finance.Amount `json:"totalBudget"`
}

type categoryResponse struct {
	Category string         `json:"category"`
	Total    finance.Amount `json:"total"`
}

type overviewResponse struct {
	TotalBudget finance.Amount     `json:"totalBudget"`
	Spent       finance.Amount     `json:"spent"`
	Remaining   finance.Amount     `json:"remaining"`
	Categories  []categoryResponse `json:"categories"`
}

type insightResponse struct {
	TotalBudget finance.Amount `json:"totalBudget"`
	Spent       finance.Amount `json:"spent"`
	Insight     string         `json:"insight"`
}

func toExpenseResponse(e *budget.Expense) expenseResponse {
	return expenseResponse{
		ID:        e.ID,
		Label:     e.Label,
		Category:  e.Category,
		Amount:    finance.NewAmount(e.Amount),
		CreatedAt: e.CreatedAt,
	}
}

func toExpenseList(expenses []*budget.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = toExpenseResponse(e)
	}

	return resp
}

func toOverviewResponse(o analytics.Overview) overviewResponse {
	categories := make([]categoryResponse, len(o.Categories))
	for i, c := range o.Categories {
		categories[i] = categoryResponse{Category: c.Category, Total: finance.NewAmount(c.Total)}
	}

	return overviewResponse{
		TotalBudget: finance.NewAmount(o.Total),
		Spent:       finance.NewAmount(o.Spent),
		Remaining:   finance.NewAmount(o.Remaining),
		Categories:  categories,
	}
}
