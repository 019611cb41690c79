package ai

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/advisor"
	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
)

// Handler serves the anonymous advice endpoints. Callers send their own
// figures, nothing is read from storage.
type Handler struct {
	advisor *advisor.Advisor
}

func NewHandler(a *advisor.Advisor) *Handler {
	return &Handler{advisor: a}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/suggest", h.suggest)
	r.Post("/ask", h.ask)
}

type expenseDTO struct {
	Label    string         `json:"label"`
	Category string         `json:"category"`
	Amount   finance.Amount `json:"amount"`
}

type budgetRequest struct {
	TotalBudget finance.Amount `json:"totalBudget"`
	Expenses    []expenseDTO   `json:"expenses"`
}

func (b budgetRequest) records() []analytics.Record {
	records := make([]analytics.Record, len(b.Expenses))
	for i, e := range b.Expenses {
		records[i] = analytics.Record{
			Label:    e.Label,
			Category: e.Category,
			Amount:   e.Amount.Decimal,
			Type:     finance.TypeExpense,
		}
	}

	return records
}

type suggestResponse struct {
	Suggestion string `json:"suggestion"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !render.Decode(w, r, &req) {
		return
	}

	text := h.advisor.Suggest(r.Context(), req.TotalBudget.Decimal, req.records())

	render.JSON(w, http.StatusOK, suggestResponse{Suggestion: text})
}

type askRequest struct {
	budgetRequest

	Question string `json:"question"`
}

type askResponse struct {
	Answer string `json:"answer"`
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if !render.Decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		render.Message(w, http.StatusBadRequest, "question is required")
		return
	}

	text := h.advisor.Ask(r.Context(), req.Question, req.TotalBudget.Decimal, req.records())

	render.JSON(w, http.StatusOK, askResponse{Answer: text})
}
