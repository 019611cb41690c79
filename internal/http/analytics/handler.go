package analytics

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/http/request"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/categories", h.categories)
	r.Get("/trends", h.trends)
	r.Get("/series", h.series)
}

type summaryResponse struct {
	Income   finance.Amount `json:"income"`
	Expenses finance.Amount `json:"expenses"`
	Savings  finance.Amount `json:"savings"`
}

type categoryResponse struct {
	Category string         `json:"category"`
	Total    finance.Amount `json:"total"`
}

type trendResponse struct {
	Month    string         `json:"month"`
	Income   finance.Amount `json:"income"`
	Expenses finance.Amount `json:"expenses"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	s, err := h.svc.Summary(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, summaryResponse{
		Income:   finance.NewAmount(s.Income),
		Expenses: finance.NewAmount(s.Expenses),
		Savings:  finance.NewAmount(s.Savings),
	})
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	totals, err := h.svc.Categories(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	resp := make([]categoryResponse, len(totals))
	for i, t := range totals {
		resp[i] = categoryResponse{Category: t.Category, Total: finance.NewAmount(t.Total)}
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) trends(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	months, err := h.svc.Trends(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	resp := make([]trendResponse, len(months))
	for i, m := range months {
		resp[i] = trendResponse{
			Month:    m.Month,
			Income:   finance.NewAmount(m.Income),
			Expenses: finance.NewAmount(m.Expenses),
		}
	}

	render.JSON(w, http.StatusOK, resp)
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	g, top, err := request.SeriesParams(r)
	if err != nil {
		render.Message(w, http.StatusBadRequest, "Invalid granularity")
		return
	}

	s, err := h.svc.Series(r.Context(), auth.UserID(r.Context()), filter, g, top)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, NewSeriesResponse(s))
}

func parseFilter(w http.ResponseWriter, r *http.Request) (analytics.Filter, bool) {
	filter, err := request.Filter(r)
	if err != nil {
		render.Message(w, http.StatusBadRequest, "Invalid date")
		return analytics.Filter{}, false
	}

	return filter, true
}
