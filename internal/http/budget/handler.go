package budget

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/budget"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	analyticshttp "github.com/MrJamesThe3rd/spendwise/internal/http/analytics"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/http/request"
)

type Handler struct {
	svc *budget.Service
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the budget endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Post("/", h.set)
	r.Get("/overview", h.overview)
	r.Get("/series", h.series)
	r.Get("/insight", h.insight)
}

// ExpenseRoutes mounts the expense endpoints.
func (h *Handler) ExpenseRoutes(r chi.Router) {
	r.Get("/", h.listExpenses)
	r.Post("/", h.addExpense)
	r.Delete("/{id}", h.deleteExpense)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Snapshot(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, budgetResponse{
		TotalBudget: finance.NewAmount(snap.Total),
		Expenses:    toExpenseList(snap.Expenses),
	})
}

type setRequest struct {
	TotalBudget finance.Amount `json:"totalBudget"`
}

func (h *Handler) set(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if !render.Decode(w, r, &req) {
		return
	}

	total := req.TotalBudget.Round(2)

	if err := h.svc.SetBudget(r.Context(), auth.UserID(r.Context()), total); err != nil {
		if errors.Is(err, budget.ErrInvalidPayload) {
			render.Message(w, http.StatusBadRequest, "Invalid budget payload")
			return
		}

		render.InternalError(w, r, err)

		return
	}

	render.JSON(w, http.StatusOK, setResponse{Message: "Budget updated", TotalBudget: finance.NewAmount(total)})
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	filter, err := request.Filter(r)
	if err != nil {
		render.Message(w, http.StatusBadRequest, "Invalid date")
		return
	}

	o, err := h.svc.Overview(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toOverviewResponse(o))
}

func (h *Handler) series(w http.ResponseWriter, r *http.Request) {
	filter, err := request.Filter(r)
	if err != nil {
		render.Message(w, http.StatusBadRequest, "Invalid date")
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

	render.JSON(w, http.StatusOK, analyticshttp.NewSeriesResponse(s))
}

func (h *Handler) insight(w http.ResponseWriter, r *http.Request) {
	in := h.svc.Insight(r.Context(), auth.UserID(r.Context()))

	render.JSON(w, http.StatusOK, insightResponse{
		TotalBudget: finance.NewAmount(in.Total),
		Spent:       finance.NewAmount(in.Spent),
		Insight:     in.Text,
	})
}

func (h *Handler) listExpenses(w http.ResponseWriter, r *http.Request) {
	filter, err := request.Filter(r)
	if err != nil {
		render.Message(w, http.StatusBadRequest, "Invalid date")
		return
	}

	expenses, err := h.svc.ListExpenses(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toExpenseList(expenses))
}

type addExpenseRequest struct {
	Label    string         `json:"label"`
	Category string         `json:"category"`
	Amount   finance.Amount `json:"amount"`
	Date     string         `json:"date"`
}

func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if !render.Decode(w, r, &req) {
		return
	}

	e, err := h.svc.AddExpense(r.Context(), auth.UserID(r.Context()), budget.ExpenseParams{
		Label:    req.Label,
		Category: req.Category,
		Amount:   req.Amount.Decimal,
		Date:     request.OptionalTime(req.Date),
	})
	if err != nil {
		if errors.Is(err, budget.ErrInvalidPayload) {
			render.Message(w, http.StatusBadRequest, "Invalid expense payload")
			return
		}

		render.InternalError(w, r, err)

		return
	}

	render.JSON(w, http.StatusCreated, toExpenseResponse(e))
}

func (h *Handler) deleteExpense(w http.ResponseWriter, r *http.Request) {
	err := h.svc.DeleteExpense(r.Context(), auth.UserID(r.Context()), request.ID(r))
	if err != nil {
		if errors.Is(err, budget.ErrInvalidID) {
			render.Message(w, http.StatusBadRequest, "Invalid id")
			return
		}

		render.InternalError(w, r, err)

		return
	}

	render.Message(w, http.StatusOK, "Deleted")
}
