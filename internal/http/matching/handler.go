package matching

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	Label    string           `json:"label"`
	Category finance.Category `json:"category"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("label")
	if label == "" {
		render.Message(w, http.StatusBadRequest, "label query parameter is required")
		return
	}

	category, err := h.svc.Suggest(r.Context(), auth.UserID(r.Context()), label)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, suggestResponse{Label: label, Category: category})
}

type learnRequest struct {
	Pattern  string           `json:"pattern"`
	Category finance.Category `json:"category"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !render.Decode(w, r, &req) {
		return
	}

	err := h.svc.Learn(r.Context(), auth.UserID(r.Context()), req.Pattern, req.Category)

	switch {
	case err == nil:
		render.Message(w, http.StatusCreated, "Hint saved")
	case errors.Is(err, matching.ErrEmptyPattern):
		render.Message(w, http.StatusBadRequest, "pattern is required")
	case errors.Is(err, matching.ErrInvalidCategory):
		render.Message(w, http.StatusBadRequest, "Invalid category")
	default:
		render.InternalError(w, r, err)
	}
}
