package transaction

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
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
	r.Post("/parse", h.parse)
	r.Post("/quick", h.quick)
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

// writeError maps domain errors onto the API's status codes and messages.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, transaction.ErrInvalidPayload):
		render.Message(w, http.StatusBadRequest, "Invalid transaction payload")
	case errors.Is(err, transaction.ErrInvalidType):
		render.Message(w, http.StatusBadRequest, "Invalid type")
	case errors.Is(err, transaction.ErrInvalidID):
		render.Message(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, transaction.ErrNoFields):
		render.Message(w, http.StatusBadRequest, "No valid fields to update")
	case errors.Is(err, transaction.ErrNotFound):
		render.Message(w, http.StatusNotFound, "Not found")
	case errors.Is(err, classifier.ErrUnparseable):
		render.Message(w, http.StatusBadRequest, "Unable to parse input")
	default:
		render.InternalError(w, r, err)
	}
}

type textRequest struct {
	Text string `json:"text"`
}

func (h *Handler) parse(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !render.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Propose(r.Context(), auth.UserID(r.Context()), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toProposalResponse(p))
}

func (h *Handler) quick(w http.ResponseWriter, r *http.Request) {
	var req textRequest
	if !render.Decode(w, r, &req) {
		return
	}

	tx, err := h.svc.QuickAdd(r.Context(), auth.UserID(r.Context()), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(tx))
}

type createTransactionRequest struct {
	Type     finance.Type   `json:"type"`
	Label    string         `json:"label"`
	Category string         `json:"category"`
	Amount   finance.Amount `json:"amount"`
	Date     string         `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !render.Decode(w, r, &req) {
		return
	}

	tx, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), transaction.CreateParams{
		Type:       req.Type,
		Label:      req.Label,
		Category:   req.Category,
		Amount:     req.Amount.Decimal,
		OccurredAt: request.OptionalTime(req.Date),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := request.Filter(r)
	if err != nil {
		render.Message(w, http.StatusBadRequest, "Invalid date")
		return
	}

	txs, err := h.svc.List(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), request.ID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

type updateTransactionRequest struct {
	Type     *finance.Type   `json:"type,omitempty"`
	Label    *string         `json:"label,omitempty"`
	Category *string         `json:"category,omitempty"`
	Amount   *finance.Amount `json:"amount,omitempty"`
	Date     *string         `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := request.ID(r)
	if id == 0 {
		writeError(w, r, transaction.ErrInvalidID)
		return
	}

	var req updateTransactionRequest
	if !render.Decode(w, r, &req) {
		return
	}

	params := transaction.UpdateParams{
		Type:     req.Type,
		Label:    req.Label,
		Category: req.Category,
	}

	if req.Amount != nil {
		params.Amount = new(req.Amount.Decimal)
	}

	// An unparseable date leaves the stored one untouched.
	if req.Date != nil {
		params.OccurredAt = request.OptionalTime(*req.Date)
	}

	tx, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), request.ID(r)); err != nil {
		writeError(w, r, err)
		return
	}

	render.Message(w, http.StatusOK, "Deleted")
}
