package importcsv

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/importer"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	txSvc     *transaction.Service
}

func NewHandler(importSvc *importer.Service, txSvc *transaction.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		txSvc:     txSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID         int64          `json:"id"`
	Type       finance.Type   `json:"type"`
	Label      string         `json:"label"`
	Category   string         `json:"category"`
	Amount     finance.Amount `json:"amount"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Type     finance.Type   `json:"type"`
	Label    string         `json:"label"`
	Category string         `json:"category"`
	Amount   finance.Amount `json:"amount"`
	Date     *time.Time     `json:"date,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Message(w, http.StatusBadRequest, "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Message(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(r.FormValue("format"), file)
	if err != nil {
		render.Message(w, http.StatusBadRequest, err.Error())
		return
	}

	userID := auth.UserID(r.Context())
	h.txSvc.ApplyHints(r.Context(), userID, params)

	result, err := h.txSvc.ImportBatch(r.Context(), userID, params)
	if err != nil {
		if isPayloadError(err) {
			render.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		render.InternalError(w, r, err)

		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		render.JSON(w, http.StatusConflict, resp)

		return
	}

	render.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !render.Decode(w, r, &req) {
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			Type:       p.Type,
			Label:      p.Label,
			Category:   p.Category,
			Amount:     p.Amount.Decimal,
			OccurredAt: p.Date,
		})
	}

	txs, err := h.txSvc.CreateBatch(r.Context(), auth.UserID(r.Context()), params)
	if err != nil {
		if isPayloadError(err) {
			render.Message(w, http.StatusBadRequest, err.Error())
			return
		}

		render.InternalError(w, r, err)

		return
	}

	render.JSON(w, http.StatusCreated, toSuccessResponse(txs))
}

func isPayloadError(err error) bool {
	return errors.Is(err, transaction.ErrInvalidPayload) || errors.Is(err, transaction.ErrInvalidType)
}

func toSuccessResponse(txs []*transaction.Transaction) importSuccessResponse {
	responses := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		responses = append(responses, toTxResponse(tx))
	}

	return importSuccessResponse{
		Imported:     len(txs),
		Transactions: responses,
	}
}

func toTxResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		Type:       tx.Type,
		Label:      tx.Label,
		Category:   tx.Category,
		Amount:     finance.NewAmount(tx.Amount),
		OccurredAt: tx.OccurredAt,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Type:     p.Type,
		Label:    p.Label,
		Category: p.Category,
		Amount:   finance.NewAmount(p.Amount),
		Date:     p.OccurredAt,
	}
}
