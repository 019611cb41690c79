package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/spendwise/internal/auth"
	"github.com/MrJamesThe3rd/spendwise/internal/export"
	"github.com/MrJamesThe3rd/spendwise/internal/http/render"
	"github.com/MrJamesThe3rd/spendwise/internal/http/request"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

type summaryResponse struct {
	Count   int    `json:"count"`
	Summary string `json:"summary"`
}

// download streams the filtered ledger. ?format= picks csv (default), zip
// or summary.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := request.Filter(r)
	if err != nil {
		render.Message(w, http.StatusBadRequest, "Invalid date")
		return
	}

	format := r.URL.Query().Get("format")

	switch format {
	case "", "csv", "zip", "summary":
	default:
		render.Message(w, http.StatusBadRequest, "Invalid format")
		return
	}

	txs, err := h.svc.Export(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		render.InternalError(w, r, err)
		return
	}

	stamp := time.Now().Format("20060102")

	switch format {
	case "summary":
		render.JSON(w, http.StatusOK, summaryResponse{Count: len(txs), Summary: h.svc.Summary(txs)})
	case "zip":
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"export_%s.zip\"", stamp))

		if err := h.svc.WriteArchive(w, txs); err != nil {
			slog.Error("failed to write archive", "error", err)
		}
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"transactions_%s.csv\"", stamp))

		if err := h.svc.WriteCSV(w, txs); err != nil {
			slog.Error("failed to write csv", "error", err)
		}
	}
}
