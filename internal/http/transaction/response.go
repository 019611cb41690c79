package transaction

import (
	"time"

	"github.com/MrJamesThe3rd/spendwise/internal/classifier"
	"github.com/MrJamesThe3rd/spendwise/internal/finance"
	"github.com/MrJamesThe3rd/spendwise/internal/transaction"
)

type transactionResponse struct {
	ID         int64          `json:"id"`
	Type       finance.Type   `json:"type"`
	Label      string         `json:"label"`
	Category   string         `json:"category"`
	Amount     finance.Amount `json:"amount"`
	OccurredAt time.Time      `json:"occurred_at"`
	UpdatedAt  *time.Time     `json:"updated_at,omitempty"`
}

type proposalResponse struct {
	Label      string           `json:"label"`
	Category   finance.Category `json:"category"`
	Amount     finance.Amount   `json:"amount"`
	Type       finance.Type     `json:"type"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:         tx.ID,
		Type:       tx.Type,
		Label:      tx.Label,
		Category:   tx.Category,
		Amount:     finance.NewAmount(tx.Amount),
		OccurredAt: tx.OccurredAt,
		UpdatedAt:  tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}

func toProposalResponse(p *classifier.Proposal) proposalResponse {
	return proposalResponse{
		Label:      p.Label,
		Category:   p.Category,
		Amount:     finance.NewAmount(p.Amount),
		Type:       p.Type,
		OccurredAt: p.OccurredAt,
	}
}
