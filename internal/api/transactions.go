package api

import (
	"net/http"
	"time"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/service"
)

type transactionRequest struct {
	Description         string `json:"description"`
	Amount              string `json:"amount"`
	Type                string `json:"type"`
	SourceOrDestination string `json:"source_or_destination"`
}

func (r transactionRequest) input() service.TransactionInput {
	return service.TransactionInput{
		Description:         r.Description,
		Amount:              r.Amount,
		Type:                r.Type,
		SourceOrDestination: r.SourceOrDestination,
	}
}

type transactionResponse struct {
	ID                  int64  `json:"id"`
	Description         string `json:"description"`
	Amount              string `json:"amount"`
	Type                string `json:"type"`
	SourceOrDestination string `json:"source_or_destination"`
	CreatedAt           string `json:"created_at"`
}

func newTransactionResponse(tx *models.CashTransaction) transactionResponse {
	return transactionResponse{
		ID:                  tx.ID,
		Description:         tx.Description,
		Amount:              tx.Amount.StringFixed(2),
		Type:                tx.Type,
		SourceOrDestination: tx.SourceOrDestination,
		CreatedAt:           tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactions.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = newTransactionResponse(tx)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.transactions.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTransactionResponse(tx))
}

func (h *Handler) getTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.transactions.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionResponse(tx))
}

func (h *Handler) updateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req transactionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tx, err := h.transactions.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newTransactionResponse(tx))
}

func (h *Handler) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.transactions.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) transactionTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.transactions.Totals(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"income":  totals.Income.StringFixed(2),
		"expense": totals.Expense.StringFixed(2),
		"balance": totals.Balance.StringFixed(2),
	})
}
