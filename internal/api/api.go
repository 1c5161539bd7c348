// Package api exposes the services over a thin JSON HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kaustubhshukla9586/FinBuddy/internal/service"
	"github.com/kaustubhshukla9586/FinBuddy/internal/storage"
)

// Handler routes HTTP requests to the services.
type Handler struct {
	transactions *service.TransactionService
	people       *service.PersonService
	splits       *service.SplitService
}

// New creates the API handler.
func New(transactions *service.TransactionService, people *service.PersonService, splits *service.SplitService) *Handler {
	return &Handler{transactions: transactions, people: people, splits: splits}
}

// Routes builds the full request mux, including the metrics endpoint.
func (h *Handler) Routes(reg *prometheus.Registry) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/transactions", h.listTransactions)
	mux.HandleFunc("POST /api/transactions", h.createTransaction)
	mux.HandleFunc("GET /api/transactions/totals", h.transactionTotals)
	mux.HandleFunc("GET /api/transactions/{id}", h.getTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", h.updateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", h.deleteTransaction)

	mux.HandleFunc("GET /api/people", h.listPeople)
	mux.HandleFunc("POST /api/people", h.createPerson)
	mux.HandleFunc("GET /api/people/{id}", h.getPerson)
	mux.HandleFunc("PUT /api/people/{id}", h.updatePerson)

	mux.HandleFunc("GET /api/splits", h.listSplits)
	mux.HandleFunc("POST /api/splits", h.createSplit)
	mux.HandleFunc("POST /api/splits/from-transaction/{id}", h.createSplitFromTransaction)
	mux.HandleFunc("GET /api/splits/{id}", h.getSplit)
	mux.HandleFunc("GET /api/splits/{id}/history", h.splitHistory)
	mux.HandleFunc("POST /api/splits/{id}/settle", h.settleSplit)
	mux.HandleFunc("POST /api/splits/{id}/people", h.addPerson)
	mux.HandleFunc("DELETE /api/splits/items/{id}", h.removePerson)
	mux.HandleFunc("POST /api/splits/items/{id}/payment", h.markPayment)

	if reg != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return Logging(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps service errors onto HTTP statuses: missing rows are 404,
// everything else from the validation layer is 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func decode(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
