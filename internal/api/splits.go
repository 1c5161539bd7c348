package api

import (
	"net/http"
	"time"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/service"
)

type createSplitRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	TotalAmount   string   `json:"total_amount"`
	SplitType     string   `json:"split_type"`
	PersonIDs     []int64  `json:"person_ids"`
	CustomAmounts []string `json:"custom_amounts"`
}

func (r createSplitRequest) input() service.CreateSplitInput {
	return service.CreateSplitInput{
		Title:         r.Title,
		Description:   r.Description,
		TotalAmount:   r.TotalAmount,
		SplitType:     r.SplitType,
		PersonIDs:     r.PersonIDs,
		CustomAmounts: r.CustomAmounts,
	}
}

type splitResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	TotalAmount string `json:"total_amount"`
	SplitType   string `json:"split_type"`
	IsSettled   bool   `json:"is_settled"`
	SettledAt   string `json:"settled_at,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func newSplitResponse(s *models.BillSplit) splitResponse {
	resp := splitResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		TotalAmount: s.TotalAmount.StringFixed(2),
		SplitType:   s.SplitType,
		IsSettled:   s.IsSettled,
		CreatedAt:   s.CreatedAt.UTC().Format(time.RFC3339),
	}
	if s.SettledAt != nil {
		resp.SettledAt = s.SettledAt.UTC().Format(time.RFC3339)
	}
	return resp
}

type itemResponse struct {
	ID         int64  `json:"id"`
	PersonID   int64  `json:"person_id"`
	PersonName string `json:"person_name"`
	Amount     string `json:"amount"`
	IsPaid     bool   `json:"is_paid"`
	PaidAt     string `json:"paid_at,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

func newItemResponse(d *service.ItemDetail) itemResponse {
	resp := itemResponse{
		ID:         d.Item.ID,
		PersonID:   d.Person.ID,
		PersonName: d.Person.Name,
		Amount:     d.Item.Amount.StringFixed(2),
		IsPaid:     d.Item.IsPaid,
		Notes:      d.Item.Notes,
	}
	if d.Item.PaidAt != nil {
		resp.PaidAt = d.Item.PaidAt.UTC().Format(time.RFC3339)
	}
	return resp
}

type historyResponse struct {
	ID          int64  `json:"id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

func newHistoryResponse(h *models.BillSplitHistory) historyResponse {
	return historyResponse{
		ID:          h.ID,
		Action:      h.Action,
		Description: h.Description,
		CreatedAt:   h.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type splitDetailResponse struct {
	splitResponse
	Remaining string            `json:"remaining_amount"`
	Items     []itemResponse    `json:"items"`
	History   []historyResponse `json:"history"`
}

func (h *Handler) listSplits(w http.ResponseWriter, r *http.Request) {
	splits, err := h.splits.ListSplits(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]splitResponse, len(splits))
	for i, s := range splits {
		out[i] = newSplitResponse(s)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createSplit(w http.ResponseWriter, r *http.Request) {
	var req createSplitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	split, err := h.splits.CreateSplit(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSplitResponse(split))
}

func (h *Handler) createSplitFromTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req createSplitRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	split, err := h.splits.CreateSplitFromTransaction(r.Context(), id, req.SplitType, req.PersonIDs, req.CustomAmounts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSplitResponse(split))
}

func (h *Handler) getSplit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	detail, err := h.splits.GetSplit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := splitDetailResponse{
		splitResponse: newSplitResponse(detail.Split),
		Remaining:     detail.Remaining.StringFixed(2),
		Items:         make([]itemResponse, len(detail.Items)),
		History:       make([]historyResponse, len(detail.History)),
	}
	for i, item := range detail.Items {
		resp.Items[i] = newItemResponse(item)
	}
	for i, event := range detail.History {
		resp.History[i] = newHistoryResponse(event)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) splitHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	history, err := h.splits.History(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]historyResponse, len(history))
	for i, event := range history {
		out[i] = newHistoryResponse(event)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) settleSplit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	split, err := h.splits.SettleSplit(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSplitResponse(split))
}

type addPersonRequest struct {
	PersonID int64  `json:"person_id"`
	Amount   string `json:"amount"`
}

func (h *Handler) addPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req addPersonRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.splits.AddPerson(r.Context(), id, req.PersonID, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"item_id": item.ID})
}

func (h *Handler) removePerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.splits.RemovePerson(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type markPaymentRequest struct {
	Paid bool `json:"paid"`
}

func (h *Handler) markPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req markPaymentRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	item, err := h.splits.MarkPayment(r.Context(), id, req.Paid)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := map[string]any{"id": item.ID, "is_paid": item.IsPaid}
	if item.PaidAt != nil {
		resp["paid_at"] = item.PaidAt.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}
