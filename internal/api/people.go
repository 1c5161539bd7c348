package api

import (
	"net/http"

	"github.com/kaustubhshukla9586/FinBuddy/internal/models"
	"github.com/kaustubhshukla9586/FinBuddy/internal/service"
)

type personRequest struct {
	Name  string `json:"name"`
	UPIID string `json:"upi_id"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

func (r personRequest) input() service.PersonInput {
	return service.PersonInput{Name: r.Name, UPIID: r.UPIID, Phone: r.Phone, Email: r.Email}
}

type personResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	UPIID string `json:"upi_id"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

func newPersonResponse(p *models.Person) personResponse {
	return personResponse{ID: p.ID, Name: p.Name, UPIID: p.UPIID, Phone: p.Phone, Email: p.Email}
}

func (h *Handler) listPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.people.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]personResponse, len(people))
	for i, p := range people {
		out[i] = newPersonResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) createPerson(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.people.Create(r.Context(), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newPersonResponse(p))
}

func (h *Handler) getPerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	p, err := h.people.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPersonResponse(p))
}

func (h *Handler) updatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req personRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.people.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newPersonResponse(p))
}
