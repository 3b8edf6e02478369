package handlers

import (
	"net/http"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
	"github.com/markjakearzadon/rxmate-checkout/internal/services"
)

type ContactHandler struct {
	service *services.ContactService
}

func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var msg models.ContactMessage
	if err := decodeJSON(w, r, &msg); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	ack, err := h.service.SubmitContact(r.Context(), msg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (h *ContactHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var sub models.NewsletterSubscription
	if err := decodeJSON(w, r, &sub); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	ack, err := h.service.Subscribe(r.Context(), sub)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}
