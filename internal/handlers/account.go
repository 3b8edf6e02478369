package handlers

import (
	"net/http"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
	"github.com/markjakearzadon/rxmate-checkout/internal/services"
	"github.com/markjakearzadon/rxmate-checkout/internal/session"
)

type AccountHandler struct {
	service *services.AccountService
}

func NewAccountHandler(service *services.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

type accountSetupRequest struct {
	models.AccountSetupForm
	// Reference lets the page pass along the reference it was returned with.
	Reference string `json:"reference"`
}

func (h *AccountHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req accountSetupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	query := r.URL.Query()
	if req.Reference != "" && query.Get("reference") == "" {
		query.Set("reference", req.Reference)
	}

	result, err := h.service.Setup(r.Context(), session.IDFromContext(r.Context()), req.AccountSetupForm, query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
