package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
	"github.com/markjakearzadon/rxmate-checkout/internal/services"
	"github.com/markjakearzadon/rxmate-checkout/internal/session"
)

type PaymentHandler struct {
	checkout *services.CheckoutService
	payments *services.PaymentService
	cache    *session.Cache
}

func NewPaymentHandler(checkout *services.CheckoutService, payments *services.PaymentService, cache *session.Cache) *PaymentHandler {
	return &PaymentHandler{checkout: checkout, payments: payments, cache: cache}
}

type checkoutRequest struct {
	models.CheckoutForm
	CallbackURL string `json:"callback_url"`
}

// Checkout starts a payment. A JSON caller gets {reference, url} back and
// navigates itself; a plain form post is redirected to the hosted payment page.
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	formPost := isFormPost(r)
	if formPost {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeBadRequest(w, "Invalid form submission")
			return
		}
		req.Email = r.PostForm.Get("email")
		req.Phone = r.PostForm.Get("phone")
		req.CohortID = r.PostForm.Get("cohort_id")
		req.UniversityID = r.PostForm.Get("university_id")
		req.CallbackURL = r.PostForm.Get("callback_url")
	} else if err := decodeJSON(w, r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	result, err := h.checkout.Checkout(r.Context(), session.IDFromContext(r.Context()), req.CheckoutForm, req.CallbackURL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if formPost {
		http.Redirect(w, r, result.URL, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ClearSession forgets the stored transaction context of this browser session.
func (h *PaymentHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	h.cache.Clear(r.Context(), session.IDFromContext(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// Verify is called when the user returns from the hosted payment page.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	v, err := h.payments.Verify(r.Context(), session.IDFromContext(r.Context()), r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	reference := mux.Vars(r)["reference"]
	resp, err := h.payments.CheckStatus(r.Context(), reference)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reference": reference,
		"outcome":   resp.Outcome(),
		"status":    resp.Status,
		"message":   resp.Message,
		"data":      resp.Data,
	})
}

// Webhook relays the gateway callback to the backend and echoes its answer.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeBadRequest(w, "Invalid webhook payload")
		return
	}

	resp, err := h.payments.RelayWebhook(r.Context(), body, r.Header)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.Status)
	if _, err := w.Write(resp.Body); err != nil {
		slog.ErrorContext(r.Context(), "failed to write webhook response", "error", err)
	}
}
