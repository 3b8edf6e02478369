// Package handlers exposes the checkout workflows over HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"

	"github.com/markjakearzadon/rxmate-checkout/internal/services"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError renders err as {"error": category, "message": text}. Backend and
// transport failures answer 502 since the fault is upstream of this service.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: string(services.CategoryValidation), Message: ve.Message, Fields: ve.Fields})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: string(services.CategoryNotFound), Message: "The requested record does not exist."})
		return
	}

	se := services.Describe(err)
	status := http.StatusBadGateway
	switch se.Category {
	case services.CategoryValidation:
		status = http.StatusBadRequest
	case services.CategoryNotFound:
		status = http.StatusNotFound
	}
	slog.WarnContext(r.Context(), "request failed", "path", r.URL.Path, "category", se.Category, "error", err)
	writeJSON(w, status, errorBody{Error: string(se.Category), Message: se.Message})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: string(services.CategoryValidation), Message: message})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// isFormPost reports whether the request came from a plain HTML form, which
// expects a redirect rather than JSON.
func isFormPost(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded" || mediaType == "multipart/form-data"
}
