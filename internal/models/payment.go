package models

import "strings"

type PaymentCustomer struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// PaymentStatus is the backend's record of a payment, the source of truth for
// whether a reference was paid. It is never mutated locally.
type PaymentStatus struct {
	Reference       string          `json:"reference"`
	Amount          float64         `json:"amount"`
	Currency        string          `json:"currency"`
	Status          string          `json:"status"`
	GatewayResponse string          `json:"gateway_response"`
	PaidAt          string          `json:"paid_at,omitempty"`
	CreatedAt       string          `json:"created_at,omitempty"`
	Customer        PaymentCustomer `json:"customer"`
}

// PaymentStatusResponse is the envelope of GET /payment/{reference}.
type PaymentStatusResponse struct {
	Status  EnvelopeStatus `json:"status"`
	Message string         `json:"message"`
	Data    *PaymentStatus `json:"data,omitempty"`
}

type PaymentOutcome string

const (
	OutcomeVerified PaymentOutcome = "verified"
	OutcomePending  PaymentOutcome = "pending"
	OutcomeFailed   PaymentOutcome = "failed"
	// OutcomeUnknown means no status could be obtained at all.
	OutcomeUnknown PaymentOutcome = "unknown"
)

// Outcome reduces the gateway status to verified, pending or failed.
func (r *PaymentStatusResponse) Outcome() PaymentOutcome {
	if r == nil || r.Data == nil {
		return OutcomePending
	}
	status := strings.ToLower(strings.TrimSpace(r.Data.Status))
	switch {
	case r.Status == StatusSuccess && status == "success":
		return OutcomeVerified
	case status == "failed" || status == "reversed" || status == "abandoned":
		return OutcomeFailed
	default:
		return OutcomePending
	}
}
