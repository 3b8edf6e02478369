package models

import "encoding/json"

// AccountSetupForm is the post-payment personal information form. WhatsApp is
// the local number without the country code.
type AccountSetupForm struct {
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name" validate:"required"`
	WhatsApp     string `json:"whatsapp" validate:"required"`
	UniversityID string `json:"university_id" validate:"required"`
}

type AccountSetupRequest struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	UniversityID    int    `json:"university_id"`
	WhatsAppContact string `json:"whatsapp_contact"`
	Reference       string `json:"reference,omitempty"`
}

type AccountSetupResponse struct {
	Status  EnvelopeStatus  `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
