package models

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
	Phone   string `json:"phone,omitempty"`
}

type NewsletterSubscription struct {
	Email string `json:"email" validate:"required,email"`
}

// Acknowledgement is the backend's generic reply to a submission.
type Acknowledgement struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
