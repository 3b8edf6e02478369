package models

// CheckoutForm is what the user typed on the checkout page. Phone is the local
// number without the country code.
type CheckoutForm struct {
	Email        string `json:"email" validate:"required"`
	Phone        string `json:"phone" validate:"required"`
	CohortID     string `json:"cohort_id" validate:"required"`
	UniversityID string `json:"university_id" validate:"required"`
}

// PaymentInitRequest is the body of POST /payment/initialise.
type PaymentInitRequest struct {
	PaymentReference string `json:"payment_reference"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	CohortID         int    `json:"cohort_id"`
	UniversityID     *int   `json:"university_id,omitempty"`
	CallbackURL      string `json:"callback_url,omitempty"`
}

type PaymentInitData struct {
	Reference  string `json:"reference"`
	URL        string `json:"url"`
	AccessCode string `json:"access_code"`
}

type PaymentInitResponse struct {
	Status  EnvelopeStatus  `json:"status"`
	Message string          `json:"message"`
	Data    PaymentInitData `json:"data"`
	// URL and PaymentURL are where older backend revisions put the redirect target.
	URL        string `json:"url,omitempty"`
	PaymentURL string `json:"paymentUrl,omitempty"`
}

// RedirectURL returns the hosted payment page the user must be sent to.
func (r PaymentInitResponse) RedirectURL() string {
	if r.Data.URL != "" {
		return r.Data.URL
	}
	if r.URL != "" {
		return r.URL
	}
	return r.PaymentURL
}
