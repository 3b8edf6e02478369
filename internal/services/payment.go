package services

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/markjakearzadon/rxmate-checkout/internal/apiclient"
	"github.com/markjakearzadon/rxmate-checkout/internal/models"
	"github.com/markjakearzadon/rxmate-checkout/internal/session"
)

const (
	paymentEndpoint = "/payment/"
	webhookEndpoint = "/payment/webhook"

	// SignatureHeader authenticates gateway callbacks; the backend checks it.
	SignatureHeader = "X-Paystack-Signature"

	msgNoPayment        = "No payment found for this session. You can still continue with your account setup."
	msgStoredUnverified = "We could not confirm your payment right now. You can continue and we will verify it shortly."
	msgPaymentPending   = "Your payment is still being processed. Please wait a moment and refresh."
	msgPaymentFailed    = "Your payment was not successful. Please try again."
	msgMissingReference = "Payment reference is required"
)

// ReferenceParams are the query parameters the gateway may use to hand the
// reference back on return navigation, in priority order.
var ReferenceParams = []string{"reference", "trxref", "payment_reference"}

// ReferenceSource says where a verified reference came from.
type ReferenceSource string

const (
	SourceURL    ReferenceSource = "url"
	SourceStored ReferenceSource = "stored"
	SourceNone   ReferenceSource = "none"
)

// Prefill seeds the account setup form.
type Prefill struct {
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	UniversityID string `json:"university_id,omitempty"`
}

// Verification is the answer to "may this user continue to account setup".
type Verification struct {
	Reference  string                `json:"reference,omitempty"`
	Source     ReferenceSource       `json:"source"`
	Outcome    models.PaymentOutcome `json:"outcome"`
	Verified   bool                  `json:"verified"`
	CanProceed bool                  `json:"can_proceed"`
	Advisory   string                `json:"advisory,omitempty"`
	Payment    *models.PaymentStatus `json:"payment,omitempty"`
	Prefill    Prefill               `json:"prefill"`
}

// PaymentService checks payments against the backend, which is the only
// source of truth for whether a reference was paid.
type PaymentService struct {
	base
	api   Backend
	cache *session.Cache
}

func NewPaymentService(api Backend, cache *session.Cache, opts ...Option) *PaymentService {
	return &PaymentService{base: newBase(opts), api: api, cache: cache}
}

// CheckStatus fetches the backend record for reference.
func (s *PaymentService) CheckStatus(ctx context.Context, reference string) (*models.PaymentStatusResponse, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, &ValidationError{Fields: []string{"reference"}, Message: msgMissingReference}
	}
	var resp models.PaymentStatusResponse
	if err := s.api.Get(ctx, paymentEndpoint+url.PathEscape(reference), &resp); err != nil {
		se := Describe(err)
		if se.Category == CategoryNotFound {
			se.Message = msgPaymentNotFound
		}
		return nil, se
	}
	return &resp, nil
}

// ResolveReference picks the reference to verify: one carried on the return
// URL wins over the one stored when the payment was initiated.
func ResolveReference(query url.Values, stored *models.TransactionContext) (string, ReferenceSource) {
	for _, key := range ReferenceParams {
		if ref := strings.TrimSpace(query.Get(key)); ref != "" {
			return ref, SourceURL
		}
	}
	if stored != nil && strings.TrimSpace(stored.Reference) != "" {
		return strings.TrimSpace(stored.Reference), SourceStored
	}
	return "", SourceNone
}

// Verify decides whether the returning user may proceed. Without any
// reference the user proceeds unverified. A failed check of a stored
// reference is tolerated; a failed check of a URL reference is returned.
func (s *PaymentService) Verify(ctx context.Context, sessionID string, query url.Values) (*Verification, error) {
	stored := s.cache.Load(ctx, sessionID)
	ref, source := ResolveReference(query, stored)
	if source == SourceURL && stored != nil && stored.Reference != ref {
		// cached form belongs to another attempt
		stored = nil
	}

	v := &Verification{Reference: ref, Source: source}
	if source == SourceNone {
		v.Outcome = models.OutcomeUnknown
		v.CanProceed = true
		v.Advisory = msgNoPayment
		v.Prefill = buildPrefill(nil, stored)
		s.metrics.IncVerification(string(v.Outcome), string(source))
		s.logger.InfoContext(ctx, "no payment reference to verify")
		return v, nil
	}

	resp, err := s.CheckStatus(ctx, ref)
	if err != nil {
		if source == SourceURL {
			s.metrics.IncVerification("error", string(source))
			s.logger.ErrorContext(ctx, "payment verification failed", "reference", ref, "error", err)
			return nil, err
		}
		s.logger.WarnContext(ctx, "stored payment reference could not be verified, continuing", "reference", ref, "error", err)
		v.Outcome = models.OutcomePending
		v.CanProceed = true
		v.Advisory = msgStoredUnverified
		v.Prefill = buildPrefill(nil, stored)
		s.metrics.IncVerification(string(v.Outcome), string(source))
		return v, nil
	}

	v.Outcome = resp.Outcome()
	v.Verified = v.Outcome == models.OutcomeVerified
	v.CanProceed = v.Verified
	v.Payment = resp.Data
	switch v.Outcome {
	case models.OutcomePending:
		v.Advisory = msgPaymentPending
	case models.OutcomeFailed:
		v.Advisory = msgPaymentFailed
	}
	v.Prefill = buildPrefill(resp.Data, stored)
	s.metrics.IncVerification(string(v.Outcome), string(source))
	s.logger.InfoContext(ctx, "payment verified", "reference", ref, "source", source, "outcome", v.Outcome)
	return v, nil
}

// RelayWebhook passes a gateway callback through to the backend untouched and
// returns the backend's answer.
func (s *PaymentService) RelayWebhook(ctx context.Context, body []byte, header http.Header) (*apiclient.Response, error) {
	forward := http.Header{}
	forward.Set("Content-Type", "application/json")
	if sig := header.Get(SignatureHeader); sig != "" {
		forward.Set(SignatureHeader, sig)
	}
	resp, err := s.api.Forward(ctx, http.MethodPost, webhookEndpoint, body, forward)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to relay payment webhook", "error", err)
		return nil, Describe(err)
	}
	s.logger.InfoContext(ctx, "payment webhook relayed", "status", resp.Status)
	return resp, nil
}

func buildPrefill(payment *models.PaymentStatus, stored *models.TransactionContext) Prefill {
	var p Prefill
	if payment != nil {
		p.Email = payment.Customer.Email
		p.Phone = LocalPhone(payment.Customer.Phone)
	}
	if stored != nil {
		if p.Email == "" {
			p.Email = stored.Form.Email
		}
		if p.Phone == "" {
			p.Phone = LocalPhone(stored.Form.Phone)
		}
		p.UniversityID = stored.Form.UniversityID
	}
	return p
}
