package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
	"github.com/markjakearzadon/rxmate-checkout/internal/session"
)

const initialiseEndpoint = "/payment/initialise"

// CohortFinder resolves the cohort a checkout form points at.
type CohortFinder interface {
	FindCohort(ctx context.Context, id string) (*models.Cohort, error)
}

type CheckoutConfig struct {
	// Precheck probes the backend before initiating so an outage surfaces as
	// a connectivity error instead of a slow timeout.
	Precheck bool
	// CallbackURL is sent when the caller does not supply one.
	CallbackURL string
}

// CheckoutService hands a checkout attempt to the payment gateway.
type CheckoutService struct {
	base
	api     Backend
	cohorts CohortFinder
	cache   *session.Cache
	refs    *ReferenceGenerator
	cfg     CheckoutConfig
}

func NewCheckoutService(api Backend, cohorts CohortFinder, cache *session.Cache, cfg CheckoutConfig, opts ...Option) *CheckoutService {
	return &CheckoutService{
		base:    newBase(opts),
		api:     api,
		cohorts: cohorts,
		cache:   cache,
		refs:    NewReferenceGenerator(),
		cfg:     cfg,
	}
}

// InitResult is where the browser must be sent next.
type InitResult struct {
	Reference  string `json:"reference"`
	URL        string `json:"url"`
	AccessCode string `json:"access_code,omitempty"`
}

// Checkout validates the form, resolves its cohort from the directory and
// initiates payment for it. The directory is only consulted once the form
// passes every local check.
func (s *CheckoutService) Checkout(ctx context.Context, sessionID string, form models.CheckoutForm, callbackURL string) (*InitResult, error) {
	form = trimCheckoutForm(form)
	if _, err := checkForm(form); err != nil {
		s.metrics.IncCheckout("invalid")
		return nil, err
	}

	cohort, err := s.cohorts.FindCohort(ctx, form.CohortID)
	if errors.Is(err, ErrNotFound) {
		s.metrics.IncCheckout("invalid")
		return nil, &ValidationError{Fields: []string{"cohort_id"}, Message: msgInvalidCohort, Err: err}
	}
	if err != nil {
		s.metrics.IncCheckout("error")
		s.logger.ErrorContext(ctx, "failed to resolve cohort", "cohort_id", form.CohortID, "error", err)
		return nil, Describe(err)
	}
	return s.Initiate(ctx, sessionID, form, cohort, callbackURL)
}

// Initiate runs one payment initiation attempt for an already resolved
// cohort. Every attempt uses a fresh reference.
func (s *CheckoutService) Initiate(ctx context.Context, sessionID string, form models.CheckoutForm, cohort *models.Cohort, callbackURL string) (*InitResult, error) {
	req, err := s.buildRequest(form, cohort)
	if err != nil {
		s.metrics.IncCheckout("invalid")
		return nil, err
	}

	if s.cfg.Precheck {
		if err := s.api.Ping(ctx); err != nil {
			s.metrics.IncCheckout("unreachable")
			s.logger.ErrorContext(ctx, "payment service connectivity check failed", "error", err)
			return nil, &ServiceError{Category: CategoryNetwork, Message: msgUnreachable, Err: err}
		}
	}

	ref, err := s.refs.Next()
	if err != nil {
		s.metrics.IncCheckout("error")
		return nil, Describe(err)
	}
	req.PaymentReference = ref
	req.CallbackURL = callbackURL
	if req.CallbackURL == "" {
		req.CallbackURL = s.cfg.CallbackURL
	}

	s.logger.InfoContext(ctx, "initiating payment", "reference", ref, "cohort_id", req.CohortID, "amount", cohort.CurrentPrice, "currency", cohort.Currency)

	var resp models.PaymentInitResponse
	if err := s.api.Post(ctx, initialiseEndpoint, req, &resp); err != nil {
		se := Describe(err)
		s.metrics.IncCheckout(string(se.Category))
		s.logger.ErrorContext(ctx, "payment initiation failed", "reference", ref, "category", se.Category, "status", se.Status, "error", err)
		return nil, se
	}

	target := resp.RedirectURL()
	if target == "" {
		s.metrics.IncCheckout("no_url")
		s.logger.ErrorContext(ctx, "payment initiation returned no redirect URL", "reference", ref, "status", resp.Status, "message", resp.Message)
		return nil, &ServiceError{Category: CategoryServer, Message: msgNoRedirectURL}
	}

	s.cache.Save(ctx, sessionID, ref, models.SnapshotForm(form), cohort)
	s.metrics.IncCheckout("success")
	s.logger.InfoContext(ctx, "payment initiated", "reference", ref)

	return &InitResult{Reference: ref, URL: target, AccessCode: resp.Data.AccessCode}, nil
}

// buildRequest performs every local check so that invalid input never
// reaches the network.
func (s *CheckoutService) buildRequest(form models.CheckoutForm, cohort *models.Cohort) (models.PaymentInitRequest, error) {
	req, err := checkForm(trimCheckoutForm(form))
	if err != nil {
		return models.PaymentInitRequest{}, err
	}
	if cohort == nil || cohort.CurrentPrice <= 0 {
		return models.PaymentInitRequest{}, &ValidationError{Fields: []string{"cohort_id"}, Message: msgMissingPrice, Err: ErrCohortUnavailable}
	}
	return req, nil
}

// checkForm runs the checks that need nothing but the form itself and
// returns the request they produce. The form must already be trimmed.
func checkForm(form models.CheckoutForm) (models.PaymentInitRequest, error) {
	if err := validateStruct(form); err != nil {
		return models.PaymentInitRequest{}, err
	}

	phone, err := NormalizePhone(form.Phone)
	if err != nil {
		return models.PaymentInitRequest{}, &ValidationError{Fields: []string{"phone"}, Message: err.Error(), Err: err}
	}

	cohortID, err := strconv.Atoi(form.CohortID)
	if err != nil {
		return models.PaymentInitRequest{}, &ValidationError{Fields: []string{"cohort_id"}, Message: msgInvalidCohort, Err: err}
	}

	req := models.PaymentInitRequest{
		Phone:    phone,
		Email:    strings.ToLower(form.Email),
		CohortID: cohortID,
	}
	if universityID, err := strconv.Atoi(form.UniversityID); err == nil {
		req.UniversityID = &universityID
	}
	return req, nil
}

func trimCheckoutForm(f models.CheckoutForm) models.CheckoutForm {
	return models.CheckoutForm{
		Email:        strings.TrimSpace(f.Email),
		Phone:        strings.TrimSpace(f.Phone),
		CohortID:     strings.TrimSpace(f.CohortID),
		UniversityID: strings.TrimSpace(f.UniversityID),
	}
}
