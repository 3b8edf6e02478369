package services

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
	"github.com/markjakearzadon/rxmate-checkout/internal/session"
)

const (
	DefaultAccountSetupPath = "/account/setup"

	msgAccountSetupFailed = "Account setup failed. Please try again."
	msgAccountCreated     = "Account created successfully."
)

// AccountService creates the student account once payment is settled.
type AccountService struct {
	base
	api       Backend
	cache     *session.Cache
	setupPath string
}

func NewAccountService(api Backend, cache *session.Cache, setupPath string, opts ...Option) *AccountService {
	if setupPath == "" {
		setupPath = DefaultAccountSetupPath
	}
	return &AccountService{base: newBase(opts), api: api, cache: cache, setupPath: setupPath}
}

type SetupResult struct {
	Reference string          `json:"reference,omitempty"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Setup submits the personal information form. The transaction context is
// cleared only after the backend accepted it, so a failed attempt can be retried.
func (s *AccountService) Setup(ctx context.Context, sessionID string, form models.AccountSetupForm, query url.Values) (*SetupResult, error) {
	form = models.AccountSetupForm{
		FirstName:    strings.TrimSpace(form.FirstName),
		LastName:     strings.TrimSpace(form.LastName),
		WhatsApp:     strings.TrimSpace(form.WhatsApp),
		UniversityID: strings.TrimSpace(form.UniversityID),
	}
	if err := validateStruct(form); err != nil {
		s.metrics.IncAccountSetup("invalid")
		return nil, err
	}

	whatsapp, err := NormalizePhone(form.WhatsApp)
	if err != nil {
		s.metrics.IncAccountSetup("invalid")
		return nil, &ValidationError{Fields: []string{"whatsapp"}, Message: err.Error(), Err: err}
	}
	universityID, err := strconv.Atoi(form.UniversityID)
	if err != nil {
		s.metrics.IncAccountSetup("invalid")
		return nil, &ValidationError{Fields: []string{"university_id"}, Message: msgInvalidUniversity, Err: err}
	}

	ref, source := ResolveReference(query, s.cache.Load(ctx, sessionID))
	if source == SourceNone {
		s.logger.WarnContext(ctx, "account setup without a payment reference")
	}

	req := models.AccountSetupRequest{
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		UniversityID:    universityID,
		WhatsAppContact: whatsapp,
		Reference:       ref,
	}
	var resp models.AccountSetupResponse
	if err := s.api.Post(ctx, s.setupPath, req, &resp); err != nil {
		se := Describe(err)
		s.metrics.IncAccountSetup(string(se.Category))
		s.logger.ErrorContext(ctx, "account setup failed", "reference", ref, "category", se.Category, "status", se.Status, "error", err)
		return nil, se
	}
	if resp.Status != "" && resp.Status != models.StatusSuccess {
		s.metrics.IncAccountSetup("rejected")
		s.logger.ErrorContext(ctx, "account setup rejected", "reference", ref, "status", resp.Status, "message", resp.Message)
		return nil, &ServiceError{Category: CategoryServer, Message: orDefault(resp.Message, msgAccountSetupFailed)}
	}

	s.cache.Clear(ctx, sessionID)
	s.metrics.IncAccountSetup("success")
	s.logger.InfoContext(ctx, "account created", "reference", ref, "source", source)

	return &SetupResult{Reference: ref, Message: orDefault(resp.Message, msgAccountCreated), Data: resp.Data}, nil
}
