package services

import (
	"context"
	"strings"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

const (
	contactEndpoint    = "/api/contact"
	newsletterEndpoint = "/api/newsletter/subscribe"
)

// ContactService relays the landing page contact form and newsletter sign-ups.
type ContactService struct {
	base
	api Backend
}

func NewContactService(api Backend, opts ...Option) *ContactService {
	return &ContactService{base: newBase(opts), api: api}
}

func (s *ContactService) SubmitContact(ctx context.Context, msg models.ContactMessage) (*models.Acknowledgement, error) {
	msg = models.ContactMessage{
		Name:    strings.TrimSpace(msg.Name),
		Email:   strings.ToLower(strings.TrimSpace(msg.Email)),
		Message: strings.TrimSpace(msg.Message),
		Phone:   strings.TrimSpace(msg.Phone),
	}
	if err := validateStruct(msg); err != nil {
		return nil, err
	}
	return s.submit(ctx, contactEndpoint, msg)
}

func (s *ContactService) Subscribe(ctx context.Context, sub models.NewsletterSubscription) (*models.Acknowledgement, error) {
	sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
	if err := validateStruct(sub); err != nil {
		return nil, err
	}
	return s.submit(ctx, newsletterEndpoint, sub)
}

func (s *ContactService) submit(ctx context.Context, endpoint string, body any) (*models.Acknowledgement, error) {
	var ack models.Acknowledgement
	if err := s.api.Post(ctx, endpoint, body, &ack); err != nil {
		se := Describe(err)
		s.logger.ErrorContext(ctx, "submission failed", "endpoint", endpoint, "category", se.Category, "error", err)
		return nil, se
	}
	if !ack.Success && ack.Message == "" {
		// backend answered 2xx without the usual body
		ack.Success = true
	}
	s.logger.InfoContext(ctx, "submission accepted", "endpoint", endpoint)
	return &ack, nil
}
