// Package services holds the checkout workflows: directory lookups, payment
// initiation, verification, account setup and the contact forms.
package services

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/markjakearzadon/rxmate-checkout/internal/apiclient"
	"github.com/markjakearzadon/rxmate-checkout/internal/metrics"
)

// Backend is the subset of the API client the workflows depend on.
type Backend interface {
	Get(ctx context.Context, endpoint string, out any) error
	Post(ctx context.Context, endpoint string, body, out any) error
	Ping(ctx context.Context) error
	Forward(ctx context.Context, method, endpoint string, body []byte, header http.Header) (*apiclient.Response, error)
}

type base struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(b *base)

func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		b.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *base) {
		b.metrics = m
	}
}

func newBase(opts []Option) base {
	b := base{logger: slog.Default()}
	for _, opt := range opts {
		opt(&b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}
