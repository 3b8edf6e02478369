package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/markjakearzadon/rxmate-checkout/internal/metrics"
	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

// Cache applies the best-effort policy on top of a Store: losing the cached
// context only costs pre-fill convenience, so failures are logged and dropped.
type Cache struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type CacheOption func(c *Cache)

func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) CacheOption {
	return func(c *Cache) {
		c.metrics = m
	}
}

func NewCache(store Store, opts ...CacheOption) *Cache {
	c := &Cache{store: store, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save records the context for a freshly initiated payment.
func (c *Cache) Save(ctx context.Context, sessionID, reference string, form models.FormSnapshot, cohort *models.Cohort) {
	if sessionID == "" {
		c.logger.WarnContext(ctx, "no session, transaction context not stored", "reference", reference)
		return
	}
	tc := models.TransactionContext{
		Reference: reference,
		Form:      form,
		Cohort:    cohort,
		Timestamp: c.now().UTC(),
	}
	if err := c.store.Save(ctx, sessionID, tc); err != nil {
		c.metrics.IncCacheFailure("save")
		c.logger.WarnContext(ctx, "failed to store transaction context", "reference", reference, "error", err)
	}
}

// Load returns the stored context or nil when there is none or it cannot be read.
func (c *Cache) Load(ctx context.Context, sessionID string) *models.TransactionContext {
	if sessionID == "" {
		return nil
	}
	tc, err := c.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.metrics.IncCacheFailure("load")
			c.logger.WarnContext(ctx, "failed to read transaction context", "error", err)
		}
		return nil
	}
	return tc
}

func (c *Cache) Clear(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := c.store.Clear(ctx, sessionID); err != nil {
		c.metrics.IncCacheFailure("clear")
		c.logger.WarnContext(ctx, "failed to clear transaction context", "error", err)
	}
}
