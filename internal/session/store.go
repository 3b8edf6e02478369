// Package session holds the per-browser-session transaction context that
// survives the redirect to the hosted payment page and back.
package session

import (
	"context"
	"errors"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

// ErrNotFound is returned by a Store when no context exists for a session.
var ErrNotFound = errors.New("transaction context not found")

// Store persists one TransactionContext per session id. Save replaces any
// previous record for the session (last write wins).
type Store interface {
	Save(ctx context.Context, sessionID string, tc models.TransactionContext) error
	Load(ctx context.Context, sessionID string) (*models.TransactionContext, error)
	Clear(ctx context.Context, sessionID string) error
}
