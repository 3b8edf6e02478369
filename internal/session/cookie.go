package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName carries the signed session id.
	CookieName = "rx_session"
	issuer     = "rxmate-checkout"
)

type contextKey struct{}

// Manager issues and verifies the session cookie. The cookie has no Expires
// attribute so the browser drops it with the session; the signed token also
// carries its own expiry.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secure bool, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure, logger: logger, now: time.Now}
}

// Issue returns a signed token for a new session id.
func (m *Manager) Issue() (sessionID, token string, err error) {
	sessionID = uuid.NewString()
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign session token: %w", err)
	}
	return sessionID, token, nil
}

// Parse verifies a token and returns the session id it carries.
func (m *Manager) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", err
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errors.New("session token subject is not a session id")
	}
	return claims.Subject, nil
}

// Middleware makes sure every request carries a session id, issuing a fresh
// cookie when the request has none or an invalid one.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(CookieName); err == nil {
			if sid, err := m.Parse(c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
				return
			}
			m.logger.DebugContext(r.Context(), "discarding invalid session cookie")
		}

		sid, token, err := m.Issue()
		if err != nil {
			m.logger.ErrorContext(r.Context(), "failed to issue session", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			Secure:   m.secure,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), sid)))
	})
}

func WithID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, contextKey{}, sessionID)
}

// IDFromContext returns the session id, or "" outside a session.
func IDFromContext(ctx context.Context) string {
	sid, _ := ctx.Value(contextKey{}).(string)
	return sid
}
