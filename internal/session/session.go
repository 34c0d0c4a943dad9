// Package session maps HTTP requests onto the session that owns a pending token.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/darmiel/checkin/internal/config"
	"github.com/darmiel/checkin/internal/core"
)

// Resolver returns the session for a request, creating one if necessary.
type Resolver interface {
	Resolve(w http.ResponseWriter, r *http.Request) (core.SessionID, error)
}

// Fixed puts every request into the same session.
// This is the single-kiosk deployment: the screen issuing tokens and the phone
// scanning them share one pending slot.
type Fixed struct {
	id core.SessionID
}

func NewFixed(id string) *Fixed {
	return &Fixed{id: core.SessionID(id)}
}

func (f *Fixed) Resolve(http.ResponseWriter, *http.Request) (core.SessionID, error) {
	return f.id, nil
}

var cookieValuePattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Cookie gives each browser its own random session, kept in an HttpOnly cookie.
type Cookie struct {
	name   string
	secure bool
}

func NewCookie(name string, secure bool) *Cookie {
	return &Cookie{name: name, secure: secure}
}

func (c *Cookie) Resolve(w http.ResponseWriter, r *http.Request) (core.SessionID, error) {
	if existing, err := r.Cookie(c.name); err == nil && cookieValuePattern.MatchString(existing.Value) {
		return core.SessionID(existing.Value), nil
	}

	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session id: %w", err)
	}
	id := hex.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     c.name,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return core.SessionID(id), nil
}

// FromConfig builds the resolver selected in cfg.
func FromConfig(cfg config.SessionConfig) (Resolver, error) {
	switch cfg.Mode {
	case config.SessionModeFixed, "":
		return NewFixed(cfg.FixedID), nil
	case config.SessionModeCookie:
		return NewCookie(cfg.CookieName, cfg.Secure), nil
	default:
		return nil, fmt.Errorf("unknown session mode '%s'", cfg.Mode)
	}
}

type ctxKey struct{}

// FromContext returns the session attached by Middleware.
func FromContext(ctx context.Context) (core.SessionID, bool) {
	id, ok := ctx.Value(ctxKey{}).(core.SessionID)
	return id, ok
}

// WithSession returns a copy of ctx carrying id.
func WithSession(ctx context.Context, id core.SessionID) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Middleware resolves the session for every request and stores it in the request context.
func Middleware(resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := resolver.Resolve(w, r)
			if err != nil {
				log.Ctx(r.Context()).Error().Err(err).Msg("failed to resolve session")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), id)))
		})
	}
}
