package identity

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/darmiel/checkin/internal/core"
)

const presenterAudience = "checkin:presenter"

var (
	ErrNoPresenterSession = errors.New("no presenter session")
	ErrInvalidSession     = errors.New("invalid presenter session")
)

var _ core.IdentityResolver = (*JWT)(nil)

// JWT resolves the presenter from an HS256-signed session token carried in the
// Authorization header or a cookie. The subject claim is the presenter identity.
type JWT struct {
	signingKey []byte
	cookieName string
}

func NewJWT(signingKey []byte, cookieName string) *JWT {
	return &JWT{
		signingKey: signingKey,
		cookieName: cookieName,
	}
}

func (j *JWT) Name() string {
	return "jwt"
}

func (j *JWT) Resolve(r *http.Request) (string, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
	if raw == "" && j.cookieName != "" {
		if c, err := r.Cookie(j.cookieName); err == nil {
			raw = c.Value
		}
	}
	if raw == "" {
		return "", ErrNoPresenterSession
	}

	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return j.signingKey, nil
	},
		jwt.WithAudience(presenterAudience),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidSession)
	}
	return sub, nil
}

// Sign creates a presenter session token for identity valid for ttl.
func (j *JWT) Sign(identity string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   identity,
		Audience:  jwt.ClaimStrings{presenterAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.signingKey)
}
