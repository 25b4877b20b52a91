// Package auth resolves the calling user from an HS256 bearer token whose
// subject is the user id. Token issuance happens elsewhere.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/envelope/internal/http/response"
)

type ctxKey struct{}

var errNoToken = errors.New("missing bearer token")

type Authenticator struct {
	secret []byte
}

func New(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Middleware rejects requests without a valid token and stores the user id
// in the request context. The access_token query parameter is accepted for
// clients that cannot set headers, such as EventSource.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearer(r)
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		userID, err := a.Verify(raw)
		if err != nil {
			response.Unauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
	})
}

// Verify validates raw and returns the user id held in its subject.
func (a *Authenticator) Verify(raw string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(claims.Subject)
}

// Sign issues a token for userID. It exists for tests and local tooling.
func (a *Authenticator) Sign(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString(a.secret)
}

func bearer(r *http.Request) (string, error) {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return "", errors.New("malformed authorization header")
		}

		return strings.TrimSpace(token), nil
	}

	if token := r.URL.Query().Get("access_token"); token != "" {
		return token, nil
	}

	return "", errNoToken
}

func WithUser(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the authenticated user of ctx. Handlers behind Middleware
// always have one.
func UserID(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(ctxKey{}).(uuid.UUID)
	return id
}
