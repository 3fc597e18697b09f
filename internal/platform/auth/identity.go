// Package auth resolves the caller's identity from transport credentials.
// Resolution failure is never an error: a missing or invalid token yields
// the anonymous identity and route-level logic decides what anonymous
// callers may do. Handlers read the identity once and thread it as an
// explicit parameter into services; nothing below the transport layer
// reaches back into ambient request state.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the resolved caller: a user, their session, and the tenant
// organization the session belongs to. The zero value is anonymous.
type Identity struct {
	UserID         string
	SessionID      string
	OrganizationID string
}

// Anonymous reports whether no identity was resolved for the request.
func (id Identity) Anonymous() bool { return id.UserID == "" }

// Claims is the session-token payload issued by the identity provider.
type Claims struct {
	jwt.RegisteredClaims
	SessionID      string `json:"sid"`
	OrganizationID string `json:"org_id"`
}

// Middleware resolves an Identity from the Authorization bearer token and
// stores it on the request context. Requests without a valid token proceed
// as anonymous. An empty secret disables verification entirely (every
// request is anonymous); config.Validate forbids that in production.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident := resolve(c.Request(), secret)

			ctx := context.WithValue(c.Request().Context(), identityKey, ident)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func resolve(req *http.Request, secret []byte) Identity {
	if len(secret) == 0 {
		return Identity{}
	}

	header := req.Header.Get("Authorization")
	if header == "" {
		return Identity{}
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return Identity{}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return Identity{}
	}

	return Identity{
		UserID:         claims.Subject,
		SessionID:      claims.SessionID,
		OrganizationID: claims.OrganizationID,
	}
}

// FromRequest returns the identity resolved for the request, anonymous when
// the middleware did not run or resolution failed.
func FromRequest(c echo.Context) Identity {
	return FromContext(c.Request().Context())
}

// FromContext returns the identity stored on ctx.
func FromContext(ctx context.Context) Identity {
	ident, _ := ctx.Value(identityKey).(Identity)
	return ident
}

// SignToken issues a session token for the given identity. Used by tests and
// the development tooling; production tokens come from the identity provider.
func SignToken(secret []byte, ident Identity, ttl time.Duration) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ident.UserID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		SessionID:      ident.SessionID,
		OrganizationID: ident.OrganizationID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}
