// Package auth validates the bearer credential on the chat endpoint and
// extracts the caller's user_id from it. Issuance of these credentials is
// out of scope (spec.md §1, §6 "Validation details out of scope") — this
// package only ever reads claims out of a token someone else signed.
package auth

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// Claims is the minimal claim set this service reads from a bearer token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

const contextKey = "user"

// errMissingUserID is returned by UserID when the token validated but
// carries no non-empty userId claim — treated the same as an invalid
// credential by the caller (spec.md §4.6 step 1: missing/invalid → 401).
var errMissingUserID = errors.New("auth: token carries no user id claim")

// Middleware returns an echo.MiddlewareFunc that validates the
// Authorization: Bearer header against secretKey and stores the parsed
// token in the request context for UserID to read, matching the teacher's
// echojwt.WithConfig wiring (auth_handlers.go) but trimmed to validation
// only — no login/registration/session endpoints, since this service
// never issues credentials.
func Middleware(secretKey string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		SigningKey:  []byte(secretKey),
		ContextKey:  contextKey,
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credential")
		},
	})
}

// UserID reads the authenticated caller's user_id out of the context a
// prior Middleware call populated. Callers must only invoke this behind
// Middleware.
func UserID(c echo.Context) (string, error) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok || token == nil {
		return "", errMissingUserID
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", errMissingUserID
	}
	return claims.UserID, nil
}
