package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestUserID_ReadsClaimFromContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/chat/u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u1"})
	c.Set(contextKey, token)

	userID, err := UserID(c)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
}

func TestUserID_MissingTokenIsError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/chat/u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	_, err := UserID(c)
	require.Error(t, err)
}

func TestUserID_EmptyClaimIsError(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/chat/u1", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{})
	c.Set(contextKey, token)

	_, err := UserID(c)
	require.Error(t, err)
}
