package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/commerce/pkg/tokens"
)

var secret = []byte("test-jwt-secret")

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": c.Get(ContextUserID),
		"role":    c.Get(ContextRole),
	})
}

func newCtx(t *testing.T, setup func(r *http.Request)) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if setup != nil {
		setup(req)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func mustToken(t *testing.T, role string, exp time.Time) (string, string) {
	t.Helper()
	sub := uuid.NewString()
	tok, err := tokens.NewAccessToken(sub, role, exp, secret)
	require.NoError(t, err)
	return sub, tok
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}

func TestRequireAuth_MissingToken(t *testing.T) {
	m := NewTokenAuth(secret)
	c, _ := newCtx(t, nil)

	err := m.RequireAuth(okHandler)(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	m := NewTokenAuth(secret)
	sub, tok := mustToken(t, tokens.RoleUser, time.Now().Add(time.Minute))
	c, rec := newCtx(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	})

	require.NoError(t, m.RequireAuth(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sub, c.Get(ContextUserID))
	assert.Equal(t, tokens.RoleUser, c.Get(ContextRole))
}

func TestRequireAuth_Cookie(t *testing.T) {
	m := NewTokenAuth(secret)
	sub, tok := mustToken(t, tokens.RoleUser, time.Now().Add(time.Minute))
	c, _ := newCtx(t, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "accessToken", Value: tok})
	})

	require.NoError(t, m.RequireAuth(okHandler)(c))
	assert.Equal(t, sub, c.Get(ContextUserID))
}

func TestRequireAuth_Expired(t *testing.T) {
	m := NewTokenAuth(secret)
	_, tok := mustToken(t, tokens.RoleUser, time.Now().Add(-time.Minute))
	c, _ := newCtx(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	})

	err := m.RequireAuth(okHandler)(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, err))
}

func TestRequireAdmin(t *testing.T) {
	m := NewTokenAuth(secret)

	_, userTok := mustToken(t, tokens.RoleUser, time.Now().Add(time.Minute))
	c, _ := newCtx(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+userTok)
	})
	err := m.RequireAdmin(okHandler)(c)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, httpCode(t, err))

	_, adminTok := mustToken(t, tokens.RoleAdmin, time.Now().Add(time.Minute))
	c, rec := newCtx(t, func(r *http.Request) {
		r.Header.Set(echo.HeaderAuthorization, "Bearer "+adminTok)
	})
	require.NoError(t, m.RequireAdmin(okHandler)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
