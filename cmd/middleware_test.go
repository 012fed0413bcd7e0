package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matesfu/Mela-rent/internal/handlers"
	"github.com/Matesfu/Mela-rent/internal/models"
)

type stubAuth struct {
	tokens   map[string]models.Caller
	sessions map[string]string
}

func (s stubAuth) Authenticate(token string) (models.Caller, error) {
	if c, ok := s.tokens[token]; ok {
		return c, nil
	}
	return models.Caller{}, fmt.Errorf("%w: given token not valid for any token type", models.ErrUnauthenticated)
}

func (s stubAuth) Refresh(_ context.Context, refresh string) (models.Tokens, error) {
	if access, ok := s.sessions[refresh]; ok {
		return models.Tokens{AccessToken: access, RefreshToken: refresh}, nil
	}
	return models.Tokens{}, fmt.Errorf("%w: token is invalid or expired", models.ErrUnauthenticated)
}

func newTestApp() *application {
	owner := models.Caller{ID: 1, Role: models.RoleOwner, Authenticated: true}
	admin := models.Caller{ID: 2, Role: models.RoleAdmin, Authenticated: true}
	quiet := log.New(io.Discard, "", 0)
	return &application{
		infoLog:  quiet,
		errorLog: quiet,
		auth: stubAuth{
			tokens:   map[string]models.Caller{"owner-token": owner, "admin-token": admin, "fresh-token": owner},
			sessions: map[string]string{"good-refresh": "fresh-token"},
		},
	}
}

// echoCaller writes the caller the handler saw.
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	c := handlers.CallerFrom(r)
	fmt.Fprintf(w, "%d:%s:%t", c.ID, c.Role, c.Authenticated)
})

func serve(h http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRequireAuth(t *testing.T) {
	app := newTestApp()
	h := app.requireAuth(echoCaller)

	rr := serve(h, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(h, map[string]string{"Authorization": "Token owner-token"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = serve(h, map[string]string{"Authorization": "Bearer owner-token"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "1:OWNER:true", rr.Body.String())
}

func TestRequireAuthRefreshFallback(t *testing.T) {
	app := newTestApp()
	h := app.requireAuth(echoCaller)

	rr := serve(h, map[string]string{"Authorization": "Bearer expired", "Refresh-Token": "good-refresh"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bearer fresh-token", rr.Header().Get("Authorization"))
	assert.Equal(t, "1:OWNER:true", rr.Body.String())

	rr = serve(h, map[string]string{"Authorization": "Bearer expired", "Refresh-Token": "stale"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestOptionalAuth(t *testing.T) {
	app := newTestApp()
	h := app.optionalAuth(echoCaller)

	rr := serve(h, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "0::false", rr.Body.String())

	rr = serve(h, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRole(t *testing.T) {
	app := newTestApp()
	h := app.requireAuth(app.requireRole(models.RoleAdmin)(echoCaller))

	rr := serve(h, map[string]string{"Authorization": "Bearer owner-token"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = serve(h, map[string]string{"Authorization": "Bearer admin-token"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequestIDAndRecover(t *testing.T) {
	app := newTestApp()
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
	h := app.recoverPanic(requestID(app.logRequest(panicky)))

	rr := serve(h, map[string]string{"X-Request-ID": "abc-123"})
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))

	rr = serve(requestID(echoCaller), nil)
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
