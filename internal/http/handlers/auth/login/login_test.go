package login

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizzosai/domain-backoffice/internal/lib/jwt"
	"github.com/rizzosai/domain-backoffice/internal/services/customer"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

type serviceStub struct {
	identity *customer.Identity
	err      error
}

func (s *serviceStub) Authenticate(_ context.Context, _, _ string) (*customer.Identity, error) {
	return s.identity, s.err
}

type bansStub struct {
	banned map[string]bool
}

func (b *bansStub) IsBanned(_ context.Context, userID string) bool {
	return b.banned[userID]
}

func newHandler(t *testing.T, svc Service, bans Bans) *Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	maker := jwt.NewMaker("test-secret", time.Hour)
	return New(log, svc, bans, maker, "backoffice_session", time.Hour, web.MustNew())
}

func formRequest(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestSubmit_Success(t *testing.T) {
	svc := &serviceStub{identity: &customer.Identity{
		UserID: "u@example.com", Username: "testuser", Role: customer.RoleCustomer, Package: "pro",
	}}
	h := newHandler(t, svc, &bansStub{})

	rec := httptest.NewRecorder()
	h.Submit(rec, formRequest("u@example.com", "secret123"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "backoffice_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSubmit_InvalidCredentials(t *testing.T) {
	svc := &serviceStub{err: customer.ErrInvalidCredentials}
	h := newHandler(t, svc, &bansStub{})

	rec := httptest.NewRecorder()
	h.Submit(rec, formRequest("u@example.com", "wrong"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login")
	assert.Empty(t, rec.Result().Cookies())
}

func TestSubmit_BannedUserBlockedBeforeAuth(t *testing.T) {
	svc := &serviceStub{identity: &customer.Identity{UserID: "banned@example.com"}}
	h := newHandler(t, svc, &bansStub{banned: map[string]bool{"banned@example.com": true}})

	rec := httptest.NewRecorder()
	h.Submit(rec, formRequest("banned@example.com", "secret123"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "suspended")
	assert.Empty(t, rec.Result().Cookies())
}

func TestSubmit_MissingFields(t *testing.T) {
	h := newHandler(t, &serviceStub{}, &bansStub{})

	rec := httptest.NewRecorder()
	h.Submit(rec, formRequest("", ""))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/login")
}

func TestPage_RendersForm(t *testing.T) {
	h := newHandler(t, &serviceStub{}, &bansStub{})

	rec := httptest.NewRecorder()
	h.Page(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)
}
