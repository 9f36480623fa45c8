package upgrade

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

	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
	"github.com/rizzosai/domain-backoffice/internal/lib/jwt"
	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/services/customer"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

type serviceStub struct {
	record *models.Customer
	err    error
	called bool
}

func (s *serviceStub) Upgrade(_ context.Context, _, _ string) (*models.Customer, error) {
	s.called = true
	return s.record, s.err
}

func newHandler(t *testing.T, svc Service) *Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	maker := jwt.NewMaker("test-secret", time.Hour)
	return New(log, svc, maker, "backoffice_session", time.Hour, web.MustNew())
}

func sessionCtx(req *http.Request, userID, role, pkg string) *http.Request {
	ctx := context.WithValue(req.Context(), middlewarectx.User, userID)
	ctx = context.WithValue(ctx, middlewarectx.Username, userID)
	ctx = context.WithValue(ctx, middlewarectx.Role, role)
	ctx = context.WithValue(ctx, middlewarectx.Package, pkg)
	return req.WithContext(ctx)
}

func TestPage_MarksCurrentAndHigher(t *testing.T) {
	h := newHandler(t, &serviceStub{})

	req := sessionCtx(httptest.NewRequest(http.MethodGet, "/upgrade", nil), "u@example.com", "customer", "pro")
	rec := httptest.NewRecorder()
	h.Page(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Your current package")
	assert.Contains(t, body, "Upgrade to Elite Package")
	assert.Contains(t, body, "Upgrade to Empire Package")
	assert.NotContains(t, body, "Upgrade to Starter Package")
}

func TestSubmit_Success(t *testing.T) {
	svc := &serviceStub{record: &models.Customer{Email: "u@example.com", Package: "elite"}}
	h := newHandler(t, svc)

	form := url.Values{"package": {"elite"}}
	req := httptest.NewRequest(http.MethodPost, "/upgrade", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = sessionCtx(req, "u@example.com", "customer", "pro")

	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, svc.called)

	// Сессия переиздается с новым пакетом.
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	claims, err := jwt.NewMaker("test-secret", time.Hour).ParseToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "elite", claims.Package)
}

func TestSubmit_NotHigherLevel(t *testing.T) {
	svc := &serviceStub{err: customer.ErrNotHigherLevel}
	h := newHandler(t, svc)

	form := url.Values{"package": {"starter"}}
	req := httptest.NewRequest(http.MethodPost, "/upgrade", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = sessionCtx(req, "u@example.com", "customer", "pro")

	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/upgrade")
	assert.Empty(t, rec.Result().Cookies())
}

func TestSubmit_AdminHasNoPackage(t *testing.T) {
	svc := &serviceStub{}
	h := newHandler(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/upgrade", strings.NewReader("package=empire"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = sessionCtx(req, "admin", "admin", "empire")

	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.False(t, svc.called)
}
