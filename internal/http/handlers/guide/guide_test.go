package guide

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

type recorderStub struct {
	recorded []string
}

func (r *recorderStub) RecordGuideAccess(_ context.Context, email string) {
	r.recorded = append(r.recorded, email)
}

func newRouter(t *testing.T, recorder *recorderStub) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	h := New(log, recorder, web.MustNew())

	r := chi.NewRouter()
	r.Get("/guide/{id}", h.ServeHTTP)
	return r
}

func guideRequest(path, userID, role, pkg string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	ctx := context.WithValue(req.Context(), middlewarectx.User, userID)
	ctx = context.WithValue(ctx, middlewarectx.Username, userID)
	ctx = context.WithValue(ctx, middlewarectx.Role, role)
	ctx = context.WithValue(ctx, middlewarectx.Package, pkg)
	return req.WithContext(ctx)
}

func TestGuide_AccessGranted(t *testing.T) {
	recorder := &recorderStub{}
	router := newRouter(t, recorder)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, guideRequest("/guide/domain-mastery-101", "u@example.com", "customer", "starter"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Domain Mastery 101")
	assert.Equal(t, []string{"u@example.com"}, recorder.recorded)
}

func TestGuide_StarterDeniedLevelThree(t *testing.T) {
	recorder := &recorderStub{}
	router := newRouter(t, recorder)

	// Пакет первого уровня не открывает гайд третьего уровня:
	// редирект на страницу апгрейда с пояснением.
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, guideRequest("/guide/six-figure-scaling", "u@example.com", "customer", "starter"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/upgrade")
	assert.Empty(t, recorder.recorded)
}

func TestGuide_EmpireAccessesEverything(t *testing.T) {
	recorder := &recorderStub{}
	router := newRouter(t, recorder)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, guideRequest("/guide/six-figure-scaling", "u@example.com", "customer", "empire"))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuide_UnknownPackageDenied(t *testing.T) {
	recorder := &recorderStub{}
	router := newRouter(t, recorder)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, guideRequest("/guide/six-figure-scaling", "u@example.com", "customer", "platinum"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestGuide_NotFound(t *testing.T) {
	recorder := &recorderStub{}
	router := newRouter(t, recorder)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, guideRequest("/guide/no-such-guide", "u@example.com", "customer", "empire"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGuide_AdminAccessNotCounted(t *testing.T) {
	recorder := &recorderStub{}
	router := newRouter(t, recorder)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, guideRequest("/guide/domain-mastery-101", "admin", "admin", "empire"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, recorder.recorded)
}
