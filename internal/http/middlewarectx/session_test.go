package middlewarectx

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/rizzosai/domain-backoffice/internal/lib/jwt"
)

const cookieName = "backoffice_session"

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func sessionRequest(t *testing.T, maker jwt.Maker, userID, username, role, pkg string) *http.Request {
	t.Helper()
	token, err := maker.GenerateToken(userID, username, role, pkg)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	return req
}

func TestSessionMiddleware_ValidCookie(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)
	var got SessionInfo
	var loggedIn bool

	handler := SessionMiddleware(maker, cookieName, newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, loggedIn = Session(r.Context())
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, maker, "u@example.com", "testuser", "customer", "pro"))

	require.True(t, loggedIn)
	assert.Equal(t, "u@example.com", got.UserID)
	assert.Equal(t, "testuser", got.Username)
	assert.Equal(t, "customer", got.Role)
	assert.Equal(t, "pro", got.Package)
}

func TestSessionMiddleware_NoCookiePassesThrough(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)
	var loggedIn bool

	handler := SessionMiddleware(maker, cookieName, newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, loggedIn = Session(r.Context())
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.False(t, loggedIn)
}

func TestSessionMiddleware_ForgedToken(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)
	forger := jwt.NewMaker("other-secret", time.Hour)
	var loggedIn bool

	handler := SessionMiddleware(maker, cookieName, newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, loggedIn = Session(r.Context())
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, forger, "u@example.com", "u", "admin", "empire"))

	assert.False(t, loggedIn)
}

func TestRequireUser_RedirectsAnonymous(t *testing.T) {
	handler := RequireUser(newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireUserJSON_Unauthorized(t *testing.T) {
	handler := RequireUserJSON(newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be reached")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/coey/chat", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAdminOnly(t *testing.T) {
	maker := jwt.NewMaker("test-secret", time.Hour)

	var reached bool
	handler := SessionMiddleware(maker, cookieName, newNoopLogger())(
		AdminOnly(newNoopLogger())(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, maker, "u@example.com", "u", "customer", "pro"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, reached)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(t, maker, "admin", "admin", "admin", "empire"))
	assert.True(t, reached)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := rate.NewLimiter(rate.Limit(0), 1)
	handler := RateLimitMiddleware(newNoopLogger(), limiter)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/coey/chat", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/coey/chat", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
