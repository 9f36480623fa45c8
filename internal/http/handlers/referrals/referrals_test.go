package referrals

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

func TestReferrals_RendersPersonalLink(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	h := New(log, "https://domain.rizzosai.com", web.MustNew())

	req := httptest.NewRequest(http.MethodGet, "/referrals", nil)
	ctx := context.WithValue(req.Context(), middlewarectx.User, "u@example.com")
	ctx = context.WithValue(ctx, middlewarectx.Username, "testuser")
	ctx = context.WithValue(ctx, middlewarectx.Role, "customer")
	ctx = context.WithValue(ctx, middlewarectx.Package, "pro")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://domain.rizzosai.com?ref=testuser")
}
