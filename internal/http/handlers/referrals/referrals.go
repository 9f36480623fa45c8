// Package referrals отдает страницу с персональной реферальной ссылкой.
package referrals

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

type Handler struct {
	log      *slog.Logger
	baseURL  string
	renderer *web.Renderer
}

func New(log *slog.Logger, baseURL string, renderer *web.Renderer) *Handler {
	return &Handler{log: log, baseURL: baseURL, renderer: renderer}
}

type pageData struct {
	Username     string
	ReferralLink string
}

// ServeHTTP отдает страницу рефералов.
//
// @Summary Реферальная ссылка пользователя
// @Tags pages
// @Produce html
// @Success 200
// @Router /referrals [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.referrals"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, _ := middlewarectx.Session(r.Context())

	data := pageData{
		Username:     session.Username,
		ReferralLink: h.baseURL + "?ref=" + session.Username,
	}
	if err := h.renderer.Render(w, "referrals.html", data); err != nil {
		log.Error("failed to render referrals page", sl.Err(err))
	}
}
