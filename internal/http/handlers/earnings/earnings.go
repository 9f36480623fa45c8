// Package earnings отдает страницу статистики заработка.
// Детальная аналитика пока не реализована, страница показывает заглушку.
package earnings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

type Handler struct {
	log      *slog.Logger
	renderer *web.Renderer
}

func New(log *slog.Logger, renderer *web.Renderer) *Handler {
	return &Handler{log: log, renderer: renderer}
}

// ServeHTTP отдает страницу заработка.
//
// @Summary Страница статистики заработка
// @Tags pages
// @Produce html
// @Success 200
// @Router /earnings [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.earnings"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.renderer.Render(w, "earnings.html", nil); err != nil {
		log.Error("failed to render earnings page", sl.Err(err))
	}
}
