// Package guide отдает страницу гайда с проверкой уровня пакета.
// Недостаточный уровень не показывает контент, а уводит на страницу
// апгрейда с пояснением.
package guide

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/rizzosai/domain-backoffice/internal/catalog"
	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

// AccessRecorder учитывает открытия гайдов в записи клиента.
type AccessRecorder interface {
	RecordGuideAccess(ctx context.Context, email string)
}

type Handler struct {
	log      *slog.Logger
	recorder AccessRecorder
	renderer *web.Renderer
}

func New(log *slog.Logger, recorder AccessRecorder, renderer *web.Renderer) *Handler {
	return &Handler{log: log, recorder: recorder, renderer: renderer}
}

type pageData struct {
	Guide catalog.Guide
}

// ServeHTTP отдает гайд либо перенаправляет на апгрейд.
//
// @Summary Страница гайда
// @Tags pages
// @Produce html
// @Param id path string true "Идентификатор гайда"
// @Success 200
// @Failure 404
// @Router /guide/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.guide"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	guideID := chi.URLParam(r, "id")
	g, ok := catalog.GetGuide(guideID)
	if !ok {
		http.NotFound(w, r)
		return
	}

	session, _ := middlewarectx.Session(r.Context())
	if !catalog.HasAccess(session.Package, g.Level) {
		log.Info("guide access denied",
			slog.String("guide", guideID),
			slog.String("package", session.Package),
			slog.Int("required_level", g.Level))
		msg := "This guide requires the " + catalog.LevelName(g.Level) + " or higher. Upgrade to unlock it."
		http.Redirect(w, r, "/upgrade?flash="+url.QueryEscape(msg), http.StatusSeeOther)
		return
	}

	if session.Role != middlewarectx.RoleAdmin {
		h.recorder.RecordGuideAccess(r.Context(), session.UserID)
	}

	if err := h.renderer.Render(w, "guide.html", pageData{Guide: g}); err != nil {
		log.Error("failed to render guide page", sl.Err(err))
	}
}
