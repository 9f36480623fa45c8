// Package dashboard отдает главную страницу бэкофиса: текущий пакет и
// библиотеку гайдов с пометкой закрытых уровней.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/rizzosai/domain-backoffice/internal/catalog"
	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
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

type guideView struct {
	ID          string
	Title       string
	Description string
	Level       int
	Locked      bool
}

type pageData struct {
	Username    string
	Package     catalog.Package
	Guides      []guideView
	ShowUpgrade bool
	Flash       string
}

// ServeHTTP отдает дашборд. Гайды выше уровня пакета показываются
// закрытыми, а не скрываются.
//
// @Summary Дашборд с библиотекой гайдов
// @Tags pages
// @Produce html
// @Success 200
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, _ := middlewarectx.Session(r.Context())
	pkg := catalog.Get(session.Package)

	unlocked := make(map[string]struct{})
	for _, g := range catalog.AccessibleGuides(pkg.ID) {
		unlocked[g.ID] = struct{}{}
	}

	guides := make([]guideView, 0, len(catalog.Guides))
	for _, g := range catalog.AllGuides() {
		_, open := unlocked[g.ID]
		guides = append(guides, guideView{
			ID:          g.ID,
			Title:       g.Title,
			Description: g.Description,
			Level:       g.Level,
			Locked:      !open,
		})
	}

	data := pageData{
		Username:    session.Username,
		Package:     pkg,
		Guides:      guides,
		ShowUpgrade: pkg.Level < 4,
		Flash:       r.URL.Query().Get("flash"),
	}
	if err := h.renderer.Render(w, "dashboard.html", data); err != nil {
		log.Error("failed to render dashboard", sl.Err(err))
	}
}
