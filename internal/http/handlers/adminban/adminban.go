// Package adminban обслуживает административный список банов и их снятие.
package adminban

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rizzosai/domain-backoffice/internal/http/response"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

// Service описывает административные операции над банами.
type Service interface {
	List(ctx context.Context) (map[string]models.BanRecord, error)
	Unban(ctx context.Context, userID string) (bool, error)
}

type Handler struct {
	log      *slog.Logger
	service  Service
	renderer *web.Renderer
}

func New(log *slog.Logger, service Service, renderer *web.Renderer) *Handler {
	return &Handler{log: log, service: service, renderer: renderer}
}

type banView struct {
	UserID    string
	BannedAt  string
	ExpiresAt string
	Reason    string
	IP        string
}

type pageData struct {
	Bans []banView
}

// List отдает страницу с активными банами.
//
// @Summary Список забаненных пользователей
// @Tags admin
// @Produce html
// @Success 200
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/banned-users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminban.List"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	bans, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list bans", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list bans"))
		return
	}

	views := make([]banView, 0, len(bans))
	for userID, record := range bans {
		views = append(views, banView{
			UserID:    userID,
			BannedAt:  record.BannedAt.Format(time.RFC3339),
			ExpiresAt: record.ExpiresAt.Format(time.RFC3339),
			Reason:    record.Reason,
			IP:        record.IP,
		})
	}
	sort.Slice(views, func(i, j int) bool { return views[i].BannedAt > views[j].BannedAt })

	if err := h.renderer.Render(w, "admin_banned.html", pageData{Bans: views}); err != nil {
		log.Error("failed to render banned users page", sl.Err(err))
	}
}

// Unban снимает бан с пользователя.
//
// @Summary Снятие бана
// @Tags admin
// @Accept x-www-form-urlencoded
// @Success 303
// @Failure 403 {object} response.ErrorResponse
// @Router /admin/unban-user [post]
func (h *Handler) Unban(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.adminban.Unban"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse unban form", sl.Err(err))
		http.Redirect(w, r, "/admin/banned-users", http.StatusSeeOther)
		return
	}
	userID := r.PostFormValue("user_id")
	if userID == "" {
		http.Redirect(w, r, "/admin/banned-users", http.StatusSeeOther)
		return
	}

	removed, err := h.service.Unban(r.Context(), userID)
	if err != nil {
		log.Error("failed to unban user", slog.String("user", userID), sl.Err(err))
	} else {
		log.Info("user unbanned", slog.String("user", userID), slog.Bool("removed", removed))
	}
	http.Redirect(w, r, "/admin/banned-users", http.StatusSeeOther)
}
