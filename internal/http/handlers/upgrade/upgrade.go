// Package upgrade обслуживает страницу тарифов и перевод клиента на
// пакет более высокого уровня.
package upgrade

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/rizzosai/domain-backoffice/internal/catalog"
	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/services/customer"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

// Service описывает перевод клиента на другой пакет.
type Service interface {
	Upgrade(ctx context.Context, email, packageID string) (*models.Customer, error)
}

// TokenMaker переиздает сессию после смены пакета.
type TokenMaker interface {
	GenerateToken(userID, username, role, packageID string) (string, error)
}

type Handler struct {
	log        *slog.Logger
	service    Service
	maker      TokenMaker
	cookieName string
	tokenTTL   time.Duration
	renderer   *web.Renderer
}

func New(log *slog.Logger, service Service, maker TokenMaker, cookieName string, tokenTTL time.Duration, renderer *web.Renderer) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		maker:      maker,
		cookieName: cookieName,
		tokenTTL:   tokenTTL,
		renderer:   renderer,
	}
}

type packageView struct {
	ID       string
	Name     string
	Price    string
	Guides   int
	Features []string
	Current  bool
	Higher   bool
}

type pageData struct {
	Packages []packageView
	Flash    string
}

// Page отдает страницу тарифов: текущий пакет помечен, более высокие
// предлагаются к апгрейду.
//
// @Summary Страница апгрейда
// @Tags pages
// @Produce html
// @Success 200
// @Router /upgrade [get]
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade.Page"

	session, _ := middlewarectx.Session(r.Context())
	current := catalog.Get(session.Package)

	views := make([]packageView, 0, len(catalog.Packages))
	for _, pkg := range catalog.Packages {
		views = append(views, packageView{
			ID:       pkg.ID,
			Name:     pkg.Name,
			Price:    pkg.Price,
			Guides:   pkg.Guides,
			Features: pkg.Features,
			Current:  pkg.ID == current.ID,
			Higher:   pkg.Level > current.Level,
		})
	}
	sort.Slice(views, func(i, j int) bool {
		return catalog.Packages[views[i].ID].Level < catalog.Packages[views[j].ID].Level
	})

	data := pageData{Packages: views, Flash: r.URL.Query().Get("flash")}
	if err := h.renderer.Render(w, "upgrade.html", data); err != nil {
		h.log.Error("failed to render upgrade page", slog.String("op", op), sl.Err(err))
	}
}

// Submit переводит клиента на выбранный пакет и переиздает сессию.
//
// @Summary Апгрейд пакета
// @Tags pages
// @Accept x-www-form-urlencoded
// @Success 303
// @Router /upgrade [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upgrade.Submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session, _ := middlewarectx.Session(r.Context())
	if session.Role == middlewarectx.RoleAdmin {
		http.Redirect(w, r, "/upgrade?flash="+url.QueryEscape("Admin account has no package to upgrade"), http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse upgrade form", sl.Err(err))
		http.Redirect(w, r, "/upgrade", http.StatusSeeOther)
		return
	}
	packageID := r.PostFormValue("package")

	record, err := h.service.Upgrade(r.Context(), session.UserID, packageID)
	if err != nil {
		switch {
		case errors.Is(err, customer.ErrUnknownPackage):
			http.Redirect(w, r, "/upgrade?flash="+url.QueryEscape("Unknown package"), http.StatusSeeOther)
		case errors.Is(err, customer.ErrNotHigherLevel):
			http.Redirect(w, r, "/upgrade?flash="+url.QueryEscape("You can only upgrade to a higher package"), http.StatusSeeOther)
		default:
			log.Error("upgrade failed", sl.Err(err))
			http.Redirect(w, r, "/upgrade?flash="+url.QueryEscape("Upgrade failed, please try again"), http.StatusSeeOther)
		}
		return
	}

	token, err := h.maker.GenerateToken(session.UserID, session.Username, session.Role, record.Package)
	if err != nil {
		log.Error("failed to reissue session after upgrade", sl.Err(err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.tokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info("package upgraded",
		slog.String("user", session.UserID), slog.String("package", record.Package))
	http.Redirect(w, r, "/?flash="+url.QueryEscape("Welcome to your new package!"), http.StatusSeeOther)
}
