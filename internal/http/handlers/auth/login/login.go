// Package login обслуживает страницу входа и проверку учетных данных.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/services/customer"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

// Service описывает проверку учетных данных.
type Service interface {
	Authenticate(ctx context.Context, login, pass string) (*customer.Identity, error)
}

// Bans описывает проверку бана на входе: забаненный пользователь не
// попадает в систему до истечения срока.
type Bans interface {
	IsBanned(ctx context.Context, userID string) bool
}

// TokenMaker описывает выпуск токена сессии.
type TokenMaker interface {
	GenerateToken(userID, username, role, packageID string) (string, error)
}

type Handler struct {
	log        *slog.Logger
	service    Service
	bans       Bans
	maker      TokenMaker
	cookieName string
	tokenTTL   time.Duration
	renderer   *web.Renderer
}

func New(log *slog.Logger, service Service, bans Bans, maker TokenMaker, cookieName string, tokenTTL time.Duration, renderer *web.Renderer) *Handler {
	return &Handler{
		log:        log,
		service:    service,
		bans:       bans,
		maker:      maker,
		cookieName: cookieName,
		tokenTTL:   tokenTTL,
		renderer:   renderer,
	}
}

type pageData struct {
	Flash     string
	FlashKind string
}

// Page отдает страницу входа.
//
// @Summary Страница входа
// @Tags auth
// @Produce html
// @Success 200
// @Router /login [get]
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login.Page"

	data := pageData{Flash: r.URL.Query().Get("flash")}
	if r.URL.Query().Get("kind") == "success" {
		data.FlashKind = "success"
	}
	if err := h.renderer.Render(w, "login.html", data); err != nil {
		h.log.Error("failed to render login page", slog.String("op", op), sl.Err(err))
	}
}

// Submit проверяет форму входа и ставит сессионную cookie.
//
// @Summary Вход по логину и паролю
// @Tags auth
// @Accept x-www-form-urlencoded
// @Success 303
// @Router /login [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login.Submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse login form", sl.Err(err))
		redirectFlash(w, r, "Invalid form submission")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := strings.TrimSpace(r.PostFormValue("password"))
	if username == "" || password == "" {
		redirectFlash(w, r, "Username and password are required")
		return
	}

	if h.bans.IsBanned(r.Context(), username) {
		log.Warn("banned user attempted login", slog.String("user", username))
		redirectFlash(w, r, "Your account has been suspended. Please contact support.")
		return
	}

	identity, err := h.service.Authenticate(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, customer.ErrInvalidCredentials) {
			log.Info("invalid credentials", slog.String("user", username))
			redirectFlash(w, r, "Invalid username or password")
			return
		}
		log.Error("authentication failed", sl.Err(err))
		redirectFlash(w, r, "Something went wrong, please try again")
		return
	}

	token, err := h.maker.GenerateToken(identity.UserID, identity.Username, identity.Role, identity.Package)
	if err != nil {
		log.Error("failed to issue session token", sl.Err(err))
		redirectFlash(w, r, "Something went wrong, please try again")
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
	log.Info("user logged in", slog.String("user", identity.UserID), slog.String("role", identity.Role))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func redirectFlash(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/login?flash="+url.QueryEscape(msg), http.StatusSeeOther)
}
