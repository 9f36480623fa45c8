// Package purchase обслуживает постпокупочный поток: страницу успешной
// оплаты и создание аккаунта с автоматическим входом.
package purchase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/rizzosai/domain-backoffice/internal/catalog"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/services/customer"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

// Service описывает создание аккаунта после покупки.
type Service interface {
	SetupAccount(ctx context.Context, email, username, pass, packageID, sessionID string) (*models.Customer, error)
}

// TokenMaker выпускает сессию для нового аккаунта.
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

type packageOption struct {
	ID       string
	Name     string
	Price    string
	Selected bool
}

type pageData struct {
	SessionID string
	Packages  []packageOption
	Flash     string
}

// Success отдает страницу после оплаты с формой создания аккаунта.
// Платежный провайдер передает session_id и, опционально, пакет.
//
// @Summary Страница успешной покупки
// @Tags purchase
// @Produce html
// @Success 200
// @Router /purchase-success [get]
func (h *Handler) Success(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.Success"

	preselected := r.URL.Query().Get("package")
	options := make([]packageOption, 0, len(catalog.Packages))
	for _, pkg := range catalog.Packages {
		options = append(options, packageOption{
			ID:       pkg.ID,
			Name:     pkg.Name,
			Price:    pkg.Price,
			Selected: pkg.ID == preselected,
		})
	}
	sort.Slice(options, func(i, j int) bool {
		return catalog.Packages[options[i].ID].Level < catalog.Packages[options[j].ID].Level
	})

	data := pageData{
		SessionID: r.URL.Query().Get("session_id"),
		Packages:  options,
		Flash:     r.URL.Query().Get("flash"),
	}
	if err := h.renderer.Render(w, "purchase_success.html", data); err != nil {
		h.log.Error("failed to render purchase page", slog.String("op", op), sl.Err(err))
	}
}

// Setup создает аккаунт из формы и сразу логинит клиента.
//
// @Summary Создание аккаунта после покупки
// @Tags purchase
// @Accept x-www-form-urlencoded
// @Success 303
// @Router /setup-account [post]
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.purchase.Setup"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseForm(); err != nil {
		log.Error("failed to parse setup form", sl.Err(err))
		backToForm(w, r, "Invalid form submission")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := strings.TrimSpace(r.PostFormValue("password"))
	packageID := strings.TrimSpace(r.PostFormValue("package"))
	sessionID := r.PostFormValue("session_id")

	if email == "" || username == "" || password == "" || packageID == "" {
		backToForm(w, r, "All fields are required")
		return
	}

	record, err := h.service.SetupAccount(r.Context(), email, username, password, packageID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, customer.ErrAlreadyExists):
			backToForm(w, r, "An account with this email already exists. Please log in instead.")
		case errors.Is(err, customer.ErrUnknownPackage):
			backToForm(w, r, "Unknown package")
		default:
			log.Error("account setup failed", sl.Err(err))
			backToForm(w, r, "Something went wrong, please try again")
		}
		return
	}

	token, err := h.maker.GenerateToken(record.Email, record.Username, customer.RoleCustomer, record.Package)
	if err != nil {
		log.Error("failed to issue session for new account", sl.Err(err))
		http.Redirect(w, r, "/login?flash="+url.QueryEscape("Account created, please log in")+"&kind=success", http.StatusSeeOther)
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

	log.Info("account created", slog.String("user", record.Email), slog.String("package", record.Package))
	http.Redirect(w, r, "/onboarding-chat", http.StatusSeeOther)
}

func backToForm(w http.ResponseWriter, r *http.Request, msg string) {
	http.Redirect(w, r, "/purchase-success?flash="+url.QueryEscape(msg), http.StatusSeeOther)
}
