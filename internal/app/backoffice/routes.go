// Маршруты приложения: страницы бэкофиса, JSON-ручки чата, платежный
// вебхук и административные операции.
package backoffice

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/rizzosai/domain-backoffice/internal/config"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/adminban"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/auth/login"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/auth/logout"
	chathandler "github.com/rizzosai/domain-backoffice/internal/http/handlers/chat"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/dashboard"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/earnings"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/guide"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/health"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/paymentwebhook"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/purchase"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/referrals"
	"github.com/rizzosai/domain-backoffice/internal/http/handlers/upgrade"
	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
	"github.com/rizzosai/domain-backoffice/internal/lib/jwt"
	"github.com/rizzosai/domain-backoffice/internal/services/chat"
	"github.com/rizzosai/domain-backoffice/internal/services/customer"
	"github.com/rizzosai/domain-backoffice/internal/services/moderation"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, renderer *web.Renderer,
	maker jwt.Maker, customerSvc *customer.Service, banManager *moderation.BanManager, responder *chat.Responder) {

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(middlewarectx.SessionMiddleware(maker, cfg.Session.CookieName, logger))

	loginHandler := login.New(logger, customerSvc, banManager, maker,
		cfg.Session.CookieName, cfg.Session.TokenTTL, renderer)
	upgradeHandler := upgrade.New(logger, customerSvc, maker,
		cfg.Session.CookieName, cfg.Session.TokenTTL, renderer)
	purchaseHandler := purchase.New(logger, customerSvc, maker,
		cfg.Session.CookieName, cfg.Session.TokenTTL, renderer)
	chatHandler := chathandler.New(logger, responder, renderer)
	adminHandler := adminban.New(logger, banManager, renderer)

	// Открытые конечные точки
	r.Get("/login", loginHandler.Page)
	r.Post("/login", loginHandler.Submit)
	r.Get("/logout", logout.New(logger, cfg.Session.CookieName).ServeHTTP)
	r.Get("/purchase-success", purchaseHandler.Success)
	r.Post("/setup-account", purchaseHandler.Setup)
	r.Post("/payments/webhook", paymentwebhook.New(logger, customerSvc, cfg.Webhook.Secret).ServeHTTP)
	r.Get("/health", health.New())
	// Исторический короткий путь для администраторов.
	r.Get("/admin-access", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	})

	// Страницы, требующие входа
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RequireUser(logger))
		r.Get("/", dashboard.New(logger, renderer).ServeHTTP)
		r.Get("/guide/{id}", guide.New(logger, customerSvc, renderer).ServeHTTP)
		r.Get("/upgrade", upgradeHandler.Page)
		r.Post("/upgrade", upgradeHandler.Submit)
		r.Get("/coey", chatHandler.Page)
		r.Get("/onboarding-chat", chatHandler.OnboardingPage)
		r.Get("/referrals", referrals.New(logger, cfg.HTTPServer.SiteURL, renderer).ServeHTTP)
		r.Get("/earnings", earnings.New(logger, renderer).ServeHTTP)
	})

	// JSON-ручки чата
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RequireUserJSON(logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger, rate.NewLimiter(5, 10)))
		r.Post("/coey/chat", chatHandler.Message)
		r.Post("/coey/onboarding", chatHandler.OnboardingMessage)
	})

	// Административные маршруты
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.RequireUser(logger))
		r.Use(middlewarectx.AdminOnly(logger))
		r.Get("/admin/banned-users", adminHandler.List)
		r.Post("/admin/unban-user", adminHandler.Unban)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
