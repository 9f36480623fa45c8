// Package middlewarectx содержит HTTP middleware сессии бэкофиса.
//
// SessionMiddleware читает JWT из cookie, проверяет его и кладет в контекст
// идентификатор пользователя, роль и текущий пакет. RequireUser и AdminOnly
// охраняют закрытые маршруты: страницы перенаправляют на /login, JSON-ручки
// отвечают 401/403 с унифицированным конвертом.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/rizzosai/domain-backoffice/internal/http/response"
	"github.com/rizzosai/domain-backoffice/internal/lib/jwt"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// User — ключ для идентификатора пользователя в контексте
	User Key = "user_id"
	// Role — ключ для роли пользователя в контексте
	Role Key = "role"
	// Package — ключ для идентификатора пакета в контексте
	Package Key = "package"
	// Username — ключ для отображаемого имени в контексте
	Username Key = "username"
)

// RoleAdmin — значение роли администратора в клеймах сессии.
const RoleAdmin = "admin"

// SessionMiddleware проверяет JWT в сессионной cookie и обогащает контекст.
// Отсутствующая или невалидная cookie не прерывает запрос: маршруты,
// требующие входа, охраняются RequireUser / AdminOnly.
func SessionMiddleware(maker jwt.Maker, cookieName string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SessionMiddleware"

			cookie, err := r.Cookie(cookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := maker.ParseToken(cookie.Value)
			if err != nil {
				log.Debug("invalid session token", slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())), sl.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), User, claims.UserID)
			ctx = context.WithValue(ctx, Role, claims.Role)
			ctx = context.WithValue(ctx, Package, claims.Package)
			ctx = context.WithValue(ctx, Username, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser перенаправляет неаутентифицированные запросы на страницу входа.
func RequireUser(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserID(r.Context()); !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUserJSON отвечает 401 для JSON-ручек без валидной сессии.
func RequireUserJSON(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := UserID(r.Context()); !ok {
				log.Error("unauthorized request",
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly пропускает только запросы с ролью администратора.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(Role).(string)
			if role != RoleAdmin {
				log.Error("admin route hit without admin role",
					slog.String("request_id", middleware.GetReqID(r.Context())))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Error("admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserID возвращает идентификатор пользователя из контекста.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(User).(string)
	return id, ok && id != ""
}

// SessionInfo собирает данные сессии из контекста запроса.
type SessionInfo struct {
	UserID   string
	Username string
	Role     string
	Package  string
}

// Session возвращает данные сессии; второй результат — признак входа.
func Session(ctx context.Context) (SessionInfo, bool) {
	id, ok := UserID(ctx)
	if !ok {
		return SessionInfo{}, false
	}
	username, _ := ctx.Value(Username).(string)
	role, _ := ctx.Value(Role).(string)
	pkg, _ := ctx.Value(Package).(string)
	return SessionInfo{UserID: id, Username: username, Role: role, Package: pkg}, true
}
