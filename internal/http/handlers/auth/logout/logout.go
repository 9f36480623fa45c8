// Package logout сбрасывает сессионную cookie.
package logout

import (
	"log/slog"
	"net/http"
)

type Handler struct {
	log        *slog.Logger
	cookieName string
}

func New(log *slog.Logger, cookieName string) *Handler {
	return &Handler{log: log, cookieName: cookieName}
}

// ServeHTTP удаляет cookie сессии и перенаправляет на страницу входа.
//
// @Summary Выход из системы
// @Tags auth
// @Success 303
// @Router /logout [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
