// Package chat обслуживает страницы ассистента Coey и JSON-ручки чата.
// Сообщение забаненного пользователя получает 403 с banned:true,
// сработавший детектор у администратора — 200 с admin_test:true.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/rizzosai/domain-backoffice/internal/http/middlewarectx"
	"github.com/rizzosai/domain-backoffice/internal/http/response"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/services/chat"
	"github.com/rizzosai/domain-backoffice/internal/web"
)

// Service описывает обработку одного сообщения ассистентом.
type Service interface {
	Respond(ctx context.Context, req chat.Request) chat.Reply
}

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
	renderer *web.Renderer
}

func New(log *slog.Logger, service Service, renderer *web.Renderer) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
		renderer: renderer,
	}
}

// Request — входные данные сообщения чата.
type Request struct {
	Message string `json:"message" validate:"required"`
}

type chatPageData struct {
	Greeting string
	Endpoint string
}

// Page отдает интерфейс обычного чата с Coey.
//
// @Summary Страница ассистента
// @Tags chat
// @Produce html
// @Success 200
// @Router /coey [get]
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	data := chatPageData{
		Greeting: "Hello! I'm Coey, your AI business assistant. I can help you with strategy advice, guide implementation, and growing your RizzosAI domain business. What would you like to know?",
		Endpoint: "/coey/chat",
	}
	if err := h.renderer.Render(w, "chat.html", data); err != nil {
		h.log.Error("failed to render chat page", sl.Err(err))
	}
}

// OnboardingPage отдает чат первичной настройки после покупки.
//
// @Summary Страница онбординг-чата
// @Tags chat
// @Produce html
// @Success 200
// @Router /onboarding-chat [get]
func (h *Handler) OnboardingPage(w http.ResponseWriter, r *http.Request) {
	data := chatPageData{
		Greeting: "Welcome to RizzosAI! I'm Coey, and I'll walk you through setting up your domain business. Ready to get started?",
		Endpoint: "/coey/onboarding",
	}
	if err := h.renderer.Render(w, "chat.html", data); err != nil {
		h.log.Error("failed to render onboarding chat page", sl.Err(err))
	}
}

// Message обрабатывает сообщение обычного чата.
//
// @Summary Сообщение ассистенту
// @Tags chat
// @Accept json
// @Produce json
// @Param request body Request true "Сообщение пользователя"
// @Success 200 {object} chat.Reply
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} chat.Reply
// @Router /coey/chat [post]
func (h *Handler) Message(w http.ResponseWriter, r *http.Request) {
	h.handleMessage(w, r, models.ConversationRegular)
}

// OnboardingMessage обрабатывает сообщение онбординг-чата.
//
// @Summary Сообщение онбординг-ассистенту
// @Tags chat
// @Accept json
// @Produce json
// @Param request body Request true "Сообщение пользователя"
// @Success 200 {object} chat.Reply
// @Failure 400 {object} response.ErrorResponse
// @Failure 403 {object} chat.Reply
// @Router /coey/onboarding [post]
func (h *Handler) OnboardingMessage(w http.ResponseWriter, r *http.Request) {
	h.handleMessage(w, r, models.ConversationOnboarding)
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request, conversationType string) {
	const op = "handlers.chat"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode chat request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	session, _ := middlewarectx.Session(r.Context())
	reply := h.service.Respond(r.Context(), chat.Request{
		UserID:           session.UserID,
		Username:         session.Username,
		PackageID:        session.Package,
		Message:          req.Message,
		IP:               clientIP(r),
		ConversationType: conversationType,
	})

	if reply.Banned {
		render.Status(r, http.StatusForbidden)
	}
	render.JSON(w, r, reply)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
