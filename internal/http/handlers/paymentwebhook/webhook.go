// Package paymentwebhook принимает уведомления платежного провайдера
// и заводит или апгрейдит клиента по email и купленному пакету.
// Подпись тела проверяется по HMAC-SHA256 из заголовка X-Api-Signature.
package paymentwebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/rizzosai/domain-backoffice/internal/http/response"
	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/models"
)

// Service описывает upsert клиента по данным платежа.
type Service interface {
	UpsertFromWebhook(ctx context.Context, email, packageID string) (*models.Customer, error)
}

type Handler struct {
	log           *slog.Logger
	service       Service
	validate      *validator.Validate
	webhookSecret string
}

func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		validate:      validator.New(),
		webhookSecret: secret,
	}
}

// Payload — тело уведомления платежного провайдера. Email и пакет
// покупателя провайдер передает в metadata объекта платежа.
type Payload struct {
	Event  string `json:"event" validate:"required"`
	Object struct {
		ID       string `json:"id"`
		Status   string `json:"status"`
		Metadata struct {
			Email   string `json:"email" validate:"required,email"`
			Package string `json:"package" validate:"required"`
		} `json:"metadata"`
	} `json:"object"`
}

func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

// ServeHTTP проверяет подпись и обрабатывает событие оплаты.
//
// @Summary Вебхук платежного провайдера
// @Tags purchase
// @Accept json
// @Produce json
// @Param X-Api-Signature header string true "HMAC-SHA256 подпись тела"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.paymentwebhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("X-Api-Signature")
	if signature == "" || !h.verifySignature(body, signature) {
		log.Error("invalid or missing webhook signature")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	const PaymentSucceeded = "payment.succeeded"

	if !strings.EqualFold(payload.Event, PaymentSucceeded) {
		log.Info("ignored webhook event", slog.String("event", payload.Event))
		render.JSON(w, r, response.StatusOKWithData(map[string]string{"result": "ignored"}))
		return
	}

	if err := h.validate.Struct(payload); err != nil {
		log.Error("webhook payload validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	record, err := h.service.UpsertFromWebhook(r.Context(),
		payload.Object.Metadata.Email, payload.Object.Metadata.Package)
	if err != nil {
		log.Error("failed to process payment webhook", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to process webhook"))
		return
	}

	log.Info("webhook processed successfully",
		slog.String("event", payload.Event),
		slog.String("payment_id", payload.Object.ID),
		slog.String("user", record.Email))
	render.JSON(w, r, response.StatusOKWithData(map[string]string{
		"email":   record.Email,
		"package": record.Package,
	}))
}
