// Package llm реализует клиент chat-completions API, совместимого с OpenAI.
// Клиент не делает повторных попыток: один неуспешный вызов сразу
// переводит ассистента на запасные ответы.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rizzosai/domain-backoffice/internal/models"
)

// ErrNotConfigured возвращается, когда ключ API не задан.
var ErrNotConfigured = errors.New("llm: api key is not configured")

// Client — HTTP-клиент chat-completions API.
type Client struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// NewClient создаёт клиент с ограниченным таймаутом запроса.
func NewClient(apiKey, apiURL, model string, maxTokens int, temperature float64, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:      apiKey,
		apiURL:      strings.TrimRight(apiURL, "/"),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Configured сообщает, задан ли ключ API. Наружу не утекает ничего,
// кроме булевого признака.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Complete отправляет системный промпт, историю и новую реплику,
// возвращает текст ответа модели.
func (c *Client) Complete(ctx context.Context, messages []models.Turn) (string, error) {
	const op = "llm.Complete"

	if !c.Configured() {
		return "", fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	reqBody := completionRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/chat/completions", &buf)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s: unexpected status %s", op, resp.Status)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%s: empty choices in response", op)
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
