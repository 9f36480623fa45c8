package llm

import "github.com/rizzosai/domain-backoffice/internal/models"

// Запрос к chat-completions API.
type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []models.Turn `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

// Ответ chat-completions API. Разбираются только нужные поля.
type completionResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}
