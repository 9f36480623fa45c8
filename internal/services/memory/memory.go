// Package memory реализует ограниченную память диалогов ассистента:
// последние обмены пользователь/ассистент для каждого типа диалога,
// используемые как контекст следующего вызова модели.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rizzosai/domain-backoffice/internal/models"
)

const (
	// MaxStoredExchanges — максимум хранимых обменов на пользователя и тип.
	// При превышении отбрасываются самые старые записи (FIFO).
	MaxStoredExchanges = 20
	// ContextExchanges — сколько последних обменов уходит в контекст модели.
	ContextExchanges = 10
)

// Repository описывает контракт хранилища памяти диалогов.
type Repository interface {
	ListExchanges(ctx context.Context, userID, conversationType string) ([]models.Exchange, error)
	AppendExchange(ctx context.Context, userID, conversationType string, exchange models.Exchange) error
	TrimExchanges(ctx context.Context, userID, conversationType string, keep int) error
}

// Service управляет памятью диалогов поверх репозитория.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Append дописывает обмен и подрезает историю до установленного предела.
func (s *Service) Append(ctx context.Context, userID, conversationType, userText, assistantText string) error {
	const op = "memory.Append"

	exchange := models.Exchange{
		User:      userText,
		Assistant: assistantText,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.repo.AppendExchange(ctx, userID, conversationType, exchange); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.TrimExchanges(ctx, userID, conversationType, MaxStoredExchanges); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetContext возвращает последние обмены, развернутые в чередующиеся
// реплики user/assistant в хронологическом порядке. Отсутствие истории —
// пустая последовательность, а не ошибка.
func (s *Service) GetContext(ctx context.Context, userID, conversationType string) ([]models.Turn, error) {
	const op = "memory.GetContext"

	exchanges, err := s.repo.ListExchanges(ctx, userID, conversationType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(exchanges) > ContextExchanges {
		exchanges = exchanges[len(exchanges)-ContextExchanges:]
	}

	turns := make([]models.Turn, 0, len(exchanges)*2)
	for _, ex := range exchanges {
		turns = append(turns,
			models.Turn{Role: "user", Content: ex.User},
			models.Turn{Role: "assistant", Content: ex.Assistant},
		)
	}
	return turns, nil
}
