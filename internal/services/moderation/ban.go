package moderation

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rizzosai/domain-backoffice/internal/lib/sl"
	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/storage"
)

// BanDuration — срок действия бана.
const BanDuration = 24 * time.Hour

// BanRepository описывает контракт хранилища банов.
type BanRepository interface {
	// GetBan возвращает запись бана либо storage.ErrNotFound.
	GetBan(ctx context.Context, userID string) (*models.BanRecord, error)
	// PutBan записывает бан, затирая предыдущую запись.
	PutBan(ctx context.Context, userID string, record models.BanRecord) error
	// DeleteBan удаляет запись и сообщает, была ли она.
	DeleteBan(ctx context.Context, userID string) (bool, error)
	// ListBans возвращает все записи банов.
	ListBans(ctx context.Context) (map[string]models.BanRecord, error)
}

// BanManager применяет, проверяет и снимает временные баны чата.
// Администратор не может быть забанен ни при каком содержимом хранилища.
type BanManager struct {
	repo    BanRepository
	adminID string
	log     *slog.Logger
}

// NewBanManager создает новый экземпляр BanManager.
func NewBanManager(repo BanRepository, adminID string, log *slog.Logger) *BanManager {
	return &BanManager{
		repo:    repo,
		adminID: adminID,
		log:     log,
	}
}

// Ban накладывает 24-часовой бан, затирая предыдущую запись.
// Для администратора операция игнорируется.
func (m *BanManager) Ban(ctx context.Context, userID, reason, ip string) {
	const op = "moderation.Ban"

	if userID == m.adminID {
		return
	}

	now := time.Now().UTC()
	record := models.BanRecord{
		BannedAt:  now,
		ExpiresAt: now.Add(BanDuration),
		Reason:    reason,
		IP:        ip,
	}
	if err := m.repo.PutBan(ctx, userID, record); err != nil {
		// Отказ хранилища не должен ронять запрос.
		m.log.Error("failed to persist ban", slog.String("op", op),
			slog.String("user", userID), sl.Err(err))
	}
}

// IsBanned проверяет, действует ли бан. Просроченная запись удаляется
// при проверке; отказ хранилища трактуется как отсутствие бана
// (доступность важнее строгости), ошибка логируется.
func (m *BanManager) IsBanned(ctx context.Context, userID string) bool {
	const op = "moderation.IsBanned"

	if userID == m.adminID {
		return false
	}

	record, err := m.repo.GetBan(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			m.log.Error("failed to read ban store", slog.String("op", op),
				slog.String("user", userID), sl.Err(err))
		}
		return false
	}

	if !record.Active(time.Now().UTC()) {
		if _, err := m.repo.DeleteBan(ctx, userID); err != nil {
			m.log.Error("failed to clean expired ban", slog.String("op", op),
				slog.String("user", userID), sl.Err(err))
		}
		return false
	}
	return true
}

// Unban снимает бан. Возвращает, была ли удалена запись.
func (m *BanManager) Unban(ctx context.Context, userID string) (bool, error) {
	return m.repo.DeleteBan(ctx, userID)
}

// List возвращает все записи банов для административного интерфейса.
func (m *BanManager) List(ctx context.Context) (map[string]models.BanRecord, error) {
	return m.repo.ListBans(ctx)
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
