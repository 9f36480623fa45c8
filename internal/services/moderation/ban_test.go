package moderation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/storage"
)

type BanRepoMock struct {
	mock.Mock
}

func (m *BanRepoMock) GetBan(ctx context.Context, userID string) (*models.BanRecord, error) {
	args := m.Called(ctx, userID)
	rec, _ := args.Get(0).(*models.BanRecord)
	return rec, args.Error(1)
}

func (m *BanRepoMock) PutBan(ctx context.Context, userID string, record models.BanRecord) error {
	args := m.Called(ctx, userID, record)
	return args.Error(0)
}

func (m *BanRepoMock) DeleteBan(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *BanRepoMock) ListBans(ctx context.Context) (map[string]models.BanRecord, error) {
	args := m.Called(ctx)
	bans, _ := args.Get(0).(map[string]models.BanRecord)
	return bans, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestBan_WritesRecordWithExpiry(t *testing.T) {
	repo := new(BanRepoMock)
	manager := NewBanManager(repo, "admin", newNoopLogger())

	repo.On("PutBan", mock.Anything, "user@example.com", mock.MatchedBy(func(rec models.BanRecord) bool {
		return rec.Reason == "exploitation attempt: hack" &&
			rec.ExpiresAt.Sub(rec.BannedAt) == BanDuration
	})).Return(nil).Once()

	manager.Ban(context.Background(), "user@example.com", "exploitation attempt: hack", "203.0.113.7")
	repo.AssertExpectations(t)
}

func TestBan_AdminIsNeverBanned(t *testing.T) {
	repo := new(BanRepoMock)
	manager := NewBanManager(repo, "admin", newNoopLogger())

	manager.Ban(context.Background(), "admin", "reason", "ip")
	repo.AssertNotCalled(t, "PutBan", mock.Anything, mock.Anything, mock.Anything)
}

func TestIsBanned_ActiveBan(t *testing.T) {
	repo := new(BanRepoMock)
	manager := NewBanManager(repo, "admin", newNoopLogger())

	record := &models.BanRecord{
		BannedAt:  time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	// Повторные проверки внутри окна не переписывают хранилище.
	repo.On("GetBan", mock.Anything, "user@example.com").Return(record, nil).Times(3)

	for i := 0; i < 3; i++ {
		assert.True(t, manager.IsBanned(context.Background(), "user@example.com"))
	}
	repo.AssertNotCalled(t, "DeleteBan", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestIsBanned_ExpiredBanIsCleaned(t *testing.T) {
	repo := new(BanRepoMock)
	manager := NewBanManager(repo, "admin", newNoopLogger())

	record := &models.BanRecord{
		BannedAt:  time.Now().UTC().Add(-25 * time.Hour),
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	repo.On("GetBan", mock.Anything, "user@example.com").Return(record, nil).Once()
	repo.On("DeleteBan", mock.Anything, "user@example.com").Return(true, nil).Once()

	assert.False(t, manager.IsBanned(context.Background(), "user@example.com"))
	repo.AssertExpectations(t)
}

func TestIsBanned_NoRecord(t *testing.T) {
	repo := new(BanRepoMock)
	manager := NewBanManager(repo, "admin", newNoopLogger())

	repo.On("GetBan", mock.Anything, "user@example.com").
		Return(nil, storage.ErrNotFound).Once()

	assert.False(t, manager.IsBanned(context.Background(), "user@example.com"))
}

func TestIsBanned_AdminExemptRegardlessOfStore(t *testing.T) {
	repo := new(BanRepoMock)
	manager := NewBanManager(repo, "admin", newNoopLogger())

	// Хранилище даже не опрашивается.
	assert.False(t, manager.IsBanned(context.Background(), "admin"))
	repo.AssertNotCalled(t, "GetBan", mock.Anything, mock.Anything)
}

func TestIsBanned_StorageFailureFailsOpen(t *testing.T) {
	repo := new(BanRepoMock)
	manager := NewBanManager(repo, "admin", newNoopLogger())

	repo.On("GetBan", mock.Anything, "user@example.com").
		Return(nil, errors.New("disk on fire")).Once()

	assert.False(t, manager.IsBanned(context.Background(), "user@example.com"))
}

func TestUnban(t *testing.T) {
	repo := new(BanRepoMock)
	manager := NewBanManager(repo, "admin", newNoopLogger())

	repo.On("DeleteBan", mock.Anything, "user@example.com").Return(true, nil).Once()

	removed, err := manager.Unban(context.Background(), "user@example.com")
	assert.NoError(t, err)
	assert.True(t, removed)
}
