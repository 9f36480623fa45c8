package memory

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rizzosai/domain-backoffice/internal/models"
	"github.com/rizzosai/domain-backoffice/internal/storage/jsonfile"
)

func newTestService(t *testing.T) (*Service, *jsonfile.Store) {
	dir := t.TempDir()
	store := jsonfile.New(
		filepath.Join(dir, "customers.json"),
		filepath.Join(dir, "banned_users.json"),
		filepath.Join(dir, "chat_memory.json"),
	)
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return New(store, log), store
}

func TestAppendAndGetContext(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, "u@example.com", models.ConversationRegular, "hello", "hi, I am Coey"))
	require.NoError(t, svc.Append(ctx, "u@example.com", models.ConversationRegular, "what next?", "read your first guide"))

	turns, err := svc.GetContext(ctx, "u@example.com", models.ConversationRegular)
	require.NoError(t, err)
	require.Len(t, turns, 4)

	assert.Equal(t, models.Turn{Role: "user", Content: "hello"}, turns[0])
	assert.Equal(t, models.Turn{Role: "assistant", Content: "hi, I am Coey"}, turns[1])
	assert.Equal(t, models.Turn{Role: "user", Content: "what next?"}, turns[2])
	assert.Equal(t, models.Turn{Role: "assistant", Content: "read your first guide"}, turns[3])
}

func TestGetContext_EmptyHistory(t *testing.T) {
	svc, _ := newTestService(t)

	turns, err := svc.GetContext(context.Background(), "nobody", models.ConversationRegular)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestAppend_FIFOEvictionAtCap(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// 25 обменов: хранится не больше MaxStoredExchanges, старые уходят первыми.
	for i := 0; i < 25; i++ {
		require.NoError(t, svc.Append(ctx, "u@example.com", models.ConversationRegular,
			fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	exchanges, err := store.ListExchanges(ctx, "u@example.com", models.ConversationRegular)
	require.NoError(t, err)
	require.Len(t, exchanges, MaxStoredExchanges)

	// Остались самые свежие, в хронологическом порядке.
	assert.Equal(t, "q5", exchanges[0].User)
	assert.Equal(t, "q24", exchanges[len(exchanges)-1].User)
	for i := 1; i < len(exchanges); i++ {
		assert.LessOrEqual(t, exchanges[i-1].Timestamp, exchanges[i].Timestamp)
	}
}

func TestGetContext_BoundedWindow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, svc.Append(ctx, "u@example.com", models.ConversationRegular,
			fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i)))
	}

	turns, err := svc.GetContext(ctx, "u@example.com", models.ConversationRegular)
	require.NoError(t, err)
	require.Len(t, turns, ContextExchanges*2)
	assert.Equal(t, "q5", turns[0].Content)
	assert.Equal(t, "a14", turns[len(turns)-1].Content)
}

func TestConversationTypesAreIsolated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Append(ctx, "u", models.ConversationRegular, "regular q", "a"))
	require.NoError(t, svc.Append(ctx, "u", models.ConversationOnboarding, "onboarding q", "a"))

	regular, err := svc.GetContext(ctx, "u", models.ConversationRegular)
	require.NoError(t, err)
	require.Len(t, regular, 2)
	assert.Equal(t, "regular q", regular[0].Content)

	onboarding, err := svc.GetContext(ctx, "u", models.ConversationOnboarding)
	require.NoError(t, err)
	require.Len(t, onboarding, 2)
	assert.Equal(t, "onboarding q", onboarding[0].Content)
}
