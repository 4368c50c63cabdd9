package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serotonyl.ru/telebot-pro/internal/features/botstate"
	"serotonyl.ru/telebot-pro/internal/storage"
)

type failingWriter struct{}

func (failingWriter) SaveAs(context.Context, string, botstate.BotState) error {
	return errors.New("disk full")
}

func TestRunBackupWritesSnapshot(t *testing.T) {
	slot := storage.NewMemory()
	repo := botstate.NewRepository(slot, "telebotProState")
	store := botstate.NewStore(t.Context(), repo)
	_, err := store.AddBannedWord(t.Context(), "spam")
	require.NoError(t, err)

	s := NewScheduler(store, repo, "telebotProState.backup", "", time.UTC)
	require.NoError(t, s.RunBackup(t.Context()))

	blob, ok, err := slot.Get(t.Context(), "telebotProState.backup")
	require.NoError(t, err)
	require.True(t, ok)

	backup, err := botstate.Unmarshal(blob)
	require.NoError(t, err)
	assert.Equal(t, []string{"spam"}, backup.BannedWords)
}

func TestRunBackupError(t *testing.T) {
	store := botstate.NewStore(t.Context(), botstate.NewRepository(storage.NewMemory(), "k"))
	s := NewScheduler(store, failingWriter{}, "k.backup", "", nil)

	assert.Error(t, s.RunBackup(t.Context()))
}

func TestStart(t *testing.T) {
	store := botstate.NewStore(t.Context(), botstate.NewRepository(storage.NewMemory(), "k"))

	disabled := NewScheduler(store, failingWriter{}, "k.backup", "", time.UTC)
	require.NoError(t, disabled.Start(t.Context()))
	disabled.Stop()

	bad := NewScheduler(store, failingWriter{}, "k.backup", "not a cron", time.UTC)
	assert.Error(t, bad.Start(t.Context()))

	ok := NewScheduler(store, failingWriter{}, "k.backup", "0 3 * * *", time.UTC)
	require.NoError(t, ok.Start(t.Context()))
	assert.Len(t, ok.cron.Entries(), 1)
	ok.Stop()
}
