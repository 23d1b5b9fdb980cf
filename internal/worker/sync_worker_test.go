package worker

import (
	"context"
	"path/filepath"
	"testing"

	"rota/internal/amqp"
	"rota/internal/backup/memory"
	"rota/internal/core"
	"rota/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWorker(t *testing.T) (*SyncWorker, *storage.SQLiteRepository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	mirror := memory.New()
	return NewSyncWorker(repo, mirror, 10), repo, mirror
}

func seedEntry(t *testing.T, repo *storage.SQLiteRepository, id string) core.Entry {
	t.Helper()
	e, err := core.ComputeIncomeEntry(core.IncomeParams{
		ID:        id,
		Date:      core.NewDate(2025, 3, 10),
		Time:      "12:30",
		StoreName: "App A",
		Gross:     decimal.NewFromInt(100),
		Payment:   core.PaymentCash,
	}, core.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, repo.SaveEntry(context.Background(), e))
	return e
}

func TestHandleSyncMessage(t *testing.T) {
	w, repo, mirror := newWorker(t)
	ctx := context.Background()

	seedEntry(t, repo, "e1")
	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewEntrySyncMessage("e1")))

	entries := mirror.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].ID)

	// entry marked synced, pending queue drained
	pending, err := repo.GetPendingSyncEntries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestHandleSyncMessageMissingEntry(t *testing.T) {
	w, _, mirror := newWorker(t)

	// entry deleted between publish and consume: skip, no error, no requeue
	err := w.HandleSyncMessage(context.Background(), amqp.NewEntrySyncMessage("gone"))
	assert.NoError(t, err)
	assert.Empty(t, mirror.Entries())
}

func TestHandleDeleteMessage(t *testing.T) {
	w, repo, mirror := newWorker(t)
	ctx := context.Background()

	seedEntry(t, repo, "e1")
	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewEntrySyncMessage("e1")))
	require.Len(t, mirror.Entries(), 1)

	require.NoError(t, w.HandleSyncMessage(ctx, amqp.NewEntryDeleteMessage("e1")))
	assert.Empty(t, mirror.Entries())
}

func TestStartupSyncCheck(t *testing.T) {
	w, repo, mirror := newWorker(t)
	ctx := context.Background()

	seedEntry(t, repo, "e1")
	seedEntry(t, repo, "e2")

	require.NoError(t, w.StartupSyncCheck(ctx))
	assert.Len(t, mirror.Entries(), 2)

	pending, err := repo.GetPendingSyncEntries(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessPendingIsIdempotent(t *testing.T) {
	w, repo, mirror := newWorker(t)
	ctx := context.Background()

	seedEntry(t, repo, "e1")
	require.NoError(t, w.ProcessPending(ctx))
	require.NoError(t, w.ProcessPending(ctx))

	assert.Len(t, mirror.Entries(), 1)
}
