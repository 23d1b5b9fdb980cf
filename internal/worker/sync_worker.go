package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"rota/internal/amqp"
	"rota/internal/backup"
	"rota/internal/core"
	"rota/internal/log"
	"rota/internal/storage"
)

// SyncWorker mirrors entries from SQLite to the configured backup target.
type SyncWorker struct {
	store     *storage.SQLiteRepository
	mirror    backup.Mirror
	batchSize int
}

func NewSyncWorker(store *storage.SQLiteRepository, mirror backup.Mirror, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single entry sync message from AMQP. The
// current row is always fetched from the database so a stale message never
// writes outdated data to the mirror.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.EntrySyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		log.FieldEntryID, msg.ID,
		log.FieldAction, msg.Action)

	if msg.Action == amqp.ActionDelete {
		if err := w.mirror.Delete(ctx, msg.ID); err != nil {
			return fmt.Errorf("delete entry from mirror: %w", err)
		}
		slog.InfoContext(ctx, "Entry removed from mirror", log.FieldEntryID, msg.ID)
		return nil
	}

	entry, err := w.store.GetEntry(ctx, msg.ID)
	if errors.Is(err, core.ErrEntryNotFound) {
		// deleted between publish and consume; the delete message will follow
		slog.WarnContext(ctx, "Entry no longer exists, skipping sync", log.FieldEntryID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get entry from storage: %w", err)
	}

	if err := w.syncEntry(ctx, entry); err != nil {
		return fmt.Errorf("sync entry to mirror: %w", err)
	}
	return nil
}

// ProcessPending mirrors any entries that have not been synced yet. This is
// a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncEntries(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending entries: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "count", len(pending))

	for _, p := range pending {
		id := p.ID
		entry, err := w.store.GetEntry(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry", "id", id, "error", err)
			if err := w.store.MarkSyncError(ctx, id); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
			}
			continue
		}
		if err := w.syncEntry(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry", "id", id, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains the pending queue at worker startup to recover
// from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncEntries(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending entries for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending entries found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending entries on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		id := p.ID
		entry, err := w.store.GetEntry(ctx, id)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get entry for startup sync",
				"id", id, "error", err)
			if err := w.store.MarkSyncError(ctx, id); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", id, "error", err)
			}
			errorCount++
			continue
		}
		if err := w.syncEntry(ctx, entry); err != nil {
			slog.ErrorContext(ctx, "Failed to sync entry during startup",
				"id", id, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)
	return nil
}

func (w *SyncWorker) syncEntry(ctx context.Context, entry core.Entry) error {
	ref, err := w.mirror.Append(ctx, entry)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, entry.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", entry.ID, "error", markErr)
		}
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.store.MarkSynced(ctx, entry.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", entry.ID, "error", err)
		// the mirror write itself succeeded
	}

	slog.InfoContext(ctx, "Entry synced",
		log.FieldEntryID, entry.ID,
		log.FieldMirrorRef, ref,
		"kind", entry.Kind,
		"date", entry.Date.String())
	return nil
}
