package backup

import (
	"context"

	"rota/internal/core"
)

// Ports for the backup mirror adapters.
type (
	EntryAppender interface {
		// Append writes or rewrites an entry in the mirror and returns a
		// reference to where it landed.
		Append(ctx context.Context, e core.Entry) (rowRef string, err error)
	}

	EntryDeleter interface {
		Delete(ctx context.Context, id string) error
	}

	// Mirror is the full backup target surface the worker drives.
	Mirror interface {
		EntryAppender
		EntryDeleter
	}
)
