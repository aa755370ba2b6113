package providers

import (
	"context"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
)

// SyncRunStore persists ingestion job status so it can be polled after the
// triggering request has returned.
type SyncRunStore interface {
	Save(ctx context.Context, run *entities.SyncRun) error
	Get(ctx context.Context, id string) (*entities.SyncRun, error)
	Latest(ctx context.Context) (*entities.SyncRun, error)
}
