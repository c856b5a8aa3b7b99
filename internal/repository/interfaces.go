package repository

import (
	"context"

	"github.com/Tina-Mai/storm/pkg/bandit"
)

// SnapshotCache defines live run state operations (Redis). It holds only
// the current run and is cleared whenever a new run starts.
type SnapshotCache interface {
	SetSnapshot(ctx context.Context, snap bandit.Snapshot) error
	GetSnapshot(ctx context.Context) (*bandit.Snapshot, error)
	Clear(ctx context.Context) error
}
