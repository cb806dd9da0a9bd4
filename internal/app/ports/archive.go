package ports

import (
	"context"

	"shelterverse/internal/domain/colony"
)

// SnapshotArchive keeps a copy of every persisted tick outside the database.
type SnapshotArchive interface {
	Write(ctx context.Context, colonyID string, snapshot colony.Snapshot) error
}

// ArchiveReader browses the archived snapshots of a colony.
type ArchiveReader interface {
	Ticks(ctx context.Context, colonyID string) ([]int64, error)
	Read(ctx context.Context, colonyID string, tick int64) (colony.Snapshot, error)
}

type TelemetryRow struct {
	ColonyID    string  `csv:"colony_id"`
	Tick        int64   `csv:"tick"`
	Resource    string  `csv:"resource"`
	Amount      float64 `csv:"amount"`
	Capacity    float64 `csv:"capacity"`
	Production  float64 `csv:"production"`
	Consumption float64 `csv:"consumption"`
}

// TelemetrySink receives the resource ledger after each advance.
type TelemetrySink interface {
	Record(ctx context.Context, rows []TelemetryRow) error
}
