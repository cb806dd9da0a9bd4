package ports

import (
	"context"
	"time"

	"shelterverse/internal/domain/colony"
)

// ColonyRecord is the persisted state of one colony.
type ColonyRecord struct {
	ColonyID  string
	Snapshot  colony.Snapshot
	Version   int64
	UpdatedAt time.Time
}

type CommandResult struct {
	Events     []colony.DomainEvent
	ResultCode string
	Tick       int64
}

// CommandExecutionRecord remembers the outcome of a command so that a retried
// request with the same idempotency key replays instead of re-applying.
type CommandExecutionRecord struct {
	ColonyID       string
	IdempotencyKey string
	CommandType    string
	Result         CommandResult
	AppliedAt      time.Time
}

type ColonyRepository interface {
	Get(ctx context.Context, colonyID string) (ColonyRecord, error)
	// SaveWithVersion inserts when expectedVersion is 0 and otherwise updates
	// only if the stored version still matches.
	SaveWithVersion(ctx context.Context, record ColonyRecord, expectedVersion int64) error
}

type CommandExecutionRepository interface {
	GetByIdempotencyKey(ctx context.Context, colonyID, key string) (*CommandExecutionRecord, error)
	SaveExecution(ctx context.Context, execution CommandExecutionRecord) error
}

type EventRepository interface {
	Append(ctx context.Context, colonyID string, events []colony.DomainEvent) error
	// ListByColonyID returns the latest limit events in emission order. A
	// non-positive limit returns the whole history.
	ListByColonyID(ctx context.Context, colonyID string, limit int) ([]colony.DomainEvent, error)
}
