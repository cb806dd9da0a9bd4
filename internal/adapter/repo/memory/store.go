package memory

import (
	"context"
	"sync"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/domain/colony"
)

// Store keeps every colony in process memory. The TxManager holds the write
// lock for a whole transaction; repositories called outside one take the
// lock themselves.
type Store struct {
	mu        sync.RWMutex
	colonies  map[string]ports.ColonyRecord
	execution map[string]ports.CommandExecutionRecord
	events    map[string][]colony.DomainEvent
}

func NewStore() *Store {
	return &Store{
		colonies:  make(map[string]ports.ColonyRecord),
		execution: make(map[string]ports.CommandExecutionRecord),
		events:    make(map[string][]colony.DomainEvent),
	}
}

func execKey(colonyID, key string) string {
	return colonyID + "::" + key
}

type txKeyType struct{}

var txKey = txKeyType{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey).(bool)
	return v
}

func (s *Store) read(ctx context.Context, fn func()) {
	if !inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if !inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn()
}
