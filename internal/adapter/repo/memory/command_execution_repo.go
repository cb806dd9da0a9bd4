package memory

import (
	"context"

	"shelterverse/internal/app/ports"
)

type CommandExecutionRepo struct {
	store *Store
}

func NewCommandExecutionRepo(store *Store) CommandExecutionRepo {
	return CommandExecutionRepo{store: store}
}

func (r CommandExecutionRepo) GetByIdempotencyKey(ctx context.Context, colonyID, key string) (*ports.CommandExecutionRecord, error) {
	var (
		rec ports.CommandExecutionRecord
		ok  bool
	)
	r.store.read(ctx, func() {
		rec, ok = r.store.execution[execKey(colonyID, key)]
	})
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := rec
	return &copy, nil
}

func (r CommandExecutionRepo) SaveExecution(ctx context.Context, execution ports.CommandExecutionRecord) error {
	return r.store.write(ctx, func() error {
		k := execKey(execution.ColonyID, execution.IdempotencyKey)
		if _, exists := r.store.execution[k]; exists {
			return ports.ErrConflict
		}
		r.store.execution[k] = execution
		return nil
	})
}
