package memory

import (
	"context"

	"shelterverse/internal/app/ports"
)

type ColonyRepo struct {
	store *Store
}

func NewColonyRepo(store *Store) ColonyRepo {
	return ColonyRepo{store: store}
}

func (r ColonyRepo) Get(ctx context.Context, colonyID string) (ports.ColonyRecord, error) {
	var (
		rec ports.ColonyRecord
		ok  bool
	)
	r.store.read(ctx, func() {
		rec, ok = r.store.colonies[colonyID]
	})
	if !ok {
		return ports.ColonyRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r ColonyRepo) SaveWithVersion(ctx context.Context, rec ports.ColonyRecord, expectedVersion int64) error {
	return r.store.write(ctx, func() error {
		current, ok := r.store.colonies[rec.ColonyID]
		if !ok {
			if expectedVersion != 0 {
				return ports.ErrConflict
			}
			r.store.colonies[rec.ColonyID] = rec
			return nil
		}
		if current.Version != expectedVersion {
			return ports.ErrConflict
		}
		r.store.colonies[rec.ColonyID] = rec
		return nil
	})
}
