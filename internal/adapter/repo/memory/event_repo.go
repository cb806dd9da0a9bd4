package memory

import (
	"context"

	"shelterverse/internal/domain/colony"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, colonyID string, events []colony.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.store.write(ctx, func() error {
		r.store.events[colonyID] = append(r.store.events[colonyID], events...)
		return nil
	})
}

// ListByColonyID returns the most recent limit events oldest first; a
// non-positive limit returns the whole history.
func (r EventRepo) ListByColonyID(ctx context.Context, colonyID string, limit int) ([]colony.DomainEvent, error) {
	var out []colony.DomainEvent
	r.store.read(ctx, func() {
		all := r.store.events[colonyID]
		start := 0
		if limit > 0 && limit < len(all) {
			start = len(all) - limit
		}
		out = make([]colony.DomainEvent, len(all)-start)
		copy(out, all[start:])
	})
	return out, nil
}
