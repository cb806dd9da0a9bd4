// Package worldstate loads and stores colony worlds through the ports.
package worldstate

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"time"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/domain/colony"
)

// Rules is the static data every world is built against.
type Rules struct {
	Catalog colony.Catalog
	Tuning  colony.Tuning
}

// Load restores a stored colony. When none exists and create is set, the
// starting world is built from a seed derived from the colony id and version 0
// is returned.
func Load(ctx context.Context, repo ports.ColonyRepository, rules Rules, colonyID string, create bool) (*colony.World, int64, error) {
	rec, err := repo.Get(ctx, colonyID)
	if errors.Is(err, ports.ErrNotFound) && create {
		return colony.NewWorld(rules.Catalog, rules.Tuning, SeedFor(colonyID)), 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	w, err := colony.Restore(rec.Snapshot, rules.Catalog, rules.Tuning)
	if err != nil {
		return nil, 0, fmt.Errorf("colony %s: %w", colonyID, err)
	}
	return w, rec.Version, nil
}

// Save persists w and returns the stored record.
func Save(ctx context.Context, repo ports.ColonyRepository, colonyID string, w *colony.World, expectedVersion int64, now time.Time) (ports.ColonyRecord, error) {
	snap, err := w.Export()
	if err != nil {
		return ports.ColonyRecord{}, err
	}
	rec := ports.ColonyRecord{
		ColonyID:  colonyID,
		Snapshot:  snap,
		Version:   expectedVersion + 1,
		UpdatedAt: now,
	}
	if err := repo.SaveWithVersion(ctx, rec, expectedVersion); err != nil {
		return ports.ColonyRecord{}, err
	}
	return rec, nil
}

func SeedFor(colonyID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(colonyID))
	return h.Sum64()
}

// Ledger flattens the resource table into telemetry rows.
func Ledger(colonyID string, w *colony.World) []ports.TelemetryRow {
	rows := make([]ports.TelemetryRow, 0, len(colony.ResourceKinds))
	for _, kind := range colony.ResourceKinds {
		res := w.Resources[kind]
		if res == nil {
			continue
		}
		rows = append(rows, ports.TelemetryRow{
			ColonyID:    colonyID,
			Tick:        w.Clock.Tick,
			Resource:    string(kind),
			Amount:      res.Amount,
			Capacity:    res.Capacity,
			Production:  res.Production,
			Consumption: res.Consumption,
		})
	}
	return rows
}
