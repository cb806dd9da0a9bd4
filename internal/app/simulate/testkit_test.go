package simulate

import (
	"context"
	"testing"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/app/shared/worldstate"
	"shelterverse/internal/config"
	"shelterverse/internal/domain/colony"
)

type stubTxManager struct{}

func (stubTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubColonyRepo struct {
	byID    map[string]ports.ColonyRecord
	saveErr error
}

func (r *stubColonyRepo) Get(_ context.Context, colonyID string) (ports.ColonyRecord, error) {
	rec, ok := r.byID[colonyID]
	if !ok {
		return ports.ColonyRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r *stubColonyRepo) SaveWithVersion(_ context.Context, rec ports.ColonyRecord, expectedVersion int64) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	current, ok := r.byID[rec.ColonyID]
	if (!ok && expectedVersion != 0) || (ok && current.Version != expectedVersion) {
		return ports.ErrConflict
	}
	r.byID[rec.ColonyID] = rec
	return nil
}

type stubEventRepo struct {
	events []colony.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []colony.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByColonyID(_ context.Context, _ string, _ int) ([]colony.DomainEvent, error) {
	return r.events, nil
}

type stubArchive struct {
	ticks []int64
	err   error
}

func (a *stubArchive) Write(_ context.Context, _ string, snap colony.Snapshot) error {
	if a.err != nil {
		return a.err
	}
	a.ticks = append(a.ticks, snap.Clock.Tick)
	return nil
}

type stubTelemetry struct {
	rows []ports.TelemetryRow
}

func (s *stubTelemetry) Record(_ context.Context, rows []ports.TelemetryRow) error {
	s.rows = append(s.rows, rows...)
	return nil
}

type stubMetrics struct {
	weeks     int
	advances  int
	conflicts int
}

func (m *stubMetrics) RecordAdvance(weeks int) {
	m.advances++
	m.weeks += weeks
}

func (m *stubMetrics) RecordCommand(string)   {}
func (m *stubMetrics) RecordRejection(string) {}
func (m *stubMetrics) RecordConflict()        { m.conflicts++ }

func testRules(t *testing.T) worldstate.Rules {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	return worldstate.Rules{Catalog: cfg.Catalog, Tuning: cfg.Tuning}
}

var (
	_ ports.SnapshotArchive = (*stubArchive)(nil)
	_ ports.TelemetrySink   = (*stubTelemetry)(nil)
	_ ports.SimMetrics      = (*stubMetrics)(nil)
)
