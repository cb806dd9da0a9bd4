package command

import (
	"context"
	"testing"
	"time"

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
	byID map[string]ports.ColonyRecord
}

func (r *stubColonyRepo) Get(_ context.Context, colonyID string) (ports.ColonyRecord, error) {
	rec, ok := r.byID[colonyID]
	if !ok {
		return ports.ColonyRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r *stubColonyRepo) SaveWithVersion(_ context.Context, rec ports.ColonyRecord, expectedVersion int64) error {
	current, ok := r.byID[rec.ColonyID]
	if !ok {
		if expectedVersion != 0 {
			return ports.ErrConflict
		}
		r.byID[rec.ColonyID] = rec
		return nil
	}
	if current.Version != expectedVersion {
		return ports.ErrConflict
	}
	r.byID[rec.ColonyID] = rec
	return nil
}

type conflictOnSaveColonyRepo struct {
	stubColonyRepo
}

func (r *conflictOnSaveColonyRepo) SaveWithVersion(_ context.Context, _ ports.ColonyRecord, _ int64) error {
	return ports.ErrConflict
}

type stubExecutionRepo struct {
	byKey map[string]ports.CommandExecutionRecord
}

func (r *stubExecutionRepo) GetByIdempotencyKey(_ context.Context, colonyID, key string) (*ports.CommandExecutionRecord, error) {
	rec, ok := r.byKey[colonyID+"|"+key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copy := rec
	return &copy, nil
}

func (r *stubExecutionRepo) SaveExecution(_ context.Context, exec ports.CommandExecutionRecord) error {
	r.byKey[exec.ColonyID+"|"+exec.IdempotencyKey] = exec
	return nil
}

type stubEventRepo struct {
	events []colony.DomainEvent
}

func (r *stubEventRepo) Append(_ context.Context, _ string, events []colony.DomainEvent) error {
	r.events = append(r.events, events...)
	return nil
}

func (r *stubEventRepo) ListByColonyID(_ context.Context, _ string, limit int) ([]colony.DomainEvent, error) {
	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}
	out := make([]colony.DomainEvent, limit)
	copy(out, r.events[:limit])
	return out, nil
}

type stubMetrics struct {
	commands   []string
	rejections []string
	conflicts  int
}

func (m *stubMetrics) RecordAdvance(int) {}

func (m *stubMetrics) RecordCommand(commandType string) {
	m.commands = append(m.commands, commandType)
}

func (m *stubMetrics) RecordRejection(code string) {
	m.rejections = append(m.rejections, code)
}

func (m *stubMetrics) RecordConflict() {
	m.conflicts++
}

type fixture struct {
	uc         UseCase
	colonies   *stubColonyRepo
	executions *stubExecutionRepo
	events     *stubEventRepo
	metrics    *stubMetrics
}

// newFixture stores the default starting colony under "colony-1" at version 1.
func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	rules := worldstate.Rules{Catalog: cfg.Catalog, Tuning: cfg.Tuning}
	colonies := &stubColonyRepo{byID: map[string]ports.ColonyRecord{}}
	w := colony.NewWorld(rules.Catalog, rules.Tuning, 7)
	now := time.Unix(1_700_000_000, 0).UTC()
	if _, err := worldstate.Save(context.Background(), colonies, "colony-1", w, 0, now); err != nil {
		t.Fatalf("seed colony: %v", err)
	}
	f := fixture{
		colonies:   colonies,
		executions: &stubExecutionRepo{byKey: map[string]ports.CommandExecutionRecord{}},
		events:     &stubEventRepo{},
		metrics:    &stubMetrics{},
	}
	f.uc = UseCase{
		TxManager:  stubTxManager{},
		Colonies:   f.colonies,
		Executions: f.executions,
		Events:     f.events,
		Metrics:    f.metrics,
		Rules:      rules,
		Now:        func() time.Time { return now },
	}
	return f
}

func (f fixture) world(t *testing.T) *colony.World {
	t.Helper()
	w, _, err := worldstate.Load(context.Background(), f.colonies, f.uc.Rules, "colony-1", false)
	if err != nil {
		t.Fatalf("load colony: %v", err)
	}
	return w
}

var (
	_ ports.ColonyRepository           = (*stubColonyRepo)(nil)
	_ ports.CommandExecutionRepository = (*stubExecutionRepo)(nil)
	_ ports.EventRepository            = (*stubEventRepo)(nil)
	_ ports.SimMetrics                 = (*stubMetrics)(nil)
)
