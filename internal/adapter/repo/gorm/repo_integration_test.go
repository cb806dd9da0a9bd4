package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"shelterverse/db"
	"shelterverse/internal/app/ports"
	"shelterverse/internal/domain/colony"

	"gorm.io/gorm"
)

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("SHELTERVERSE_DB_DSN")
	if dsn == "" {
		t.Skip("SHELTERVERSE_DB_DSN is required for integration test")
	}
	return dsn
}

func openMigrated(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := OpenPostgres(requireDSN(t))
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	if _, err := ApplyMigrations(context.Background(), gdb, db.Migrations, "migrations"); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func TestColonyRepo_RoundTripAndVersion(t *testing.T) {
	gdb := openMigrated(t)
	colonyID := "it-colony-roundtrip"
	ctx := context.Background()
	_ = gdb.Exec("DELETE FROM colony_states WHERE colony_id = ?", colonyID).Error

	repo := NewColonyRepo(gdb)
	snap := colony.Snapshot{
		Seed:      9,
		Clock:     colony.Clock{Tick: 3, Speed: 1},
		Resources: map[colony.ResourceKind]*colony.Resource{colony.ResourceWater: {Amount: 120, Capacity: 500}},
		Habitants: []*colony.Habitant{{ID: "h-1", Name: "Lina", AgeWeeks: 400}},
	}
	rec := ports.ColonyRecord{ColonyID: colonyID, Snapshot: snap, Version: 1, UpdatedAt: time.Now().UTC()}
	if err := repo.SaveWithVersion(ctx, rec, 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, rec, 0); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("duplicate insert must conflict, got %v", err)
	}

	got, err := repo.Get(ctx, colonyID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Version != 1 || got.Snapshot.Clock.Tick != 3 {
		t.Fatalf("unexpected record: version=%d tick=%d", got.Version, got.Snapshot.Clock.Tick)
	}
	if got.Snapshot.Resources[colony.ResourceWater].Amount != 120 {
		t.Fatalf("water amount got=%v want=120", got.Snapshot.Resources[colony.ResourceWater].Amount)
	}

	rec.Version = 2
	rec.Snapshot.Clock.Tick = 4
	if err := repo.SaveWithVersion(ctx, rec, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.SaveWithVersion(ctx, rec, 1); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("stale update must conflict, got %v", err)
	}
	if _, err := repo.Get(ctx, "it-colony-missing"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventAndExecutionRepos_PersistInTx(t *testing.T) {
	gdb := openMigrated(t)
	colonyID := "it-colony-events"
	ctx := context.Background()
	_ = gdb.Exec("DELETE FROM colony_events WHERE colony_id = ?", colonyID).Error
	_ = gdb.Exec("DELETE FROM command_executions WHERE colony_id = ?", colonyID).Error

	events := NewEventRepo(gdb)
	executions := NewCommandExecutionRepo(gdb)
	tx := NewTxManager(gdb)

	err := tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := events.Append(txCtx, colonyID, []colony.DomainEvent{
			{Type: colony.EventWeekCompleted, Severity: colony.SeverityInfo, Title: "Week completed", Tick: 1, Payload: map[string]any{"population": 5}},
			{Type: colony.EventBrownout, Severity: colony.SeverityWarning, Title: "Brownout", Tick: 2},
		}); err != nil {
			return err
		}
		return executions.SaveExecution(txCtx, ports.CommandExecutionRecord{
			ColonyID:       colonyID,
			IdempotencyKey: "k-1",
			CommandType:    "build",
			Result:         ports.CommandResult{ResultCode: "ok", Tick: 2},
			AppliedAt:      time.Now().UTC(),
		})
	})
	if err != nil {
		t.Fatalf("tx: %v", err)
	}

	got, err := events.ListByColonyID(ctx, colonyID, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Type != colony.EventBrownout {
		t.Fatalf("expected latest brownout event, got=%+v", got)
	}
	all, err := events.ListByColonyID(ctx, colonyID, 0)
	if err != nil || len(all) != 2 || all[0].Tick != 1 {
		t.Fatalf("expected both events oldest first, got=%+v err=%v", all, err)
	}
	if all[0].Payload["population"] != float64(5) {
		t.Fatalf("payload got=%v", all[0].Payload)
	}

	exec, err := executions.GetByIdempotencyKey(ctx, colonyID, "k-1")
	if err != nil || exec.CommandType != "build" || exec.Result.Tick != 2 {
		t.Fatalf("unexpected execution: %+v err=%v", exec, err)
	}
	if _, err := executions.GetByIdempotencyKey(ctx, colonyID, "k-2"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTxManager_RollsBackOnError(t *testing.T) {
	gdb := openMigrated(t)
	colonyID := "it-colony-rollback"
	ctx := context.Background()
	_ = gdb.Exec("DELETE FROM colony_events WHERE colony_id = ?", colonyID).Error

	events := NewEventRepo(gdb)
	boom := errors.New("boom")
	err := NewTxManager(gdb).RunInTx(ctx, func(txCtx context.Context) error {
		if err := events.Append(txCtx, colonyID, []colony.DomainEvent{{Type: colony.EventWeekCompleted, Tick: 1}}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := events.ListByColonyID(ctx, colonyID, 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected rollback, got=%+v err=%v", got, err)
	}
}
