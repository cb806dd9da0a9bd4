package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"shelterverse/db"
	zstdarchive "shelterverse/internal/adapter/archive/zstd"
	httpadapter "shelterverse/internal/adapter/http"
	metricsinmem "shelterverse/internal/adapter/metrics/inmemory"
	gormrepo "shelterverse/internal/adapter/repo/gorm"
	"shelterverse/internal/adapter/repo/memory"
	csvtelemetry "shelterverse/internal/adapter/telemetry/csv"
	"shelterverse/internal/app/archive"
	"shelterverse/internal/app/command"
	"shelterverse/internal/app/found"
	"shelterverse/internal/app/ports"
	"shelterverse/internal/app/replay"
	"shelterverse/internal/app/shared/worldstate"
	"shelterverse/internal/app/simulate"
	"shelterverse/internal/app/status"
	"shelterverse/internal/config"

	"github.com/cloudwego/hertz/pkg/app/server"
)

type repos struct {
	colonies   ports.ColonyRepository
	executions ports.CommandExecutionRepository
	events     ports.EventRepository
	tx         ports.TxManager
	backend    string
}

func main() {
	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	cfg.ApplyEnv(os.Getenv)

	logger := buildLogger(cfg.Server)
	slog.SetDefault(logger)

	r, err := buildRepos(context.Background(), cfg.Server, logger)
	if err != nil {
		logger.Error("build repositories", "err", err)
		os.Exit(1)
	}

	var (
		snapshots ports.SnapshotArchive
		history   ports.ArchiveReader
	)
	if dir := strings.TrimSpace(cfg.Server.ArchiveDir); dir != "" {
		a := zstdarchive.New(dir)
		snapshots, history = a, a
	}
	var telemetry ports.TelemetrySink
	if path := strings.TrimSpace(cfg.Server.TelemetryFile); path != "" {
		sink, err := csvtelemetry.Open(path)
		if err != nil {
			logger.Error("open telemetry file", "path", path, "err", err)
			os.Exit(1)
		}
		defer sink.Close()
		telemetry = sink
	}

	rules := worldstate.Rules{Catalog: cfg.Catalog, Tuning: cfg.Tuning}
	kpiRecorder := metricsinmem.NewRecorder()

	h := httpadapter.Handler{
		FoundUC: found.UseCase{
			TxManager: r.tx,
			Colonies:  r.colonies,
			Rules:     rules,
			Now:       time.Now,
		},
		SimulateUC: simulate.UseCase{
			TxManager: r.tx,
			Colonies:  r.colonies,
			Events:    r.events,
			Archive:   snapshots,
			Telemetry: telemetry,
			Metrics:   kpiRecorder,
			Rules:     rules,
			Logger:    logger,
			Now:       time.Now,
		},
		CommandUC: command.UseCase{
			TxManager:  r.tx,
			Colonies:   r.colonies,
			Executions: r.executions,
			Events:     r.events,
			Metrics:    kpiRecorder,
			Rules:      rules,
			Logger:     logger,
			Now:        time.Now,
		},
		StatusUC:  status.UseCase{Colonies: r.colonies, Rules: rules},
		ReplayUC:  replay.UseCase{Events: r.events, DefaultLimit: cfg.Server.ReplayLimit},
		ArchiveUC: archive.UseCase{Reader: history},
		KPI:       kpiRecorder,

		AllowOrigin: cfg.Server.CORSOrigin,
	}

	s := server.Default(server.WithHostPorts(cfg.Server.Addr))
	h.RegisterRoutes(s)

	logger.Info("shelterverse server listening",
		"addr", cfg.Server.Addr,
		"store", r.backend,
		"archive", snapshots != nil,
		"telemetry", telemetry != nil,
	)
	s.Spin()
}

func buildLogger(cfg config.ServerConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if strings.EqualFold(strings.TrimSpace(cfg.LogFormat), "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func parseLevel(raw string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// buildRepos keeps colonies in memory when no DSN is configured.
func buildRepos(ctx context.Context, cfg config.ServerConfig, logger *slog.Logger) (repos, error) {
	dsn := strings.TrimSpace(cfg.DBDSN)
	if dsn == "" {
		store := memory.NewStore()
		return repos{
			colonies:   memory.NewColonyRepo(store),
			executions: memory.NewCommandExecutionRepo(store),
			events:     memory.NewEventRepo(store),
			tx:         memory.NewTxManager(store),
			backend:    "memory",
		}, nil
	}

	gdb, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		return repos{}, fmt.Errorf("open postgres: %w", err)
	}
	if cfg.AutoMigrate {
		fsys, dir := migrationSource(cfg.MigrationsDir)
		applied, err := gormrepo.ApplyMigrations(ctx, gdb, fsys, dir)
		if err != nil {
			return repos{}, fmt.Errorf("apply migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.Info("migrations applied", "versions", applied)
		}
	}
	return repos{
		colonies:   gormrepo.NewColonyRepo(gdb),
		executions: gormrepo.NewCommandExecutionRepo(gdb),
		events:     gormrepo.NewEventRepo(gdb),
		tx:         gormrepo.NewTxManager(gdb),
		backend:    "postgres",
	}, nil
}

// migrationSource prefers an on-disk directory over the embedded set.
func migrationSource(dir string) (fs.FS, string) {
	if dir = strings.TrimSpace(dir); dir != "" {
		return os.DirFS(dir), "."
	}
	return db.Migrations, "migrations"
}
