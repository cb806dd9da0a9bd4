package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"shelterverse/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		if got := parseLevel(raw); got != want {
			t.Fatalf("parseLevel(%q)=%v want %v", raw, got, want)
		}
	}
}

func TestBuildLogger_JSONFormat(t *testing.T) {
	logger := buildLogger(config.ServerConfig{LogFormat: "json", LogLevel: "warn"})
	if _, ok := logger.Handler().(*slog.JSONHandler); !ok {
		t.Fatalf("expected JSON handler, got %T", logger.Handler())
	}
	if logger.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info must be disabled at warn level")
	}
}

func TestBuildLogger_DefaultsToText(t *testing.T) {
	logger := buildLogger(config.ServerConfig{})
	if _, ok := logger.Handler().(*slog.TextHandler); !ok {
		t.Fatalf("expected text handler, got %T", logger.Handler())
	}
}

func TestBuildRepos_MemoryWithoutDSN(t *testing.T) {
	r, err := buildRepos(context.Background(), config.ServerConfig{}, slog.Default())
	if err != nil {
		t.Fatalf("buildRepos error: %v", err)
	}
	if r.backend != "memory" {
		t.Fatalf("backend=%q want memory", r.backend)
	}
	if r.colonies == nil || r.executions == nil || r.events == nil || r.tx == nil {
		t.Fatalf("expected all repositories to be wired: %+v", r)
	}
}

func TestMigrationSource_EmbeddedByDefault(t *testing.T) {
	fsys, dir := migrationSource("")
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected embedded migrations")
	}
}

func TestMigrationSource_UsesDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "0001_custom.sql"), []byte("SELECT 1;"), 0o644); err != nil {
		t.Fatalf("write migration: %v", err)
	}
	fsys, sub := migrationSource(dir)
	if _, err := fs.Stat(fsys, filepath.Join(sub, "0001_custom.sql")); err != nil {
		t.Fatalf("expected custom migration to be visible: %v", err)
	}
}
