// Package zstdarchive stores compressed colony snapshots on disk, one file per
// persisted tick: <dir>/<colony>/<tick>.json.zst.
package zstdarchive

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/domain/colony"

	"github.com/klauspost/compress/zstd"
)

const ext = ".json.zst"

var ErrInvalidColonyID = errors.New("invalid colony id for archive path")

type Archive struct {
	dir string
}

func New(dir string) Archive {
	return Archive{dir: dir}
}

func (a Archive) path(colonyID string, tick int64) (string, error) {
	if colonyID == "" || colonyID == "." || colonyID == ".." || strings.ContainsAny(colonyID, `/\`) {
		return "", ErrInvalidColonyID
	}
	return filepath.Join(a.dir, colonyID, strconv.FormatInt(tick, 10)+ext), nil
}

// Write replaces the archive entry for the snapshot's tick atomically.
func (a Archive) Write(_ context.Context, colonyID string, snap colony.Snapshot) error {
	path, err := a.path(colonyID, snap.Clock.Tick)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := writeFile(tmp, snap); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeFile(path string, snap colony.Snapshot) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriterSize(enc, 64*1024)
	if err := json.NewEncoder(bw).Encode(snap); err != nil {
		_ = enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}

// Read decodes the snapshot archived for tick. A missing entry is reported as
// ports.ErrNotFound.
func (a Archive) Read(_ context.Context, colonyID string, tick int64) (colony.Snapshot, error) {
	var snap colony.Snapshot
	path, err := a.path(colonyID, tick)
	if err != nil {
		return snap, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return snap, fmt.Errorf("archive tick %d: %w", tick, ports.ErrNotFound)
	}
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	if err := json.NewDecoder(bufio.NewReaderSize(dec, 64*1024)).Decode(&snap); err != nil {
		return snap, fmt.Errorf("json decode: %w", err)
	}
	return snap, nil
}

// Ticks lists the archived ticks of a colony in ascending order.
func (a Archive) Ticks(_ context.Context, colonyID string) ([]int64, error) {
	probe, err := a.path(colonyID, 0)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Dir(probe))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ticks := make([]int64, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		tick, err := strconv.ParseInt(strings.TrimSuffix(name, ext), 10, 64)
		if err != nil {
			continue
		}
		ticks = append(ticks, tick)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	return ticks, nil
}
