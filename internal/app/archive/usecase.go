// Package archive exposes the on-disk snapshot history of a colony.
package archive

import (
	"context"
	"errors"
	"strings"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/domain/colony"
)

var (
	ErrInvalidRequest = errors.New("invalid archive request")
	ErrNotConfigured  = errors.New("snapshot archive not configured")
)

type UseCase struct {
	Reader ports.ArchiveReader
}

type TicksResponse struct {
	ColonyID string  `json:"colony_id"`
	Ticks    []int64 `json:"ticks"`
}

type SnapshotResponse struct {
	ColonyID string          `json:"colony_id"`
	Tick     int64           `json:"tick"`
	Snapshot colony.Snapshot `json:"snapshot"`
}

func (u UseCase) Ticks(ctx context.Context, colonyID string) (TicksResponse, error) {
	colonyID = strings.TrimSpace(colonyID)
	if colonyID == "" {
		return TicksResponse{}, ErrInvalidRequest
	}
	if u.Reader == nil {
		return TicksResponse{}, ErrNotConfigured
	}
	ticks, err := u.Reader.Ticks(ctx, colonyID)
	if err != nil {
		return TicksResponse{}, err
	}
	if ticks == nil {
		ticks = []int64{}
	}
	return TicksResponse{ColonyID: colonyID, Ticks: ticks}, nil
}

func (u UseCase) Snapshot(ctx context.Context, colonyID string, tick int64) (SnapshotResponse, error) {
	colonyID = strings.TrimSpace(colonyID)
	if colonyID == "" || tick < 0 {
		return SnapshotResponse{}, ErrInvalidRequest
	}
	if u.Reader == nil {
		return SnapshotResponse{}, ErrNotConfigured
	}
	snap, err := u.Reader.Read(ctx, colonyID, tick)
	if err != nil {
		return SnapshotResponse{}, err
	}
	return SnapshotResponse{ColonyID: colonyID, Tick: tick, Snapshot: snap}, nil
}
