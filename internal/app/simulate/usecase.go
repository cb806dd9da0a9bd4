// Package simulate drives the colony clock.
package simulate

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/app/shared/worldstate"
	"shelterverse/internal/domain/colony"
)

var ErrInvalidRequest = errors.New("invalid advance request")

// maxRealMillis bounds a single advance to one hour of real time.
const maxRealMillis = int64(time.Hour / time.Millisecond)

type Request struct {
	ColonyID   string
	RealMillis int64
	Speed      float64
}

type Response struct {
	Weeks    int                  `json:"weeks"`
	Tick     int64                `json:"tick"`
	Version  int64                `json:"version"`
	Events   []colony.DomainEvent `json:"events"`
	Snapshot colony.Snapshot      `json:"snapshot"`
}

type UseCase struct {
	TxManager ports.TxManager
	Colonies  ports.ColonyRepository
	Events    ports.EventRepository
	Archive   ports.SnapshotArchive
	Telemetry ports.TelemetrySink
	Metrics   ports.SimMetrics
	Rules     worldstate.Rules
	Logger    *slog.Logger
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.ColonyID = strings.TrimSpace(req.ColonyID)
	badSpeed := req.Speed != 0 && !u.Rules.Tuning.ValidSpeed(req.Speed)
	if req.ColonyID == "" || req.RealMillis < 0 || req.RealMillis > maxRealMillis || badSpeed {
		return Response{}, ErrInvalidRequest
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var (
		out   Response
		world *colony.World
	)
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		w, version, err := worldstate.Load(txCtx, u.Colonies, u.Rules, req.ColonyID, true)
		if err != nil {
			return err
		}
		res := w.Advance(req.RealMillis, req.Speed)
		rec, err := worldstate.Save(txCtx, u.Colonies, req.ColonyID, w, version, nowFn().UTC())
		if err != nil {
			return err
		}
		if len(res.Events) > 0 {
			if err := u.Events.Append(txCtx, req.ColonyID, res.Events); err != nil {
				return err
			}
		}
		world = w
		out = Response{
			Weeks:    res.Weeks,
			Tick:     w.Clock.Tick,
			Version:  rec.Version,
			Events:   res.Events,
			Snapshot: rec.Snapshot,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrConflict) && u.Metrics != nil {
			u.Metrics.RecordConflict()
		}
		return Response{}, err
	}

	if u.Metrics != nil {
		u.Metrics.RecordAdvance(out.Weeks)
	}
	if out.Weeks > 0 {
		u.export(ctx, req.ColonyID, world, out.Snapshot)
	}
	u.logger().Info("colony advanced",
		"colony_id", req.ColonyID,
		"weeks", out.Weeks,
		"tick", out.Tick,
		"events", len(out.Events),
		"population", world.Population(),
	)
	return out, nil
}

// export feeds the archive and telemetry sinks. Their failures are logged and
// never fail the advance, which is already committed.
func (u UseCase) export(ctx context.Context, colonyID string, w *colony.World, snap colony.Snapshot) {
	if u.Archive != nil {
		if err := u.Archive.Write(ctx, colonyID, snap); err != nil {
			u.logger().Warn("snapshot archive failed", "colony_id", colonyID, "tick", snap.Clock.Tick, "err", err)
		}
	}
	if u.Telemetry != nil {
		if err := u.Telemetry.Record(ctx, worldstate.Ledger(colonyID, w)); err != nil {
			u.logger().Warn("telemetry export failed", "colony_id", colonyID, "err", err)
		}
	}
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}
