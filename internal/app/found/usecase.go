// Package found creates new colonies.
package found

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/app/shared/worldstate"
	"shelterverse/internal/domain/colony"
)

var ErrInvalidRequest = errors.New("invalid found request")

type Request struct {
	// Seed fixes the world randomness; zero derives it from the colony id.
	Seed uint64
}

type Response struct {
	ColonyID string          `json:"colony_id"`
	Seed     uint64          `json:"seed"`
	Snapshot colony.Snapshot `json:"snapshot"`
	Version  int64           `json:"version"`
}

type UseCase struct {
	TxManager ports.TxManager
	Colonies  ports.ColonyRepository
	Rules     worldstate.Rules
	NewID     func() string
	Now       func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if u.Colonies == nil || u.TxManager == nil {
		return Response{}, ErrInvalidRequest
	}
	newID := u.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	for i := 0; i < 3; i++ {
		colonyID := newID()
		seed := req.Seed
		if seed == 0 {
			seed = worldstate.SeedFor(colonyID)
		}
		w := colony.NewWorld(u.Rules.Catalog, u.Rules.Tuning, seed)

		var rec ports.ColonyRecord
		err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			var err error
			rec, err = worldstate.Save(txCtx, u.Colonies, colonyID, w, 0, nowFn().UTC())
			return err
		})
		if errors.Is(err, ports.ErrConflict) {
			continue
		}
		if err != nil {
			return Response{}, err
		}
		return Response{ColonyID: colonyID, Seed: seed, Snapshot: rec.Snapshot, Version: rec.Version}, nil
	}
	return Response{}, ports.ErrConflict
}
