// Package status serves the read model of one colony.
package status

import (
	"context"
	"errors"
	"strings"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/app/shared/worldstate"
	"shelterverse/internal/domain/colony"
)

var ErrInvalidRequest = errors.New("invalid status request")

type UseCase struct {
	Colonies ports.ColonyRepository
	Rules    worldstate.Rules
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.ColonyID = strings.TrimSpace(req.ColonyID)
	if req.ColonyID == "" {
		return Response{}, ErrInvalidRequest
	}
	w, version, err := worldstate.Load(ctx, u.Colonies, u.Rules, req.ColonyID, false)
	if err != nil {
		return Response{}, err
	}
	snap, err := w.Export()
	if err != nil {
		return Response{}, err
	}
	return Response{
		ColonyID: req.ColonyID,
		Version:  version,
		Summary:  summarize(w),
		Snapshot: snap,
	}, nil
}

func summarize(w *colony.World) Summary {
	s := Summary{
		Population:    w.Population(),
		Unlocked:      append([]colony.RoomType(nil), w.Unlocked...),
		PendingDeaths: append([]colony.DeathNotice(nil), w.PendingDeaths...),
		Brownout:      w.Brownout,
	}
	adultAge := w.Tuning().AdultAgeWeeks
	happiness := 0
	for _, h := range w.Habitants {
		if h.AgeWeeks >= adultAge {
			s.Adults++
		} else {
			s.Children++
		}
		if h.Free() {
			s.Idle++
		}
		if h.Logement == nil {
			s.Homeless++
		}
		happiness += h.Happiness
	}
	if s.Population > 0 {
		s.Happiness = happiness / s.Population
	}
	return s
}
