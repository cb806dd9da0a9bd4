// Package replay serves the event history of one colony.
package replay

import (
	"context"
	"errors"
	"strings"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/domain/colony"
)

var ErrInvalidRequest = errors.New("invalid replay request")

const defaultLimit = 200

type UseCase struct {
	Events       ports.EventRepository
	DefaultLimit int
}

// Execute filters the whole history first and then keeps the most recent
// Limit events, oldest first.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.ColonyID = strings.TrimSpace(req.ColonyID)
	if req.ColonyID == "" || req.Limit < 0 {
		return Response{}, ErrInvalidRequest
	}
	if req.ToTick > 0 && req.FromTick > req.ToTick {
		return Response{}, ErrInvalidRequest
	}
	limit := req.Limit
	if limit == 0 {
		limit = u.DefaultLimit
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	events, err := u.Events.ListByColonyID(ctx, req.ColonyID, 0)
	if err != nil {
		return Response{}, err
	}
	events = filter(events, req)
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	counts := make(map[string]int)
	for _, evt := range events {
		counts[evt.Type]++
	}
	return Response{Events: events, Counts: counts}, nil
}

func filter(events []colony.DomainEvent, req Request) []colony.DomainEvent {
	out := make([]colony.DomainEvent, 0, len(events))
	for _, evt := range events {
		if req.FromTick > 0 && evt.Tick < req.FromTick {
			continue
		}
		if req.ToTick > 0 && evt.Tick > req.ToTick {
			continue
		}
		if req.Type != "" && evt.Type != req.Type {
			continue
		}
		out = append(out, evt)
	}
	return out
}
