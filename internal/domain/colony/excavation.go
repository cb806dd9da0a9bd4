package colony

import (
	"fmt"
	"math"
)

// StartExcavation sends the first free habitant digging the stairs of a level
// or one of its lateral rooms.
func (w *World) StartExcavation(levelIdx int, pos Position, roomIndex *int) ([]DomainEvent, error) {
	lvl, err := w.level(levelIdx)
	if err != nil {
		return nil, err
	}
	target := Location{Level: levelIdx}
	var room *Room
	switch pos {
	case PositionStairs:
		if lvl.StairsExcavated {
			return nil, ErrAlreadyExcavated
		}
		if w.stairsExcavating(levelIdx) {
			return nil, ErrExcavationInProgress
		}
		if levelIdx > 0 && !w.Levels[levelIdx-1].StairsExcavated {
			return nil, ErrStairsNotExcavated
		}
	case PositionLeft, PositionRight:
		if roomIndex == nil {
			return nil, ErrInvalidLocation
		}
		side, _ := pos.Side()
		target.Side = side
		target.Index = *roomIndex
		room, err = w.roomAt(target)
		if err != nil {
			return nil, err
		}
		if room.Excavated {
			return nil, ErrAlreadyExcavated
		}
		if room.Excavating {
			return nil, ErrExcavationInProgress
		}
		if !lvl.StairsExcavated {
			return nil, ErrStairsNotExcavated
		}
	default:
		return nil, ErrInvalidLocation
	}

	digger, err := w.firstFreeHabitant()
	if err != nil {
		return nil, err
	}

	exc := &Excavation{
		ID:         w.nextID("exc"),
		Level:      levelIdx,
		Position:   pos,
		HabitantID: digger.ID,
		StartTick:  w.Clock.Tick,
		Weeks:      w.tuning.excavationWeeks(lvl.Depth),
		Minerals:   w.rollMinerals(lvl.Depth),
	}
	if room != nil {
		idx := *roomIndex
		exc.RoomIndex = &idx
		room.Excavating = true
	}
	w.Excavations = append(w.Excavations, exc)
	digger.Affectation = Affectation{Kind: AffectationExcavation, Location: target, ExcavationID: exc.ID}

	return []DomainEvent{w.event(EventExcavationStarted, SeverityInfo, "Excavation started",
		fmt.Sprintf("%s starts digging level %d (%s)", digger.Name, levelIdx, pos),
		map[string]any{"excavation_id": exc.ID, "habitant_id": digger.ID, "weeks": exc.Weeks})}, nil
}

// firstFreeHabitant picks the first unassigned habitant and refuses when that
// habitant is a child, even if a free adult exists further down the list.
func (w *World) firstFreeHabitant() (*Habitant, error) {
	for _, h := range w.Habitants {
		if !h.Free() {
			continue
		}
		if h.AgeWeeks < w.tuning.AdultAgeWeeks {
			return nil, ErrChildLabor
		}
		return h, nil
	}
	return nil, ErrNoFreeHabitant
}

func (w *World) stairsExcavating(levelIdx int) bool {
	for _, exc := range w.Excavations {
		if exc.Level == levelIdx && exc.Position == PositionStairs {
			return true
		}
	}
	return false
}

// rollMinerals pre-rolls the discovery of an excavation. Every mineral of the
// depth tier is drawn independently; at least one is always found.
func (w *World) rollMinerals(depth int) []ItemAmount {
	tier, ok := w.catalog.MineralTier(depth)
	if !ok || len(tier.Minerals) == 0 {
		return nil
	}
	var out []ItemAmount
	for _, m := range tier.Minerals {
		if w.rng.Float64() >= math.Max(0.3, m.Chance) {
			continue
		}
		lo := float64(m.Min)
		amount := math.Floor(math.Max(3*lo, 3*(lo+w.rng.Float64()*float64(m.Max-m.Min))))
		out = append(out, ItemAmount{Item: m.Item, Quantity: int(amount)})
	}
	if len(out) == 0 {
		m := tier.Minerals[w.rng.IntN(len(tier.Minerals))]
		out = append(out, ItemAmount{Item: m.Item, Quantity: 3 * m.Min})
	}
	return out
}

func (w *World) resolveExcavations() []DomainEvent {
	var events []DomainEvent
	pending := w.Excavations[:0]
	for _, exc := range w.Excavations {
		if w.Clock.Tick-exc.StartTick < exc.Weeks {
			pending = append(pending, exc)
			continue
		}
		events = append(events, w.completeExcavation(exc))
	}
	w.Excavations = pending
	return events
}

func (w *World) completeExcavation(exc *Excavation) DomainEvent {
	lvl := w.Levels[exc.Level]
	if exc.Position == PositionStairs {
		lvl.StairsExcavated = true
	} else if side, ok := exc.Position.Side(); ok && exc.RoomIndex != nil {
		if room, err := w.roomAt(Location{Level: exc.Level, Side: side, Index: *exc.RoomIndex}); err == nil {
			room.Excavated = true
			room.Excavating = false
		}
	}
	if h, ok := w.Habitant(exc.HabitantID); ok && h.Affectation.ExcavationID == exc.ID {
		h.Affectation = Affectation{}
	}
	found := map[string]any{}
	for _, m := range exc.Minerals {
		stored, _ := w.Inventory.Add(w.catalog, m.Item, m.Quantity)
		found[m.Item] = stored
	}
	return w.event(EventExcavationCompleted, SeveritySuccess, "Excavation complete",
		fmt.Sprintf("Level %d %s excavated", exc.Level, exc.Position),
		map[string]any{"excavation_id": exc.ID, "minerals": found})
}
