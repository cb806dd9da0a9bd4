package colony

import "fmt"

// tryMerge joins the room at loc with one same-type neighbour on its side,
// preferring the preceding slot. The lower slot always absorbs the higher one.
// At most one merge happens per call.
func (w *World) tryMerge(loc Location) (DomainEvent, bool) {
	lvl, err := w.level(loc.Level)
	if err != nil {
		return DomainEvent{}, false
	}
	room, err := w.roomAt(loc)
	if err != nil {
		return DomainEvent{}, false
	}
	rooms := *lvl.rooms(loc.Side)
	if loc.Index > 0 {
		if prev := rooms[loc.Index-1]; w.canMerge(prev, room) {
			return w.merge(loc.Level, loc.Side, prev, room), true
		}
	}
	if loc.Index+1 < len(rooms) {
		if next := rooms[loc.Index+1]; w.canMerge(room, next) {
			return w.merge(loc.Level, loc.Side, room, next), true
		}
	}
	return DomainEvent{}, false
}

func (w *World) canMerge(a, b *Room) bool {
	return a.Built && b.Built &&
		!a.UnderConstruction && !b.UnderConstruction &&
		a.Type != RoomEmpty && a.Type == b.Type &&
		a.GridSize+b.GridSize <= w.tuning.MaxGridSize
}

func (w *World) merge(levelIdx int, side Side, keep, gone *Room) DomainEvent {
	lvl := w.Levels[levelIdx]
	keepLoc := Location{Level: levelIdx, Side: side, Index: keep.Index}
	goneLoc := Location{Level: levelIdx, Side: side, Index: gone.Index}

	total := float64(keep.GridSize + gone.GridSize)
	keep.FuelLevel = (keep.FuelLevel*float64(keep.GridSize) + gone.FuelLevel*float64(gone.GridSize)) / total
	keep.GridSize += gone.GridSize
	keep.Occupants = append(keep.Occupants, gone.Occupants...)
	for _, eq := range gone.Equipments {
		if keep.equipment(eq.Type) == nil {
			keep.Equipments = append(keep.Equipments, eq)
		}
	}
	keep.NextMineralsToProcess = append(keep.NextMineralsToProcess, gone.NextMineralsToProcess...)
	if keep.Research == nil {
		keep.Research = gone.Research
	}

	for _, h := range w.Habitants {
		if h.Affectation.Kind != AffectationNone && h.Affectation.Location == goneLoc {
			h.Affectation.Location = keepLoc
		}
		if h.Logement != nil && *h.Logement == goneLoc {
			moved := keepLoc
			h.Logement = &moved
		}
	}

	rooms := lvl.rooms(side)
	*rooms = append((*rooms)[:gone.Index], (*rooms)[gone.Index+1:]...)
	for i := gone.Index; i < len(*rooms); i++ {
		(*rooms)[i].Index = i
	}
	w.shiftIndices(levelIdx, side, gone.Index)

	return w.event(EventRoomsMerged, SeverityInfo, "Rooms merged",
		fmt.Sprintf("%s now spans %d cells", keep.Type, keep.GridSize),
		map[string]any{"room_id": keep.ID, "absorbed_id": gone.ID, "grid_size": keep.GridSize})
}

// shiftIndices renumbers every reference past a removed slot.
func (w *World) shiftIndices(levelIdx int, side Side, removed int) {
	shifted := func(loc Location) bool {
		return loc.Level == levelIdx && loc.Side == side && loc.Index > removed
	}
	for _, h := range w.Habitants {
		if h.Affectation.Kind != AffectationNone && shifted(h.Affectation.Location) {
			h.Affectation.Location.Index--
		}
		if h.Logement != nil && shifted(*h.Logement) {
			moved := *h.Logement
			moved.Index--
			h.Logement = &moved
		}
	}
	for _, exc := range w.Excavations {
		if exc.RoomIndex == nil || exc.Level != levelIdx {
			continue
		}
		if s, ok := exc.Position.Side(); ok && s == side && *exc.RoomIndex > removed {
			idx := *exc.RoomIndex - 1
			exc.RoomIndex = &idx
		}
	}
}
