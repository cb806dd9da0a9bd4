package colony

import "fmt"

// Build starts constructing a room of type t in an excavated cell. Costs are
// paid up front and the room is typed immediately.
func (w *World) Build(loc Location, t RoomType) ([]DomainEvent, error) {
	def, ok := w.catalog.Room(t)
	if !ok {
		return nil, ErrUnknownRoomType
	}
	if !w.isUnlocked(t) {
		return nil, ErrRoomLocked
	}
	lvl, err := w.level(loc.Level)
	if err != nil {
		return nil, err
	}
	room, err := w.roomAt(loc)
	if err != nil {
		return nil, err
	}
	switch {
	case !lvl.StairsExcavated:
		return nil, ErrStairsNotExcavated
	case !room.Excavated:
		return nil, ErrNotExcavated
	case room.Built:
		return nil, ErrAlreadyBuilt
	case room.UnderConstruction:
		return nil, ErrConstructionInProgress
	}
	builder, err := w.freeAdult()
	if err != nil {
		return nil, err
	}
	if missing := w.Inventory.Missing(def.Cost); len(missing) > 0 {
		return nil, &InsufficientResourcesError{Missing: missing}
	}

	w.Inventory.removeAll(def.Cost, 1)
	room.transformTo(t)
	room.UnderConstruction = true
	room.ConstructionStart = w.Clock.Tick
	room.ConstructionWeeks = w.tuning.ConstructionWeeks
	builder.Affectation = Affectation{Kind: AffectationConstruction, Location: loc}

	return []DomainEvent{w.event(EventConstructionStarted, SeverityInfo, "Construction started",
		fmt.Sprintf("%s is building a %s", builder.Name, def.Name),
		map[string]any{"room_id": room.ID, "room_type": string(t), "habitant_id": builder.ID})}, nil
}

// freeAdult returns any unassigned habitant old enough to work.
func (w *World) freeAdult() (*Habitant, error) {
	sawChild := false
	for _, h := range w.Habitants {
		if !h.Free() {
			continue
		}
		if h.AgeWeeks < w.tuning.AdultAgeWeeks {
			sawChild = true
			continue
		}
		return h, nil
	}
	if sawChild {
		return nil, ErrChildLabor
	}
	return nil, ErrNoFreeHabitant
}

// InstallEquipment adds a sub-installation to a built room.
func (w *World) InstallEquipment(loc Location, t EquipmentType) ([]DomainEvent, error) {
	def, ok := w.catalog.EquipmentDef(t)
	if !ok {
		return nil, ErrUnknownEquipment
	}
	room, err := w.roomAt(loc)
	if err != nil {
		return nil, err
	}
	if room.UnderConstruction {
		return nil, ErrConstructionInProgress
	}
	if !room.Built {
		return nil, ErrNotBuilt
	}
	if !def.allows(room.Type) {
		return nil, ErrEquipmentNotAllowed
	}
	if room.equipment(t) != nil {
		return nil, ErrEquipmentInstalled
	}
	if missing := w.Inventory.Missing(def.Cost); len(missing) > 0 {
		return nil, &InsufficientResourcesError{Missing: missing}
	}
	w.Inventory.removeAll(def.Cost, 1)
	eq := &Equipment{
		ID:                w.nextID("eq"),
		Type:              t,
		UnderConstruction: true,
		ConstructionStart: w.Clock.Tick,
		ConstructionWeeks: w.tuning.EquipmentBuildWeeks,
	}
	room.Equipments = append(room.Equipments, eq)
	return []DomainEvent{w.event(EventConstructionStarted, SeverityInfo, "Equipment ordered",
		fmt.Sprintf("Installing %s", t),
		map[string]any{"room_id": room.ID, "equipment_id": eq.ID, "equipment_type": string(t)})}, nil
}

func (w *World) resolveConstructions() []DomainEvent {
	var events []DomainEvent
	var done []string
	w.eachRoom(func(loc Location, r *Room) {
		for _, eq := range r.Equipments {
			if eq.UnderConstruction && w.Clock.Tick-eq.ConstructionStart >= eq.ConstructionWeeks {
				eq.UnderConstruction = false
				events = append(events, w.event(EventEquipmentInstalled, SeveritySuccess, "Equipment ready",
					fmt.Sprintf("%s installed", eq.Type),
					map[string]any{"room_id": r.ID, "equipment_id": eq.ID}))
			}
		}
		if r.UnderConstruction && w.Clock.Tick-r.ConstructionStart >= r.ConstructionWeeks {
			done = append(done, r.ID)
		}
	})
	// Merges renumber indices, so each completed room is located again by id.
	for _, id := range done {
		loc, room, ok := w.locateRoom(id)
		if !ok {
			continue
		}
		room.UnderConstruction = false
		room.Built = true
		for _, h := range w.Habitants {
			if h.Affectation.Kind == AffectationConstruction && h.Affectation.Location == loc {
				h.Affectation = Affectation{}
			}
		}
		events = append(events, w.event(EventConstructionCompleted, SeveritySuccess, "Construction complete",
			fmt.Sprintf("%s ready on level %d", room.Type, loc.Level),
			map[string]any{"room_id": room.ID, "room_type": string(room.Type)}))
		if evt, merged := w.tryMerge(loc); merged {
			events = append(events, evt)
		}
	}
	return events
}

func (w *World) locateRoom(id string) (Location, *Room, bool) {
	var (
		found Location
		room  *Room
	)
	w.eachRoom(func(loc Location, r *Room) {
		if r.ID == id {
			found, room = loc, r
		}
	})
	return found, room, room != nil
}
