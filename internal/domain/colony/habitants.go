package colony

import "fmt"

// AssignToRoom moves a habitant into a housing room or onto a labor post.
// Every check runs before any state changes.
func (w *World) AssignToRoom(habitantID string, loc Location) ([]DomainEvent, error) {
	h, ok := w.Habitant(habitantID)
	if !ok {
		return nil, ErrHabitantNotFound
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
	def, ok := w.catalog.Room(room.Type)
	if !ok {
		return nil, ErrUnknownRoomType
	}
	if room.hasOccupant(h.ID) {
		return nil, nil
	}

	switch def.Category {
	case CategoryHousing:
		if len(room.Occupants) >= w.capacity(room) {
			return nil, ErrRoomFull
		}
		if h.Logement != nil {
			if prev, err := w.roomAt(*h.Logement); err == nil {
				prev.removeOccupant(h.ID)
			}
		}
		room.Occupants = append(room.Occupants, h.ID)
		moved := loc
		h.Logement = &moved
		return nil, nil

	case CategoryLabor:
		if h.AgeWeeks < w.tuning.AdultAgeWeeks {
			return nil, ErrChildLabor
		}
		if len(room.Occupants) >= w.capacity(room) {
			return nil, ErrRoomFull
		}
		switch h.Affectation.Kind {
		case AffectationExcavation, AffectationConstruction:
			return nil, ErrHabitantBusy
		case AffectationLabor:
			if err := w.checkLeave(h); err != nil {
				return nil, err
			}
			w.leavePost(h)
		}
		room.Occupants = append(room.Occupants, h.ID)
		h.Affectation = Affectation{Kind: AffectationLabor, Location: loc}
		if !room.ManuallyDisabled && !w.Brownout {
			room.Disabled = false
		}
		return nil, nil

	default:
		return nil, ErrWrongRoomType
	}
}

// Unassign releases a habitant from its labor post.
func (w *World) Unassign(habitantID string) ([]DomainEvent, error) {
	h, ok := w.Habitant(habitantID)
	if !ok {
		return nil, ErrHabitantNotFound
	}
	switch h.Affectation.Kind {
	case AffectationNone:
		return nil, nil
	case AffectationExcavation, AffectationConstruction:
		return nil, ErrHabitantBusy
	}
	if err := w.checkLeave(h); err != nil {
		return nil, err
	}
	w.leavePost(h)
	return nil, nil
}

// checkLeave refuses to take the last worker out of an incubating infirmary.
func (w *World) checkLeave(h *Habitant) error {
	room, err := w.roomAt(h.Affectation.Location)
	if err != nil || room.Type != RoomInfirmary || len(room.Occupants) > 1 {
		return nil
	}
	if eq := room.equipment(w.tuning.NurserieType); eq != nil && eq.Incubation != nil {
		return ErrLastNurserieWorker
	}
	return nil
}

func (w *World) leavePost(h *Habitant) {
	if room, err := w.roomAt(h.Affectation.Location); err == nil {
		room.removeOccupant(h.ID)
	}
	h.Affectation = Affectation{}
}

func (w *World) age(weeks int64) {
	for _, h := range w.Habitants {
		h.AgeWeeks += weeks
	}
}

// mortality rolls one death trial per habitant from its age band.
func (w *World) mortality() []DomainEvent {
	var events []DomainEvent
	survivors := w.Habitants[:0]
	for _, h := range w.Habitants {
		rate := w.tuning.hazard(h.AgeWeeks)
		if rate <= 0 || w.rng.Float64() >= rate {
			survivors = append(survivors, h)
			continue
		}
		w.vacate(h)
		w.PendingDeaths = append(w.PendingDeaths, DeathNotice{
			HabitantID: h.ID,
			Name:       h.Name,
			AgeWeeks:   h.AgeWeeks,
			Tick:       w.Clock.Tick,
		})
		events = append(events, w.event(EventHabitantDied, SeverityWarning, "Habitant died",
			fmt.Sprintf("%s died at %d years", h.Name, h.AgeWeeks/52),
			map[string]any{"habitant_id": h.ID, "age_weeks": h.AgeWeeks}))
	}
	w.Habitants = survivors
	return events
}

// vacate frees the housing and labor slots of a habitant about to leave.
func (w *World) vacate(h *Habitant) {
	if h.Logement != nil {
		if room, err := w.roomAt(*h.Logement); err == nil {
			room.removeOccupant(h.ID)
		}
		h.Logement = nil
	}
	switch h.Affectation.Kind {
	case AffectationLabor:
		if room, err := w.roomAt(h.Affectation.Location); err == nil {
			room.removeOccupant(h.ID)
			if len(room.Occupants) == 0 {
				room.Disabled = true
			}
		}
	case AffectationExcavation:
		w.abandonExcavation(h.Affectation.ExcavationID)
	}
	h.Affectation = Affectation{}
}

func (w *World) abandonExcavation(id string) {
	kept := w.Excavations[:0]
	for _, exc := range w.Excavations {
		if exc.ID != id {
			kept = append(kept, exc)
			continue
		}
		if side, ok := exc.Position.Side(); ok && exc.RoomIndex != nil {
			if room, err := w.roomAt(Location{Level: exc.Level, Side: side, Index: *exc.RoomIndex}); err == nil {
				room.Excavating = false
			}
		}
	}
	w.Excavations = kept
}

// AcknowledgeDeath clears a surfaced death.
func (w *World) AcknowledgeDeath(habitantID string) error {
	for i, d := range w.PendingDeaths {
		if d.HabitantID == habitantID {
			w.PendingDeaths = append(w.PendingDeaths[:i], w.PendingDeaths[i+1:]...)
			return nil
		}
	}
	return ErrNoDeathPending
}

// StartIncubation consumes one embryo in the nurserie of the room at loc.
func (w *World) StartIncubation(loc Location) ([]DomainEvent, error) {
	room, err := w.roomAt(loc)
	if err != nil {
		return nil, err
	}
	if !room.Built || room.UnderConstruction {
		return nil, ErrNotBuilt
	}
	if len(room.Occupants) == 0 {
		return nil, ErrNoWorkers
	}
	eq := room.operationalEquipment(w.tuning.NurserieType)
	if eq == nil {
		return nil, ErrNoNurserie
	}
	if eq.Incubation != nil {
		return nil, ErrIncubationRunning
	}
	embryo := []ItemAmount{{Item: w.tuning.EmbryoItem, Quantity: 1}}
	if missing := w.Inventory.Missing(embryo); len(missing) > 0 {
		return nil, &InsufficientResourcesError{Missing: missing}
	}
	w.Inventory.removeAll(embryo, 1)
	eq.Incubation = &NurserieState{StartTick: w.Clock.Tick, Weeks: w.tuning.IncubationWeeks}
	return []DomainEvent{w.event(EventIncubationStarted, SeverityInfo, "Incubation started",
		fmt.Sprintf("Due in %d weeks", w.tuning.IncubationWeeks),
		map[string]any{"room_id": room.ID, "equipment_id": eq.ID})}, nil
}

func (w *World) resolveIncubations() []DomainEvent {
	var events []DomainEvent
	w.eachRoom(func(_ Location, r *Room) {
		for _, eq := range r.Equipments {
			inc := eq.Incubation
			if inc == nil || w.Clock.Tick-inc.StartTick < inc.Weeks {
				continue
			}
			eq.Incubation = nil
			baby := w.newHabitant(0)
			w.Habitants = append(w.Habitants, baby)
			events = append(events, w.event(EventHabitantBorn, SeveritySuccess, "A child is born",
				fmt.Sprintf("Welcome %s", baby.Name),
				map[string]any{"habitant_id": baby.ID, "room_id": r.ID}))
		}
	})
	return events
}

// StartResearch turns a built laboratory toward a locked room type.
func (w *World) StartResearch(loc Location, target RoomType) ([]DomainEvent, error) {
	room, err := w.roomAt(loc)
	if err != nil {
		return nil, err
	}
	if room.Type != RoomLaboratory {
		return nil, ErrWrongRoomType
	}
	if !room.Built || room.UnderConstruction {
		return nil, ErrNotBuilt
	}
	if room.Research != nil {
		return nil, ErrResearchRunning
	}
	def, ok := w.catalog.Room(target)
	if !ok {
		return nil, ErrUnknownRoomType
	}
	if !def.Locked || def.ResearchWeeks <= 0 || w.isUnlocked(target) {
		return nil, ErrNotResearchable
	}
	room.Research = &ResearchState{Target: target, StartTick: w.Clock.Tick, Weeks: def.ResearchWeeks}
	return []DomainEvent{w.event(EventResearchStarted, SeverityInfo, "Research started",
		fmt.Sprintf("Researching %s", def.Name),
		map[string]any{"room_id": room.ID, "target": string(target), "weeks": def.ResearchWeeks})}, nil
}

// QueueRefinery appends a recipe to the refinery processing queue.
func (w *World) QueueRefinery(loc Location, recipeID string) error {
	if _, ok := w.catalog.Recipe(recipeID); !ok {
		return ErrUnknownRecipe
	}
	room, err := w.roomAt(loc)
	if err != nil {
		return err
	}
	if room.Type != RoomRefinery {
		return ErrWrongRoomType
	}
	room.NextMineralsToProcess = append(room.NextMineralsToProcess, recipeID)
	return nil
}

// SetRoomDisabled toggles the manual switch of a built room.
func (w *World) SetRoomDisabled(loc Location, disabled bool) error {
	room, err := w.roomAt(loc)
	if err != nil {
		return err
	}
	if !room.Built {
		return ErrNotBuilt
	}
	room.ManuallyDisabled = disabled
	switch {
	case disabled:
		room.Disabled = true
	case !w.Brownout || room.Type == RoomGenerator:
		room.Disabled = false
	}
	return nil
}

func (w *World) updateHappiness() {
	fed := w.Resources[ResourceFood].Amount > 0
	for _, h := range w.Habitants {
		score := 50
		if h.Logement != nil {
			score += 20
		}
		if fed {
			score += 15
		}
		if w.Brownout {
			score -= 25
		}
		h.Happiness = max(0, min(100, score))
	}
}
