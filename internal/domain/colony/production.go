package colony

import (
	"fmt"
	"math"
)

// produce runs one room's production rules for the tick. Flow counters
// receive per-week rates; inventory and tank movements use weeks directly.
func (w *World) produce(room *Room, def RoomDef, workers int, weeks, bonus float64) []DomainEvent {
	grid := float64(room.GridSize)
	scale := float64(workers) * grid * w.tuning.MergeMultiplier(room.GridSize)

	// the gauge drains whether or not the generator is staffed
	if room.Type == RoomGenerator && !w.burnFuel(room, weeks) {
		scale = 0
	}
	if def.EnergyUpkeep > 0 {
		w.Resources[ResourceEnergy].Consumption += def.EnergyUpkeep * grid
	}
	for _, kind := range ResourceKinds {
		rate := def.PerWorker[kind]
		if rate == 0 {
			continue
		}
		delta := rate * scale
		if delta > 0 {
			w.Resources[kind].Production += delta * bonus
		} else {
			w.Resources[kind].Consumption += -delta
		}
	}

	var events []DomainEvent
	switch room.Type {
	case RoomRefinery:
		w.refine(room, def.ProcessingPerWorker*scale*bonus*weeks)
	case RoomDerrick:
		w.extract(room, scale*bonus*weeks)
	case RoomLaboratory:
		if evt, done := w.advanceResearch(room, workers, scale*bonus); done {
			events = append(events, evt)
		}
	}
	if def.Greenhouse != nil {
		w.grow(room, def, workers, scale, weeks, bonus)
	}
	if def.Workshop != nil {
		w.craft(room, *def.Workshop, def.Workshop.Rate*scale*bonus*weeks, weeks)
	}
	return events
}

// refine turns queued recipes into whole batches. capacity is expressed in
// input units and is shared by the queue in order.
func (w *World) refine(room *Room, capacity float64) {
	for _, id := range room.NextMineralsToProcess {
		recipe, ok := w.catalog.Recipe(id)
		if !ok {
			continue
		}
		perBatch := 0
		for _, in := range recipe.Inputs {
			perBatch += in.Quantity
		}
		if perBatch <= 0 {
			continue
		}
		batches := int(math.Floor(capacity / float64(perBatch)))
		for _, in := range recipe.Inputs {
			if in.Quantity > 0 {
				batches = min(batches, w.Inventory.Count(in.Item)/in.Quantity)
			}
		}
		if batches <= 0 {
			continue
		}
		w.Inventory.removeAll(recipe.Inputs, batches)
		for _, out := range recipe.Outputs {
			_, _ = w.Inventory.Add(w.catalog, out.Item, out.Quantity*batches)
		}
		capacity -= float64(batches * perBatch)
	}
}

// extract fills the derrick gauge and turns each full gauge into one unit of
// crude, provided an empty container is in stock.
func (w *World) extract(room *Room, workload float64) {
	per := w.tuning.DerrickWeeksPerUnit
	if per <= 0 {
		per = 7
	}
	room.FuelLevel += (100 / per) * workload
	for room.FuelLevel >= 100 && w.Inventory.Count(w.tuning.EmptyBarrelItem) > 0 {
		w.Inventory.Remove(w.tuning.EmptyBarrelItem, 1)
		if stored, _ := w.Inventory.Add(w.catalog, w.tuning.CrudeItem, 1); stored == 0 {
			_, _ = w.Inventory.Add(w.catalog, w.tuning.EmptyBarrelItem, 1)
			break
		}
		room.FuelLevel -= 100
	}
	room.FuelLevel = math.Min(room.FuelLevel, 100)
}

// burnFuel refuels the generator from barrels once below the threshold, then
// burns the week's fuel. It reports false when the tank is dry. Only the
// manual flag drives Disabled here.
func (w *World) burnFuel(room *Room, weeks float64) bool {
	room.Disabled = room.ManuallyDisabled
	if room.FuelLevel < w.tuning.GeneratorRefuelThreshold && w.tuning.BarrelRestore > 0 {
		needed := int(math.Floor((100 - room.FuelLevel) / w.tuning.BarrelRestore))
		use := min(needed, w.Inventory.Count(w.tuning.FuelItem))
		if use > 0 {
			w.Inventory.Remove(w.tuning.FuelItem, use)
			room.FuelLevel += float64(use) * w.tuning.BarrelRestore
			_, _ = w.Inventory.Add(w.catalog, w.tuning.EmptyBarrelItem, use)
		}
	}
	if room.FuelLevel <= 0 {
		return false
	}
	room.FuelLevel = math.Max(0, room.FuelLevel-w.tuning.GeneratorBurnPerWeek*weeks)
	return true
}

// advanceResearch recomputes laboratory progress from elapsed clock time.
func (w *World) advanceResearch(room *Room, workers int, rate float64) (DomainEvent, bool) {
	rs := room.Research
	if rs == nil || workers == 0 || rs.Weeks <= 0 {
		return DomainEvent{}, false
	}
	elapsed := float64(w.Clock.Tick - rs.StartTick)
	rs.Progress = math.Min(100, (100/float64(rs.Weeks))*rate*elapsed)
	if rs.Progress < 100 {
		return DomainEvent{}, false
	}
	target := rs.Target
	for _, id := range room.Occupants {
		if h, ok := w.Habitant(id); ok && h.Affectation.Kind == AffectationLabor {
			h.Affectation = Affectation{}
		}
	}
	room.Occupants = []string{}
	from := room.Type
	room.transformTo(target)
	w.unlock(target)
	return w.event(EventRoomTransformed, SeveritySuccess, "Research complete",
		fmt.Sprintf("%s became %s", from, target),
		map[string]any{"room_id": room.ID, "from": string(from), "to": string(target)}), true
}

// grow produces crops only when the full water requirement is in the tanks.
func (w *World) grow(room *Room, def RoomDef, workers int, scale, weeks, bonus float64) {
	need := w.tuning.GreenhouseWaterPerWorker * float64(workers) * float64(room.GridSize) *
		w.tuning.MergeMultiplier(room.GridSize) * weeks
	if need <= 0 || w.waterStock() < need {
		return
	}
	w.drawWater(need)
	w.Resources[ResourceWater].Consumption += need / weeks

	w.harvest(def.Greenhouse.Crop, def.Greenhouse.Rate*scale*bonus*weeks, weeks)
	for _, eq := range room.Equipments {
		if eq.UnderConstruction {
			continue
		}
		if eqDef, ok := w.catalog.EquipmentDef(eq.Type); ok && eqDef.Crop != "" {
			w.harvest(eqDef.Crop, eqDef.CropRate*scale*bonus*weeks, weeks)
		}
	}
}

func (w *World) harvest(item string, quantity, weeks float64) {
	qty := int(math.Floor(quantity))
	if item == "" || qty <= 0 {
		return
	}
	stored, err := w.Inventory.Add(w.catalog, item, qty)
	if err != nil || stored == 0 {
		return
	}
	if def, _ := w.catalog.Item(item); def.Category == ItemCategoryFood && def.FoodRatio > 0 {
		w.Resources[ResourceFood].Production += float64(stored) / def.FoodRatio / weeks
	}
}

// craft is the equipment-gated workshop output. Nothing is produced unless
// the whole raw material requirement is in stock.
func (w *World) craft(room *Room, ws WorkshopDef, requested, weeks float64) {
	if room.operationalEquipment(ws.Equipment) == nil || requested <= 0 {
		return
	}
	raw := int(math.Ceil(requested * ws.Ratio))
	if raw <= 0 || !w.Inventory.Remove(ws.Input, raw) {
		return
	}
	if res := w.Resources[ws.Output]; res != nil {
		res.Production += requested / weeks
	}
}
