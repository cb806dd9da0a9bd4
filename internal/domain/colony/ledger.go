package colony

import (
	"fmt"
	"math"
)

func (w *World) resetFlows() {
	for _, res := range w.Resources {
		res.Production = 0
		res.Consumption = 0
	}
	w.predrawn = 0
}

func (w *World) eachTank(fn func(r *Room, capacity float64)) {
	def, ok := w.catalog.Room(RoomWaterTank)
	if !ok {
		return
	}
	w.eachRoom(func(_ Location, r *Room) {
		if r.Type == RoomWaterTank && r.Built && !r.UnderConstruction {
			fn(r, def.TankCapacity*float64(r.GridSize))
		}
	})
}

func (w *World) waterStock() float64 {
	total := 0.0
	w.eachTank(func(r *Room, capacity float64) {
		total += r.FuelLevel / 100 * capacity
	})
	return total
}

// drawWater empties tanks in storage order and returns what was taken.
func (w *World) drawWater(amount float64) float64 {
	taken := 0.0
	w.eachTank(func(r *Room, capacity float64) {
		if amount-taken <= 0 || capacity <= 0 {
			return
		}
		stored := r.FuelLevel / 100 * capacity
		take := math.Min(stored, amount-taken)
		r.FuelLevel = (stored - take) / capacity * 100
		taken += take
	})
	w.predrawn += taken
	return taken
}

func (w *World) fillWater(amount float64) float64 {
	filled := 0.0
	w.eachTank(func(r *Room, capacity float64) {
		if amount-filled <= 0 || capacity <= 0 {
			return
		}
		stored := r.FuelLevel / 100 * capacity
		put := math.Min(capacity-stored, amount-filled)
		r.FuelLevel = (stored + put) / capacity * 100
		filled += put
	})
	return filled
}

// refreshCapacities recomputes resource capacities and inventory stack caps
// from base tuning and the rooms currently built.
func (w *World) refreshCapacities() {
	caps := map[ResourceKind]float64{}
	for _, kind := range ResourceKinds {
		caps[kind] = w.tuning.BaseCapacity[kind]
	}
	stacks, cold := w.tuning.BaseStacks, w.tuning.BaseColdStacks
	tanks, power := 0.0, 0.0
	w.eachRoom(func(_ Location, r *Room) {
		if !r.Built || r.UnderConstruction {
			return
		}
		def, ok := w.catalog.Room(r.Type)
		if !ok {
			return
		}
		grid := float64(r.GridSize)
		for kind, bonus := range def.StorageBonus {
			caps[kind] += bonus * grid
		}
		stacks += def.StackBonus * r.GridSize
		cold += def.ColdStackBonus * r.GridSize
		if r.Type == RoomWaterTank {
			tanks += def.TankCapacity * grid
		}
		if rate := def.PerWorker[ResourceEnergy]; rate > 0 {
			power += rate * float64(def.MaxWorkers) * grid * w.tuning.MergeMultiplier(r.GridSize)
		}
	})
	caps[ResourceWater] = tanks
	caps[ResourceEnergy] = power
	for kind, c := range caps {
		w.Resources[kind].Capacity = c
	}
	w.Inventory.MaxStacks = stacks
	w.Inventory.ColdStacks = cold
}

// settle applies the tick's flows to the stocks.
func (w *World) settle(weeks float64) []DomainEvent {
	w.refreshCapacities()
	pop := float64(w.Population())
	w.Resources[ResourceWater].Consumption += pop * w.tuning.WaterPerHabitant
	w.Resources[ResourceClothing].Consumption += pop * w.tuning.ClothingPerHabitant
	w.Resources[ResourceMedicine].Consumption += pop * w.tuning.MedicinePerHabitant

	var events []DomainEvent
	if evt, ok := w.settleFood(pop, weeks); ok {
		events = append(events, evt)
	}
	w.settleWater(weeks)
	if evt, ok := w.settleEnergy(); ok {
		events = append(events, evt)
	}
	for _, kind := range []ResourceKind{ResourceClothing, ResourceMedicine} {
		res := w.Resources[kind]
		res.Amount = clamp(res.Amount+(res.Production-res.Consumption)*weeks, 0, res.Capacity)
	}
	return events
}

type rationShare struct {
	item    string
	ratio   float64
	rations float64
}

// settleFood feeds the population from food items, drawing from each food type
// in proportion to its share of the available rations.
func (w *World) settleFood(pop, weeks float64) (DomainEvent, bool) {
	food := w.Resources[ResourceFood]
	food.Consumption += pop

	var shares []rationShare
	total := 0.0
	seen := map[string]bool{}
	for _, s := range w.Inventory.Stacks {
		if seen[s.Item] {
			continue
		}
		seen[s.Item] = true
		def, ok := w.catalog.Item(s.Item)
		if !ok || def.Category != ItemCategoryFood || def.FoodRatio <= 0 {
			continue
		}
		r := float64(w.Inventory.Count(s.Item)) / def.FoodRatio
		shares = append(shares, rationShare{item: s.Item, ratio: def.FoodRatio, rations: r})
		total += r
	}

	need := pop * weeks
	if total <= need {
		for _, s := range shares {
			w.Inventory.Remove(s.item, w.Inventory.Count(s.item))
		}
		food.Amount = 0
		if need > 0 && total < need {
			return w.event(EventFoodExhausted, SeverityWarning, "Food exhausted",
				fmt.Sprintf("%.1f rations missing", need-total),
				map[string]any{"missing_rations": need - total}), true
		}
		return DomainEvent{}, false
	}
	for _, s := range shares {
		eaten := s.rations / total * need
		qty := min(int(math.Ceil(eaten*s.ratio)), w.Inventory.Count(s.item))
		w.Inventory.Remove(s.item, qty)
	}
	food.Amount = clamp(total-need, 0, food.Capacity)
	return DomainEvent{}, false
}

// settleWater moves the net water flow into or out of the tanks. Water that
// production already drew from the tanks is not taken twice.
func (w *World) settleWater(weeks float64) {
	water := w.Resources[ResourceWater]
	net := (water.Production-water.Consumption)*weeks + w.predrawn
	switch {
	case net > 0:
		fill := net
		if limit := w.tuning.TankFillPerTick; limit > 0 {
			fill = math.Min(fill, limit)
		}
		w.fillWater(fill)
	case net < 0:
		w.drawWater(-net)
	}
	water.Amount = clamp(w.waterStock(), 0, water.Capacity)
}

// settleEnergy applies the brownout rule: a deficit switches off every room
// but the running generators, a surplus switches back on what may run.
func (w *World) settleEnergy() (DomainEvent, bool) {
	energy := w.Resources[ResourceEnergy]
	net := energy.Production - energy.Consumption
	energy.Amount = clamp(net, 0, energy.Capacity)

	if net < 0 {
		w.eachRoom(func(_ Location, r *Room) {
			if !r.Built {
				return
			}
			if r.Type == RoomGenerator && !r.ManuallyDisabled {
				return
			}
			r.Disabled = true
		})
		if !w.Brownout {
			w.Brownout = true
			return w.event(EventBrownout, SeverityWarning, "Power shortage",
				fmt.Sprintf("Energy deficit of %.1f", -net),
				map[string]any{"deficit": -net}), true
		}
		return DomainEvent{}, false
	}

	w.eachRoom(func(_ Location, r *Room) {
		if !r.Built || r.ManuallyDisabled {
			return
		}
		if r.Type == RoomGenerator && r.FuelLevel <= 0 {
			return
		}
		r.Disabled = false
	})
	if w.Brownout {
		w.Brownout = false
		return w.event(EventPowerRestored, SeveritySuccess, "Power restored", "Energy balance is positive", nil), true
	}
	return DomainEvent{}, false
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, v))
}
