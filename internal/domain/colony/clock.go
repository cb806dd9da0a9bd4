package colony

import (
	"fmt"
	"math"
)

// AdvanceResult reports the whole weeks processed by one Advance call.
type AdvanceResult struct {
	Weeks  int           `json:"weeks"`
	Events []DomainEvent `json:"events"`
}

// Advance converts real elapsed time into game weeks and runs every whole week
// boundary crossed. A paused clock accumulates nothing. Speed is clamped to
// the tuning limit and at most WeekLimit weeks run per call; time beyond the
// cap is dropped, the fractional week is kept.
func (w *World) Advance(realMillis int64, speed float64) AdvanceResult {
	if w.Clock.Paused || realMillis <= 0 {
		return AdvanceResult{}
	}
	if !(speed > 0) {
		speed = w.Clock.Speed
	}
	speed = math.Min(speed, w.tuning.SpeedLimit())
	perWeek := w.tuning.SecondsPerWeek
	if perWeek <= 0 {
		perWeek = 1
	}

	// Elapsed is rebuilt from Tick so a huge carried value cannot freeze it.
	frac := w.Clock.Elapsed - math.Floor(w.Clock.Elapsed)
	if !(frac >= 0 && frac < 1) {
		frac = 0
	}
	total := frac + float64(realMillis)/1000*speed/perWeek
	whole := math.Floor(total)
	rest := total - whole
	if !(rest >= 0 && rest < 1) {
		rest = 0
	}
	weeks := w.tuning.WeekLimit()
	if whole < float64(weeks) {
		weeks = int64(whole)
	}

	var res AdvanceResult
	for i := int64(0); i < weeks; i++ {
		res.Events = append(res.Events, w.runWeek()...)
	}
	res.Weeks = int(weeks)
	w.Clock.Elapsed = float64(w.Clock.Tick) + rest
	return res
}

// runWeek is one tick. The order is: completions, production, settlement,
// aging, mortality, stack optimization.
func (w *World) runWeek() []DomainEvent {
	w.Clock.Tick++
	w.pruneTestLedger()

	var events []DomainEvent
	events = append(events, w.resolveExcavations()...)
	events = append(events, w.resolveConstructions()...)

	w.resetFlows()
	w.refreshCapacities()
	w.eachRoom(func(_ Location, r *Room) {
		if !r.Built || r.UnderConstruction || r.Disabled {
			return
		}
		def, ok := w.catalog.Room(r.Type)
		if !ok {
			return
		}
		workers := len(r.Occupants)
		if def.Category == CategoryLabor && workers > 0 {
			w.runCompetenceTests(r, def)
		}
		if def.Category != CategoryLabor {
			workers = 0
		}
		events = append(events, w.produce(r, def, workers, 1, w.ProductionBonus(r))...)
	})
	events = append(events, w.resolveIncubations()...)
	events = append(events, w.settle(1)...)

	w.age(1)
	events = append(events, w.mortality()...)
	w.Inventory.OptimizeStacks(w.catalog)
	w.updateHappiness()

	events = append(events, w.event(EventWeekCompleted, SeverityInfo, "Week completed",
		fmt.Sprintf("Week %d", w.Clock.Tick),
		map[string]any{"population": w.Population()}))
	return events
}

func (w *World) SetPaused(paused bool) {
	w.Clock.Paused = paused
}

// SetSpeed changes the persistent clock multiplier.
func (w *World) SetSpeed(speed float64) error {
	if !w.tuning.ValidSpeed(speed) {
		return fmt.Errorf("%w: %v (limit %v)", ErrInvalidSpeed, speed, w.tuning.SpeedLimit())
	}
	w.Clock.Speed = speed
	return nil
}
