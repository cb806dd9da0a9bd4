package colony

import (
	"errors"
	"testing"
)

func TestAssignChildToLaborFails(t *testing.T) {
	w, _ := newTestWorld(t)
	child := w.Habitants[0]
	child.AgeWeeks = 363
	at := loc(0, SideRight, 0)

	_, err := w.AssignToRoom(child.ID, at)
	if !errors.Is(err, ErrChildLabor) {
		t.Fatalf("expected ErrChildLabor, got %v", err)
	}
	room, _ := w.roomAt(at)
	if len(room.Occupants) != 0 {
		t.Fatalf("occupants changed: %+v", room.Occupants)
	}
	if !child.Free() {
		t.Fatalf("child got an affectation: %+v", child.Affectation)
	}
}

func TestAssignHousingIgnoresAge(t *testing.T) {
	w, _ := newTestWorld(t)
	baby := w.newHabitant(0)
	w.Habitants = append(w.Habitants, baby)

	if _, err := w.AssignToRoom(baby.ID, loc(0, SideLeft, 0)); err != nil {
		t.Fatalf("assign housing: %v", err)
	}
	if baby.Logement == nil || *baby.Logement != loc(0, SideLeft, 0) {
		t.Fatalf("expected baby housed, got %+v", baby.Logement)
	}
	if !baby.Free() {
		t.Fatalf("housing must not set a labor affectation")
	}
}

func TestAssignRespectsCapacity(t *testing.T) {
	w, _ := newTestWorld(t)
	extra := w.newHabitant(500)
	w.Habitants = append(w.Habitants, extra)
	at := loc(0, SideRight, 0)

	for _, h := range w.Habitants[:2] {
		if _, err := w.AssignToRoom(h.ID, at); err != nil {
			t.Fatalf("assign %s: %v", h.ID, err)
		}
	}
	if _, err := w.AssignToRoom(extra.ID, at); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
	room, _ := w.roomAt(at)
	if len(room.Occupants) != 2 {
		t.Fatalf("occupants got=%d want=2", len(room.Occupants))
	}
}

func TestAssignMovesBetweenPosts(t *testing.T) {
	w, _ := newTestWorld(t)
	worker := w.Habitants[0]
	generator := loc(0, SideRight, 0)
	greenhouse := loc(0, SideRight, 1)

	if _, err := w.AssignToRoom(worker.ID, generator); err != nil {
		t.Fatalf("assign generator: %v", err)
	}
	if _, err := w.AssignToRoom(worker.ID, greenhouse); err != nil {
		t.Fatalf("assign greenhouse: %v", err)
	}
	gen, _ := w.roomAt(generator)
	gh, _ := w.roomAt(greenhouse)
	if gen.hasOccupant(worker.ID) || !gh.hasOccupant(worker.ID) {
		t.Fatalf("worker not moved: generator=%v greenhouse=%v", gen.Occupants, gh.Occupants)
	}
	if worker.Affectation.Location != greenhouse {
		t.Fatalf("affectation got=%+v", worker.Affectation)
	}
}

func infirmaryWithIncubation(t *testing.T, w *World) (Location, *Habitant) {
	t.Helper()
	at := loc(0, SideLeft, 2)
	room := placeRoom(t, w, at, RoomInfirmary)
	room.Equipments = []*Equipment{{ID: "eq-n", Type: "nurserie"}}
	worker := w.Habitants[0]
	if _, err := w.AssignToRoom(worker.ID, at); err != nil {
		t.Fatalf("assign infirmary: %v", err)
	}
	_, _ = w.Inventory.Add(w.catalog, "embryo", 1)
	if _, err := w.StartIncubation(at); err != nil {
		t.Fatalf("start incubation: %v", err)
	}
	return at, worker
}

func TestLastNurserieWorkerCannotLeave(t *testing.T) {
	w, _ := newTestWorld(t)
	at, worker := infirmaryWithIncubation(t, w)

	if _, err := w.Unassign(worker.ID); !errors.Is(err, ErrLastNurserieWorker) {
		t.Fatalf("expected ErrLastNurserieWorker, got %v", err)
	}
	if _, err := w.AssignToRoom(worker.ID, loc(0, SideRight, 0)); !errors.Is(err, ErrLastNurserieWorker) {
		t.Fatalf("expected reassignment refused, got %v", err)
	}
	room, _ := w.roomAt(at)
	if !room.hasOccupant(worker.ID) || worker.Affectation.Location != at {
		t.Fatalf("worker left the infirmary")
	}
}

func TestIncubationPreconditions(t *testing.T) {
	w, _ := newTestWorld(t)
	at := loc(0, SideLeft, 2)
	room := placeRoom(t, w, at, RoomInfirmary)

	if _, err := w.StartIncubation(at); !errors.Is(err, ErrNoWorkers) {
		t.Fatalf("expected ErrNoWorkers, got %v", err)
	}
	if _, err := w.AssignToRoom(w.Habitants[0].ID, at); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := w.StartIncubation(at); !errors.Is(err, ErrNoNurserie) {
		t.Fatalf("expected ErrNoNurserie, got %v", err)
	}
	room.Equipments = []*Equipment{{ID: "eq-n", Type: "nurserie"}}

	_, err := w.StartIncubation(at)
	var shortfall *InsufficientResourcesError
	if !errors.As(err, &shortfall) || shortfall.Missing["embryo"] != 1 {
		t.Fatalf("expected missing embryo, got %v", err)
	}

	_, _ = w.Inventory.Add(w.catalog, "embryo", 2)
	if _, err := w.StartIncubation(at); err != nil {
		t.Fatalf("start incubation: %v", err)
	}
	if got := w.Inventory.Count("embryo"); got != 1 {
		t.Fatalf("embryos got=%d want=1", got)
	}
	if _, err := w.StartIncubation(at); !errors.Is(err, ErrIncubationRunning) {
		t.Fatalf("expected ErrIncubationRunning, got %v", err)
	}
}

func TestIncubationCompletesWithNewborn(t *testing.T) {
	w, _ := newTestWorld(t)
	infirmaryWithIncubation(t, w)
	before := w.Population()

	for i := 0; i < 3; i++ {
		w.runWeek()
	}
	if w.Population() != before+1 {
		t.Fatalf("population got=%d want=%d", w.Population(), before+1)
	}
	baby := w.Habitants[len(w.Habitants)-1]
	if baby.AgeWeeks != 1 {
		t.Fatalf("newborn aged with the week: got=%d want=1", baby.AgeWeeks)
	}
	total := 0
	for _, c := range Competences {
		v := baby.Competences[c]
		if v < 1 || v > 7 {
			t.Fatalf("competence %s out of range: %d", c, v)
		}
		total += v
	}
	if total != 19 {
		t.Fatalf("competence total got=%d want=19", total)
	}
}

func TestMortalityVacatesAndSurfacesDeath(t *testing.T) {
	w, rng := newTestWorld(t)
	elder := w.Habitants[0]
	elder.AgeWeeks = 4940
	at := loc(0, SideRight, 0)
	if _, err := w.AssignToRoom(elder.ID, at); err != nil {
		t.Fatalf("assign: %v", err)
	}
	rng.floats = []float64{0.1}

	events := w.mortality()
	if len(events) != 1 || events[0].Type != EventHabitantDied {
		t.Fatalf("expected death event, got %+v", events)
	}
	if _, ok := w.Habitant(elder.ID); ok {
		t.Fatalf("elder still listed")
	}
	room, _ := w.roomAt(at)
	if len(room.Occupants) != 0 || !room.Disabled {
		t.Fatalf("expected workerless room disabled, got %+v", room)
	}
	dorm, _ := w.roomAt(loc(0, SideLeft, 0))
	if dorm.hasOccupant(elder.ID) {
		t.Fatalf("elder still housed")
	}
	if len(w.PendingDeaths) != 1 {
		t.Fatalf("pending deaths got=%d want=1", len(w.PendingDeaths))
	}
	if err := w.AcknowledgeDeath(elder.ID); err != nil {
		t.Fatalf("acknowledge: %v", err)
	}
	if err := w.AcknowledgeDeath(elder.ID); !errors.Is(err, ErrNoDeathPending) {
		t.Fatalf("expected ErrNoDeathPending, got %v", err)
	}
}

func TestMortalityHazardBands(t *testing.T) {
	tuning := testTuning()
	cases := []struct {
		age  int64
		want float64
	}{
		{3000, 0}, {3900, 0.05}, {4420, 0.1}, {5000, 0.2},
	}
	for _, tc := range cases {
		if got := tuning.hazard(tc.age); got != tc.want {
			t.Fatalf("hazard(%d) got=%v want=%v", tc.age, got, tc.want)
		}
	}
}

func TestSetRoomDisabledIsSticky(t *testing.T) {
	w, _ := newTestWorld(t)
	at := loc(0, SideRight, 1)
	if err := w.SetRoomDisabled(at, true); err != nil {
		t.Fatalf("disable: %v", err)
	}
	w.resetFlows()
	w.settle(1)
	room, _ := w.roomAt(at)
	if !room.Disabled {
		t.Fatalf("manual disable lifted by settlement")
	}
	if err := w.SetRoomDisabled(at, false); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if room.Disabled {
		t.Fatalf("expected room enabled")
	}
	if err := w.SetRoomDisabled(loc(0, SideLeft, 3), true); !errors.Is(err, ErrNotBuilt) {
		t.Fatalf("expected ErrNotBuilt, got %v", err)
	}
}
