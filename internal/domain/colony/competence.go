package colony

import "gonum.org/v1/gonum/stat"

var testScores = map[TestResult]float64{
	TestCriticalSuccess: 1.5,
	TestSuccess:         1.1,
	TestFailure:         0.9,
	TestCriticalFailure: 0.6,
}

func classify(roll, competence int) TestResult {
	switch {
	case roll == 1:
		return TestCriticalSuccess
	case roll == 10:
		return TestCriticalFailure
	case roll <= competence:
		return TestSuccess
	default:
		return TestFailure
	}
}

func (w *World) tested(key TestKey) bool {
	for _, k := range w.TestLedger {
		if k == key {
			return true
		}
	}
	return false
}

// testCompetence rolls one skill check for h working in room. A given
// (room, habitant, week) is rolled at most once.
func (w *World) testCompetence(h *Habitant, room *Room, def RoomDef) (CompetenceTest, bool) {
	key := TestKey{RoomID: room.ID, HabitantID: h.ID, Week: w.Clock.Tick}
	if w.tested(key) {
		return CompetenceTest{}, false
	}
	roll := w.rng.IntN(10) + 1
	test := CompetenceTest{
		HabitantID: h.ID,
		RoomID:     room.ID,
		RoomType:   room.Type,
		Competence: def.Competence,
		Roll:       roll,
		Result:     classify(roll, h.Competences[def.Competence]),
		Week:       w.Clock.Tick,
	}
	w.TestLedger = append(w.TestLedger, key)
	w.Tests = append(w.Tests, test)
	if limit := w.tuning.TestHistoryLimit; limit > 0 && len(w.Tests) > limit {
		w.Tests = append([]CompetenceTest(nil), w.Tests[len(w.Tests)-limit:]...)
	}
	return test, true
}

func (w *World) pruneTestLedger() {
	oldest := w.Clock.Tick - w.tuning.TestLedgerWeeks
	kept := w.TestLedger[:0]
	for _, k := range w.TestLedger {
		if k.Week >= oldest {
			kept = append(kept, k)
		}
	}
	w.TestLedger = kept
}

func (w *World) runCompetenceTests(room *Room, def RoomDef) {
	for _, id := range room.Occupants {
		if h, ok := w.Habitant(id); ok {
			w.testCompetence(h, room, def)
		}
	}
}

// ProductionBonus averages the scores of each current worker's latest tests in
// room. A room without tests is neutral.
func (w *World) ProductionBonus(room *Room) float64 {
	per := w.tuning.TestsPerWorker
	if per <= 0 {
		per = 3
	}
	var scores []float64
	for _, id := range room.Occupants {
		taken := 0
		for i := len(w.Tests) - 1; i >= 0 && taken < per; i-- {
			t := w.Tests[i]
			if t.RoomID != room.ID || t.HabitantID != id {
				continue
			}
			scores = append(scores, testScores[t.Result])
			taken++
		}
	}
	if len(scores) == 0 {
		return 1
	}
	return stat.Mean(scores, nil)
}
