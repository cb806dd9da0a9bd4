package colony

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the complete serializable state of a colony.
type Snapshot struct {
	Seed          uint64                     `json:"seed"`
	Clock         Clock                      `json:"clock"`
	Resources     map[ResourceKind]*Resource `json:"resources"`
	Levels        []*Level                   `json:"levels"`
	Habitants     []*Habitant                `json:"habitants"`
	Inventory     Inventory                  `json:"inventory"`
	Excavations   []*Excavation              `json:"excavations"`
	Tests         []CompetenceTest           `json:"tests"`
	TestLedger    []TestKey                  `json:"test_ledger"`
	Unlocked      []RoomType                 `json:"unlocked"`
	PendingDeaths []DeathNotice              `json:"pending_deaths"`
	Brownout      bool                       `json:"brownout"`
	NextID        int64                      `json:"next_id"`
	RandState     []byte                     `json:"rand_state,omitempty"`
}

// World owns one colony's state together with the static data and the
// randomness the engines need. It is not safe for concurrent use.
type World struct {
	Snapshot

	catalog Catalog
	tuning  Tuning
	rng     Rand

	// water already taken from the tanks during the current tick
	predrawn float64
}

// NewWorld builds the fixed starting colony.
func NewWorld(catalog Catalog, tuning Tuning, seed uint64) *World {
	w := &World{
		Snapshot: Snapshot{
			Seed:      seed,
			Clock:     Clock{Speed: 1},
			Resources: map[ResourceKind]*Resource{},
			Inventory: Inventory{MaxStacks: tuning.BaseStacks, ColdStacks: tuning.BaseColdStacks},
		},
		catalog: catalog,
		tuning:  tuning,
		rng:     NewRand(seed),
	}
	for _, kind := range ResourceKinds {
		w.Resources[kind] = &Resource{
			Amount:   tuning.StartResources[kind],
			Capacity: tuning.BaseCapacity[kind],
		}
	}
	for _, def := range catalog.Rooms {
		if !def.Locked {
			w.Unlocked = append(w.Unlocked, def.Type)
		}
	}

	for depth := 0; depth < tuning.StartLevels; depth++ {
		lvl := &Level{Depth: depth}
		for i := 0; i < tuning.RoomsPerSide; i++ {
			lvl.Left = append(lvl.Left, w.newRoom(i))
			lvl.Right = append(lvl.Right, w.newRoom(i))
		}
		w.Levels = append(w.Levels, lvl)
	}
	if len(w.Levels) > 0 && tuning.RoomsPerSide >= 2 {
		top := w.Levels[0]
		top.StairsExcavated = true
		for _, r := range append(append([]*Room{}, top.Left...), top.Right...) {
			r.Excavated = true
		}
		w.seedRoom(top.Left[0], RoomDormitory, 0)
		w.seedRoom(top.Right[0], RoomGenerator, 100)
		w.seedRoom(top.Left[1], RoomWaterTank, 50)
		w.seedRoom(top.Right[1], RoomGreenhouse, 0)
	}

	for _, it := range catalog.StarterInventory {
		_, _ = w.Inventory.Add(catalog, it.Item, it.Quantity)
	}
	for i := 0; i < tuning.StartHabitants; i++ {
		h := w.newHabitant(tuning.AdultAgeWeeks + int64(w.rng.IntN(int(tuning.AdultAgeWeeks*3+1))))
		w.Habitants = append(w.Habitants, h)
		if len(w.Levels) > 0 && tuning.RoomsPerSide >= 2 {
			dorm := Location{Level: 0, Side: SideLeft, Index: 0}
			if room, _ := w.roomAt(dorm); room != nil && len(room.Occupants) < w.capacity(room) {
				room.Occupants = append(room.Occupants, h.ID)
				loc := dorm
				h.Logement = &loc
			}
		}
	}
	w.refreshCapacities()
	return w
}

func (w *World) seedRoom(r *Room, t RoomType, fuel float64) {
	if _, ok := w.catalog.Room(t); !ok {
		return
	}
	r.transformTo(t)
	r.Built = true
	r.FuelLevel = fuel
}

// Restore rebuilds a world from a snapshot. The snapshot is deep-copied.
func Restore(snap Snapshot, catalog Catalog, tuning Tuning) (*World, error) {
	var copied Snapshot
	if err := deepCopy(snap, &copied); err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	if copied.Resources == nil {
		copied.Resources = map[ResourceKind]*Resource{}
	}
	for _, kind := range ResourceKinds {
		if copied.Resources[kind] == nil {
			copied.Resources[kind] = &Resource{Capacity: tuning.BaseCapacity[kind]}
		}
	}
	if !(copied.Clock.Speed > 0) {
		copied.Clock.Speed = 1
	}
	copied.Clock.Speed = min(copied.Clock.Speed, tuning.SpeedLimit())
	rng, err := restoreRand(copied.RandState, copied.Seed^uint64(copied.Clock.Tick))
	if err != nil {
		return nil, fmt.Errorf("restore snapshot: %w", err)
	}
	copied.RandState = nil
	return &World{
		Snapshot: copied,
		catalog:  catalog,
		tuning:   tuning,
		rng:      rng,
	}, nil
}

// Export returns a deep copy of the current state.
func (w *World) Export() (Snapshot, error) {
	var out Snapshot
	if err := deepCopy(w.Snapshot, &out); err != nil {
		return Snapshot{}, fmt.Errorf("export snapshot: %w", err)
	}
	state, err := randState(w.rng)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export rand state: %w", err)
	}
	out.RandState = state
	return out, nil
}

func deepCopy(in Snapshot, out *Snapshot) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// SetRand replaces the random source.
func (w *World) SetRand(r Rand) {
	w.rng = r
}

func (w *World) Catalog() Catalog { return w.catalog }

func (w *World) Tuning() Tuning { return w.tuning }

func (w *World) Population() int { return len(w.Habitants) }

func (w *World) nextID(prefix string) string {
	w.NextID++
	return fmt.Sprintf("%s-%d", prefix, w.NextID)
}

func (w *World) newRoom(index int) *Room {
	return &Room{ID: w.nextID("room"), Index: index, GridSize: 1, Occupants: []string{}}
}

func (w *World) level(i int) (*Level, error) {
	if i < 0 || i >= len(w.Levels) {
		return nil, ErrInvalidLocation
	}
	return w.Levels[i], nil
}

func (w *World) roomAt(loc Location) (*Room, error) {
	lvl, err := w.level(loc.Level)
	if err != nil {
		return nil, err
	}
	rooms := lvl.rooms(loc.Side)
	if rooms == nil || loc.Index < 0 || loc.Index >= len(*rooms) {
		return nil, ErrInvalidLocation
	}
	return (*rooms)[loc.Index], nil
}

// RoomAt exposes the room at loc for read-only callers.
func (w *World) RoomAt(loc Location) (*Room, error) {
	return w.roomAt(loc)
}

func (w *World) eachRoom(fn func(loc Location, r *Room)) {
	for li, lvl := range w.Levels {
		for _, side := range []Side{SideLeft, SideRight} {
			for _, r := range *lvl.rooms(side) {
				fn(Location{Level: li, Side: side, Index: r.Index}, r)
			}
		}
	}
}

func (w *World) Habitant(id string) (*Habitant, bool) {
	for _, h := range w.Habitants {
		if h.ID == id {
			return h, true
		}
	}
	return nil, false
}

func (w *World) isUnlocked(t RoomType) bool {
	for _, u := range w.Unlocked {
		if u == t {
			return true
		}
	}
	return false
}

func (w *World) unlock(t RoomType) {
	if !w.isUnlocked(t) {
		w.Unlocked = append(w.Unlocked, t)
	}
}

// capacity is the occupant limit of a room for its type and grid size.
func (w *World) capacity(r *Room) int {
	def, ok := w.catalog.Room(r.Type)
	if !ok {
		return 0
	}
	if def.Category == CategoryHousing {
		return def.CapacityPerResident * r.GridSize
	}
	return def.MaxWorkers * r.GridSize
}

func (w *World) newHabitant(ageWeeks int64) *Habitant {
	gender := GenderMale
	pool := w.catalog.Names.Male
	if w.rng.IntN(2) == 1 {
		gender = GenderFemale
		pool = w.catalog.Names.Female
	}
	name := "Unnamed"
	if len(pool) > 0 {
		name = pool[w.rng.IntN(len(pool))]
	}
	comp := make(map[Competence]int, len(Competences))
	for _, c := range Competences {
		comp[c] = 1
	}
	for p := 0; p < w.tuning.CompetencePoints; p++ {
		open := make([]Competence, 0, len(Competences))
		for _, c := range Competences {
			if comp[c] < w.tuning.CompetenceCap {
				open = append(open, c)
			}
		}
		if len(open) == 0 {
			break
		}
		comp[open[w.rng.IntN(len(open))]]++
	}
	return &Habitant{
		ID:          w.nextID("hab"),
		Name:        name,
		Gender:      gender,
		AgeWeeks:    ageWeeks,
		Sante:       100,
		Competences: comp,
		Happiness:   50,
	}
}
