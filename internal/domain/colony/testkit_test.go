package colony

import "testing"

// stubRand replays scripted draws, then falls back to 0.99 and 0.
type stubRand struct {
	floats []float64
	ints   []int
}

func (r *stubRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.99
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *stubRand) IntN(n int) int {
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func testCatalog() Catalog {
	return Catalog{
		Rooms: []RoomDef{
			{Type: RoomDormitory, Name: "Dormitory", Category: CategoryHousing, CapacityPerResident: 4,
				Cost: []ItemAmount{{Item: "metal", Quantity: 5}}},
			{Type: RoomGenerator, Name: "Generator", Category: CategoryLabor, Competence: CompetenceStrength, MaxWorkers: 2,
				PerWorker: map[ResourceKind]float64{ResourceEnergy: 10}, Cost: []ItemAmount{{Item: "metal", Quantity: 5}}},
			{Type: RoomWaterTank, Name: "Water tank", Category: CategoryStorage, TankCapacity: 5000,
				Cost: []ItemAmount{{Item: "metal", Quantity: 3}}},
			{Type: RoomWaterPlant, Name: "Water plant", Category: CategoryLabor, Competence: CompetencePerception, MaxWorkers: 2,
				PerWorker: map[ResourceKind]float64{ResourceWater: 10}, Cost: []ItemAmount{{Item: "metal", Quantity: 5}}},
			{Type: RoomGreenhouse, Name: "Greenhouse", Category: CategoryLabor, Competence: CompetenceIntelligence, MaxWorkers: 2,
				Greenhouse: &GreenhouseDef{Crop: "potato", Rate: 4}, Cost: []ItemAmount{{Item: "metal", Quantity: 5}}},
			{Type: RoomRefinery, Name: "Refinery", Category: CategoryLabor, Competence: CompetenceEndurance, MaxWorkers: 2,
				ProcessingPerWorker: 2, Cost: []ItemAmount{{Item: "metal", Quantity: 8}}},
			{Type: RoomDerrick, Name: "Derrick", Category: CategoryLabor, Competence: CompetenceStrength, MaxWorkers: 2,
				Cost: []ItemAmount{{Item: "metal", Quantity: 8}}},
			{Type: RoomLaboratory, Name: "Laboratory", Category: CategoryLabor, Competence: CompetenceIntelligence, MaxWorkers: 2,
				Cost: []ItemAmount{{Item: "metal", Quantity: 10}}},
			{Type: RoomInfirmary, Name: "Infirmary", Category: CategoryLabor, Competence: CompetenceCharisma, MaxWorkers: 2,
				PerWorker: map[ResourceKind]float64{ResourceMedicine: 1}, Cost: []ItemAmount{{Item: "metal", Quantity: 6}}},
			{Type: RoomWorkshop, Name: "Workshop", Category: CategoryLabor, Competence: CompetenceAgility, MaxWorkers: 2,
				Workshop: &WorkshopDef{Equipment: "loom", Input: "fiber", Ratio: 2, Output: ResourceClothing, Rate: 1},
				Cost:     []ItemAmount{{Item: "metal", Quantity: 6}}},
			{Type: RoomStorage, Name: "Storage", Category: CategoryStorage, StackBonus: 5,
				StorageBonus: map[ResourceKind]float64{ResourceClothing: 50},
				Cost:         []ItemAmount{{Item: "metal", Quantity: 5}}},
			{Type: RoomColdStorage, Name: "Cold storage", Category: CategoryStorage, ColdStackBonus: 3,
				StorageBonus: map[ResourceKind]float64{ResourceFood: 100},
				Cost:         []ItemAmount{{Item: "metal", Quantity: 5}}, Locked: true, ResearchWeeks: 4},
		},
		Equipment: []EquipmentDef{
			{Type: "nurserie", Rooms: []RoomType{RoomInfirmary}, Cost: []ItemAmount{{Item: "metal", Quantity: 2}}},
			{Type: "loom", Rooms: []RoomType{RoomWorkshop}, Cost: []ItemAmount{{Item: "metal", Quantity: 2}}},
			{Type: "hydroponics", Rooms: []RoomType{RoomGreenhouse}, Cost: []ItemAmount{{Item: "metal", Quantity: 2}},
				Crop: "ration", CropRate: 1},
		},
		Items: []ItemDef{
			{ID: "metal", Name: "Metal", Category: "material", StackSize: 100},
			{ID: "fiber", Name: "Fiber", Category: "material", StackSize: 50},
			{ID: "iron_ore", Name: "Iron ore", Category: "mineral", StackSize: 50},
			{ID: "copper_ore", Name: "Copper ore", Category: "mineral", StackSize: 50},
			{ID: "iron_plate", Name: "Iron plate", Category: "material", StackSize: 50},
			{ID: "crude", Name: "Crude oil", Category: "fuel", StackSize: 10},
			{ID: "fuel_barrel", Name: "Fuel barrel", Category: "fuel", StackSize: 10},
			{ID: "empty_barrel", Name: "Empty barrel", Category: "container", StackSize: 10},
			{ID: "embryo", Name: "Embryo", Category: "medical", StackSize: 5},
			{ID: "ration", Name: "Ration", Category: ItemCategoryFood, StackSize: 20, FoodRatio: 1},
			{ID: "potato", Name: "Potato", Category: ItemCategoryFood, StackSize: 50, FoodRatio: 2},
		},
		Recipes: []RecipeDef{
			{ID: "smelt_iron", Inputs: []ItemAmount{{Item: "iron_ore", Quantity: 1}}, Outputs: []ItemAmount{{Item: "iron_plate", Quantity: 2}}},
			{ID: "refine_crude", Inputs: []ItemAmount{{Item: "crude", Quantity: 1}}, Outputs: []ItemAmount{{Item: "fuel_barrel", Quantity: 1}}},
		},
		MineralTiers: []MineralTier{
			{Depth: 0, Minerals: []MineralChance{{Item: "iron_ore", Chance: 0.5, Min: 2, Max: 4}}},
			{Depth: 2, Minerals: []MineralChance{{Item: "copper_ore", Chance: 0.2, Min: 1, Max: 3}}},
		},
		Names: NamePool{Male: []string{"Hugo", "Marc"}, Female: []string{"Lina", "Alice"}},
		StarterInventory: []ItemAmount{
			{Item: "metal", Quantity: 20},
			{Item: "ration", Quantity: 20},
			{Item: "fuel_barrel", Quantity: 5},
			{Item: "empty_barrel", Quantity: 2},
		},
	}
}

func testTuning() Tuning {
	return Tuning{
		SecondsPerWeek:           10,
		MaxSpeed:                 16,
		MaxWeeksPerAdvance:       50,
		BaseExcavationWeeks:      2,
		DepthWeeksMultiplier:     1,
		ConstructionWeeks:        4,
		EquipmentBuildWeeks:      1,
		IncubationWeeks:          3,
		AdultAgeWeeks:            364,
		MaxGridSize:              5,
		MergeMultipliers:         map[int]float64{2: 2.5, 3: 4, 4: 6, 5: 8},
		TestHistoryLimit:         100,
		TestLedgerWeeks:          2,
		TestsPerWorker:           3,
		TankFillPerTick:          1000,
		GeneratorBurnPerWeek:     10,
		GeneratorRefuelThreshold: 20,
		BarrelRestore:            50,
		DerrickWeeksPerUnit:      7,
		GreenhouseWaterPerWorker: 2,
		FuelItem:                 "fuel_barrel",
		EmptyBarrelItem:          "empty_barrel",
		CrudeItem:                "crude",
		EmbryoItem:               "embryo",
		NurserieType:             "nurserie",
		BaseCapacity: map[ResourceKind]float64{
			ResourceFood:     100,
			ResourceClothing: 50,
			ResourceMedicine: 50,
		},
		BaseStacks:       10,
		BaseColdStacks:   5,
		StartLevels:      3,
		RoomsPerSide:     4,
		StartHabitants:   2,
		CompetencePoints: 13,
		CompetenceCap:    7,
		Mortality: []MortalityBand{
			{MinAgeWeeks: 3900, WeeklyRate: 0.05},
			{MinAgeWeeks: 4420, WeeklyRate: 0.1},
			{MinAgeWeeks: 4940, WeeklyRate: 0.2},
		},
	}
}

func newTestWorld(t *testing.T) (*World, *stubRand) {
	t.Helper()
	w := NewWorld(testCatalog(), testTuning(), 1)
	rng := &stubRand{}
	w.SetRand(rng)
	return w, rng
}

func loc(level int, side Side, index int) Location {
	return Location{Level: level, Side: side, Index: index}
}

// placeRoom turns an excavated slot into a finished room of type t.
func placeRoom(t *testing.T, w *World, at Location, typ RoomType) *Room {
	t.Helper()
	room, err := w.roomAt(at)
	if err != nil {
		t.Fatalf("room at %+v: %v", at, err)
	}
	room.Excavated = true
	room.transformTo(typ)
	room.Built = true
	return room
}

func mustDef(t *testing.T, w *World, typ RoomType) RoomDef {
	t.Helper()
	def, ok := w.catalog.Room(typ)
	if !ok {
		t.Fatalf("missing room def %s", typ)
	}
	return def
}
