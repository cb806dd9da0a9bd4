package colony

type RoomCategory string

const (
	CategoryHousing RoomCategory = "housing"
	CategoryLabor   RoomCategory = "labor"
	CategoryStorage RoomCategory = "storage"
)

type GreenhouseDef struct {
	Crop string  `yaml:"crop" json:"crop"`
	Rate float64 `yaml:"rate" json:"rate"`
}

// WorkshopDef describes equipment-gated output: Rate output units per worker
// per week, each consuming Ratio units of Input.
type WorkshopDef struct {
	Equipment EquipmentType `yaml:"equipment" json:"equipment"`
	Input     string        `yaml:"input" json:"input"`
	Ratio     float64       `yaml:"ratio" json:"ratio"`
	Output    ResourceKind  `yaml:"output" json:"output"`
	Rate      float64       `yaml:"rate" json:"rate"`
}

type RoomDef struct {
	Type                RoomType                 `yaml:"type" json:"type"`
	Name                string                   `yaml:"name" json:"name"`
	Category            RoomCategory             `yaml:"category" json:"category"`
	Competence          Competence               `yaml:"competence" json:"competence"`
	MaxWorkers          int                      `yaml:"max_workers" json:"max_workers"`
	CapacityPerResident int                      `yaml:"capacity_per_resident" json:"capacity_per_resident"`
	PerWorker           map[ResourceKind]float64 `yaml:"per_worker" json:"per_worker,omitempty"`
	EnergyUpkeep        float64                  `yaml:"energy_upkeep" json:"energy_upkeep"`
	Cost                []ItemAmount             `yaml:"cost" json:"cost"`
	StorageBonus        map[ResourceKind]float64 `yaml:"storage_bonus" json:"storage_bonus,omitempty"`
	StackBonus          int                      `yaml:"stack_bonus" json:"stack_bonus,omitempty"`
	ColdStackBonus      int                      `yaml:"cold_stack_bonus" json:"cold_stack_bonus,omitempty"`
	TankCapacity        float64                  `yaml:"tank_capacity" json:"tank_capacity,omitempty"`
	ProcessingPerWorker float64                  `yaml:"processing_per_worker" json:"processing_per_worker,omitempty"`
	Greenhouse          *GreenhouseDef           `yaml:"greenhouse" json:"greenhouse,omitempty"`
	Workshop            *WorkshopDef             `yaml:"workshop" json:"workshop,omitempty"`
	Locked              bool                     `yaml:"locked" json:"locked"`
	ResearchWeeks       int64                    `yaml:"research_weeks" json:"research_weeks,omitempty"`
}

type EquipmentDef struct {
	Type     EquipmentType `yaml:"type" json:"type"`
	Rooms    []RoomType    `yaml:"rooms" json:"rooms"`
	Cost     []ItemAmount  `yaml:"cost" json:"cost"`
	Crop     string        `yaml:"crop" json:"crop,omitempty"`
	CropRate float64       `yaml:"crop_rate" json:"crop_rate,omitempty"`
}

func (d EquipmentDef) allows(t RoomType) bool {
	for _, rt := range d.Rooms {
		if rt == t {
			return true
		}
	}
	return false
}

const ItemCategoryFood = "food"

type ItemDef struct {
	ID        string  `yaml:"id" json:"id"`
	Name      string  `yaml:"name" json:"name"`
	Category  string  `yaml:"category" json:"category"`
	StackSize int     `yaml:"stack_size" json:"stack_size"`
	FoodRatio float64 `yaml:"food_ratio" json:"food_ratio,omitempty"`
	Quality   int     `yaml:"quality" json:"quality,omitempty"`
}

type RecipeDef struct {
	ID      string       `yaml:"id" json:"id"`
	Inputs  []ItemAmount `yaml:"inputs" json:"inputs"`
	Outputs []ItemAmount `yaml:"outputs" json:"outputs"`
}

type MineralChance struct {
	Item   string  `yaml:"item" json:"item"`
	Chance float64 `yaml:"chance" json:"chance"`
	Min    int     `yaml:"min" json:"min"`
	Max    int     `yaml:"max" json:"max"`
}

type MineralTier struct {
	Depth    int             `yaml:"depth" json:"depth"`
	Minerals []MineralChance `yaml:"minerals" json:"minerals"`
}

type NamePool struct {
	Male   []string `yaml:"male" json:"male"`
	Female []string `yaml:"female" json:"female"`
}

// Catalog is the static, read-only configuration the engine consults.
type Catalog struct {
	Rooms            []RoomDef      `yaml:"rooms" json:"rooms"`
	Equipment        []EquipmentDef `yaml:"equipment" json:"equipment"`
	Items            []ItemDef      `yaml:"items" json:"items"`
	Recipes          []RecipeDef    `yaml:"recipes" json:"recipes"`
	MineralTiers     []MineralTier  `yaml:"mineral_tiers" json:"mineral_tiers"`
	Names            NamePool       `yaml:"names" json:"names"`
	StarterInventory []ItemAmount   `yaml:"starter_inventory" json:"starter_inventory"`
}

func (c Catalog) Room(t RoomType) (RoomDef, bool) {
	for _, def := range c.Rooms {
		if def.Type == t {
			return def, true
		}
	}
	return RoomDef{}, false
}

func (c Catalog) EquipmentDef(t EquipmentType) (EquipmentDef, bool) {
	for _, def := range c.Equipment {
		if def.Type == t {
			return def, true
		}
	}
	return EquipmentDef{}, false
}

func (c Catalog) Item(id string) (ItemDef, bool) {
	for _, def := range c.Items {
		if def.ID == id {
			return def, true
		}
	}
	return ItemDef{}, false
}

func (c Catalog) Recipe(id string) (RecipeDef, bool) {
	for _, def := range c.Recipes {
		if def.ID == id {
			return def, true
		}
	}
	return RecipeDef{}, false
}

// MineralTier returns the tier for depth, capped at the deepest defined tier.
func (c Catalog) MineralTier(depth int) (MineralTier, bool) {
	var best MineralTier
	found := false
	for _, tier := range c.MineralTiers {
		if tier.Depth <= depth && (!found || tier.Depth > best.Depth) {
			best = tier
			found = true
		}
	}
	if !found && len(c.MineralTiers) > 0 {
		return c.MineralTiers[0], true
	}
	return best, found
}

type MortalityBand struct {
	MinAgeWeeks int64   `yaml:"min_age_weeks" json:"min_age_weeks"`
	WeeklyRate  float64 `yaml:"weekly_rate" json:"weekly_rate"`
}

// Tuning holds engine constants.
type Tuning struct {
	SecondsPerWeek       float64 `yaml:"seconds_per_week"`
	MaxSpeed             float64 `yaml:"max_speed"`
	MaxWeeksPerAdvance   int64   `yaml:"max_weeks_per_advance"`
	BaseExcavationWeeks  int64   `yaml:"base_excavation_weeks"`
	DepthWeeksMultiplier int64   `yaml:"depth_weeks_multiplier"`
	ConstructionWeeks    int64   `yaml:"construction_weeks"`
	EquipmentBuildWeeks  int64   `yaml:"equipment_build_weeks"`
	IncubationWeeks      int64   `yaml:"incubation_weeks"`
	AdultAgeWeeks        int64   `yaml:"adult_age_weeks"`
	MaxGridSize          int     `yaml:"max_grid_size"`

	MergeMultipliers map[int]float64 `yaml:"merge_multipliers"`

	TestHistoryLimit int   `yaml:"test_history_limit"`
	TestLedgerWeeks  int64 `yaml:"test_ledger_weeks"`
	TestsPerWorker   int   `yaml:"tests_per_worker"`

	TankFillPerTick          float64 `yaml:"tank_fill_per_tick"`
	GeneratorBurnPerWeek     float64 `yaml:"generator_burn_per_week"`
	GeneratorRefuelThreshold float64 `yaml:"generator_refuel_threshold"`
	BarrelRestore            float64 `yaml:"barrel_restore"`
	DerrickWeeksPerUnit      float64 `yaml:"derrick_weeks_per_unit"`
	GreenhouseWaterPerWorker float64 `yaml:"greenhouse_water_per_worker"`

	FuelItem        string        `yaml:"fuel_item"`
	EmptyBarrelItem string        `yaml:"empty_barrel_item"`
	CrudeItem       string        `yaml:"crude_item"`
	EmbryoItem      string        `yaml:"embryo_item"`
	NurserieType    EquipmentType `yaml:"nurserie_type"`

	BaseCapacity   map[ResourceKind]float64 `yaml:"base_capacity"`
	StartResources map[ResourceKind]float64 `yaml:"start_resources"`
	BaseStacks     int                      `yaml:"base_stacks"`
	BaseColdStacks int                      `yaml:"base_cold_stacks"`

	WaterPerHabitant    float64 `yaml:"water_per_habitant"`
	ClothingPerHabitant float64 `yaml:"clothing_per_habitant"`
	MedicinePerHabitant float64 `yaml:"medicine_per_habitant"`

	StartLevels      int `yaml:"start_levels"`
	RoomsPerSide     int `yaml:"rooms_per_side"`
	StartHabitants   int `yaml:"start_habitants"`
	CompetencePoints int `yaml:"competence_points"`
	CompetenceCap    int `yaml:"competence_cap"`

	Mortality []MortalityBand `yaml:"mortality"`
}

// MergeMultiplier maps a grid size to its production multiplier; unknown sizes scale by 1.
func (t Tuning) MergeMultiplier(gridSize int) float64 {
	if m, ok := t.MergeMultipliers[gridSize]; ok && m > 0 {
		return m
	}
	return 1
}

// SpeedLimit is the highest accepted clock multiplier.
func (t Tuning) SpeedLimit() float64 {
	if t.MaxSpeed > 0 {
		return t.MaxSpeed
	}
	return 16
}

// ValidSpeed reports whether speed is a finite multiplier in (0, SpeedLimit].
func (t Tuning) ValidSpeed(speed float64) bool {
	return speed > 0 && speed <= t.SpeedLimit()
}

// WeekLimit caps the weeks a single Advance may run.
func (t Tuning) WeekLimit() int64 {
	if t.MaxWeeksPerAdvance > 0 {
		return t.MaxWeeksPerAdvance
	}
	return 1040
}

func (t Tuning) excavationWeeks(depth int) int64 {
	return t.BaseExcavationWeeks + int64(depth)*t.DepthWeeksMultiplier
}

func (t Tuning) hazard(ageWeeks int64) float64 {
	rate := 0.0
	best := int64(-1)
	for _, band := range t.Mortality {
		if ageWeeks >= band.MinAgeWeeks && band.MinAgeWeeks > best {
			best = band.MinAgeWeeks
			rate = band.WeeklyRate
		}
	}
	return rate
}
