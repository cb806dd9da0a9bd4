package colony

type ResourceKind string

const (
	ResourceEnergy   ResourceKind = "energy"
	ResourceWater    ResourceKind = "water"
	ResourceFood     ResourceKind = "food"
	ResourceClothing ResourceKind = "clothing"
	ResourceMedicine ResourceKind = "medicine"
)

// ResourceKinds is the fixed resource set, in settlement order.
var ResourceKinds = []ResourceKind{
	ResourceEnergy,
	ResourceWater,
	ResourceFood,
	ResourceClothing,
	ResourceMedicine,
}

// Resource holds a stock plus the per-week flow rates of the last computed tick.
type Resource struct {
	Amount      float64 `json:"amount"`
	Capacity    float64 `json:"capacity"`
	Production  float64 `json:"production"`
	Consumption float64 `json:"consumption"`
}

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Position is an excavation target on a level.
type Position string

const (
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
	PositionStairs Position = "stairs"
)

func (p Position) Side() (Side, bool) {
	switch p {
	case PositionLeft:
		return SideLeft, true
	case PositionRight:
		return SideRight, true
	default:
		return "", false
	}
}

type Location struct {
	Level int  `json:"level"`
	Side  Side `json:"side"`
	Index int  `json:"index"`
}

type Level struct {
	Depth           int     `json:"depth"`
	StairsExcavated bool    `json:"stairs_excavated"`
	Left            []*Room `json:"left"`
	Right           []*Room `json:"right"`
}

func (l *Level) rooms(side Side) *[]*Room {
	switch side {
	case SideLeft:
		return &l.Left
	case SideRight:
		return &l.Right
	default:
		return nil
	}
}

type RoomType string

const (
	RoomEmpty            RoomType = ""
	RoomDormitory        RoomType = "dormitory"
	RoomDormitoryComfort RoomType = "dormitory_comfort"
	RoomGreenhouse       RoomType = "greenhouse"
	RoomWaterPlant       RoomType = "water_plant"
	RoomWaterTank        RoomType = "water_tank"
	RoomGenerator        RoomType = "generator"
	RoomDerrick          RoomType = "derrick"
	RoomRefinery         RoomType = "refinery"
	RoomLaboratory       RoomType = "laboratory"
	RoomInfirmary        RoomType = "infirmary"
	RoomWorkshop         RoomType = "workshop"
	RoomStorage          RoomType = "storage"
	RoomColdStorage      RoomType = "cold_storage"
)

type Room struct {
	ID                string       `json:"id"`
	Type              RoomType     `json:"type"`
	Index             int          `json:"index"`
	GridSize          int          `json:"grid_size"`
	Excavated         bool         `json:"excavated"`
	Excavating        bool         `json:"excavating"`
	Built             bool         `json:"built"`
	UnderConstruction bool         `json:"under_construction"`
	ConstructionStart int64        `json:"construction_start,omitempty"`
	ConstructionWeeks int64        `json:"construction_weeks,omitempty"`
	Disabled          bool         `json:"disabled"`
	ManuallyDisabled  bool         `json:"manually_disabled"`
	Occupants         []string     `json:"occupants"`
	Equipments        []*Equipment `json:"equipments,omitempty"`

	// Variant state. Only the fields matching Type are meaningful; see transformTo.
	FuelLevel             float64        `json:"fuel_level,omitempty"`
	NextMineralsToProcess []string       `json:"next_minerals_to_process,omitempty"`
	Research              *ResearchState `json:"research,omitempty"`
}

// transformTo switches the room to another type and resets all variant state,
// so no field of the previous type survives the transition.
func (r *Room) transformTo(t RoomType) {
	r.Type = t
	r.FuelLevel = 0
	r.NextMineralsToProcess = nil
	r.Research = nil
	r.Equipments = nil
}

func (r *Room) equipment(t EquipmentType) *Equipment {
	for _, eq := range r.Equipments {
		if eq.Type == t {
			return eq
		}
	}
	return nil
}

// operationalEquipment reports an installed equipment whose build has finished.
func (r *Room) operationalEquipment(t EquipmentType) *Equipment {
	eq := r.equipment(t)
	if eq == nil || eq.UnderConstruction {
		return nil
	}
	return eq
}

func (r *Room) removeOccupant(habitantID string) bool {
	for i, id := range r.Occupants {
		if id == habitantID {
			r.Occupants = append(r.Occupants[:i], r.Occupants[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Room) hasOccupant(habitantID string) bool {
	for _, id := range r.Occupants {
		if id == habitantID {
			return true
		}
	}
	return false
}

type EquipmentType string

type Equipment struct {
	ID                string         `json:"id"`
	Type              EquipmentType  `json:"type"`
	UnderConstruction bool           `json:"under_construction"`
	ConstructionStart int64          `json:"construction_start"`
	ConstructionWeeks int64          `json:"construction_weeks"`
	Incubation        *NurserieState `json:"incubation,omitempty"`
}

type NurserieState struct {
	StartTick int64 `json:"start_tick"`
	Weeks     int64 `json:"weeks"`
}

type ResearchState struct {
	Target    RoomType `json:"target"`
	StartTick int64    `json:"start_tick"`
	Weeks     int64    `json:"weeks"`
	Progress  float64  `json:"progress"`
}

type Competence string

const (
	CompetenceStrength     Competence = "strength"
	CompetencePerception   Competence = "perception"
	CompetenceEndurance    Competence = "endurance"
	CompetenceCharisma     Competence = "charisma"
	CompetenceIntelligence Competence = "intelligence"
	CompetenceAgility      Competence = "agility"
)

var Competences = []Competence{
	CompetenceStrength,
	CompetencePerception,
	CompetenceEndurance,
	CompetenceCharisma,
	CompetenceIntelligence,
	CompetenceAgility,
}

type AffectationKind string

const (
	AffectationNone         AffectationKind = ""
	AffectationLabor        AffectationKind = "labor"
	AffectationExcavation   AffectationKind = "excavation"
	AffectationConstruction AffectationKind = "construction"
)

type Affectation struct {
	Kind         AffectationKind `json:"kind"`
	Location     Location        `json:"location"`
	ExcavationID string          `json:"excavation_id,omitempty"`
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type Habitant struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Gender      Gender             `json:"gender"`
	AgeWeeks    int64              `json:"age_weeks"`
	Sante       int                `json:"sante"`
	Competences map[Competence]int `json:"competences"`
	Affectation Affectation        `json:"affectation"`
	Logement    *Location          `json:"logement,omitempty"`
	Happiness   int                `json:"happiness"`
}

func (h *Habitant) Free() bool {
	return h.Affectation.Kind == AffectationNone
}

type Excavation struct {
	ID         string       `json:"id"`
	Level      int          `json:"level"`
	Position   Position     `json:"position"`
	RoomIndex  *int         `json:"room_index,omitempty"`
	HabitantID string       `json:"habitant_id"`
	StartTick  int64        `json:"start_tick"`
	Weeks      int64        `json:"weeks"`
	Minerals   []ItemAmount `json:"minerals"`
}

type TestResult string

const (
	TestCriticalSuccess TestResult = "critical_success"
	TestSuccess         TestResult = "success"
	TestFailure         TestResult = "failure"
	TestCriticalFailure TestResult = "critical_failure"
)

type CompetenceTest struct {
	HabitantID string     `json:"habitant_id"`
	RoomID     string     `json:"room_id"`
	RoomType   RoomType   `json:"room_type"`
	Competence Competence `json:"competence"`
	Roll       int        `json:"roll"`
	Result     TestResult `json:"result"`
	Week       int64      `json:"week"`
}

type TestKey struct {
	RoomID     string `json:"room_id"`
	HabitantID string `json:"habitant_id"`
	Week       int64  `json:"week"`
}

type DeathNotice struct {
	HabitantID string `json:"habitant_id"`
	Name       string `json:"name"`
	AgeWeeks   int64  `json:"age_weeks"`
	Tick       int64  `json:"tick"`
}

type ItemAmount struct {
	Item     string `json:"item" yaml:"item"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

type Clock struct {
	Tick    int64   `json:"tick"`
	Elapsed float64 `json:"elapsed_weeks"`
	Speed   float64 `json:"speed"`
	Paused  bool    `json:"paused"`
}
