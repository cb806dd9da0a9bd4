package command

import "shelterverse/internal/domain/colony"

const (
	TypeExcavate         = "excavate"
	TypeBuild            = "build"
	TypeAssign           = "assign"
	TypeUnassign         = "unassign"
	TypeInstallEquipment = "install_equipment"
	TypeStartResearch    = "start_research"
	TypeStartIncubation  = "start_incubation"
	TypeQueueRefinery    = "queue_refinery"
	TypeSetDisabled      = "set_disabled"
	TypeSetPaused        = "set_paused"
	TypeSetSpeed         = "set_speed"
	TypeAcknowledgeDeath = "acknowledge_death"
)

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
)

// Command is one player order. Only the fields its Type uses are read.
type Command struct {
	Type string `json:"type"`

	Level     int             `json:"level"`
	Side      colony.Side     `json:"side,omitempty"`
	Index     int             `json:"index"`
	Position  colony.Position `json:"position,omitempty"`
	RoomIndex *int            `json:"room_index,omitempty"`

	RoomType      colony.RoomType      `json:"room_type,omitempty"`
	EquipmentType colony.EquipmentType `json:"equipment_type,omitempty"`
	Target        colony.RoomType      `json:"target,omitempty"`
	RecipeID      string               `json:"recipe_id,omitempty"`
	HabitantID    string               `json:"habitant_id,omitempty"`

	Disabled bool    `json:"disabled"`
	Paused   bool    `json:"paused"`
	Speed    float64 `json:"speed,omitempty"`
}

func (c Command) location() colony.Location {
	return colony.Location{Level: c.Level, Side: c.Side, Index: c.Index}
}

type Request struct {
	ColonyID       string
	IdempotencyKey string
	Command        Command
}

type Response struct {
	ResultCode string               `json:"result_code"`
	Tick       int64                `json:"tick"`
	Version    int64                `json:"version"`
	Events     []colony.DomainEvent `json:"events"`
	Replayed   bool                 `json:"replayed,omitempty"`
}
