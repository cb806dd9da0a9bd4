package command

import (
	"errors"

	"shelterverse/internal/domain/colony"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{colony.ErrInvalidLocation, "invalid_location"},
	{colony.ErrAlreadyExcavated, "already_excavated"},
	{colony.ErrExcavationInProgress, "excavation_in_progress"},
	{colony.ErrStairsNotExcavated, "stairs_not_excavated"},
	{colony.ErrNotExcavated, "not_excavated"},
	{colony.ErrAlreadyBuilt, "already_built"},
	{colony.ErrConstructionInProgress, "construction_in_progress"},
	{colony.ErrNotBuilt, "not_built"},
	{colony.ErrNoFreeHabitant, "no_free_habitant"},
	{colony.ErrChildLabor, "child_labor"},
	{colony.ErrRoomFull, "room_full"},
	{colony.ErrUnknownRoomType, "unknown_room_type"},
	{colony.ErrUnknownItem, "unknown_item"},
	{colony.ErrUnknownEquipment, "unknown_equipment"},
	{colony.ErrUnknownRecipe, "unknown_recipe"},
	{colony.ErrRoomLocked, "room_locked"},
	{colony.ErrHabitantNotFound, "habitant_not_found"},
	{colony.ErrHabitantBusy, "habitant_busy"},
	{colony.ErrLastNurserieWorker, "last_nurserie_worker"},
	{colony.ErrNoWorkers, "no_workers"},
	{colony.ErrEquipmentInstalled, "equipment_installed"},
	{colony.ErrEquipmentNotAllowed, "equipment_not_allowed"},
	{colony.ErrNoNurserie, "no_nurserie"},
	{colony.ErrIncubationRunning, "incubation_running"},
	{colony.ErrResearchRunning, "research_running"},
	{colony.ErrNotResearchable, "not_researchable"},
	{colony.ErrWrongRoomType, "wrong_room_type"},
	{colony.ErrInsufficientResources, "insufficient_resources"},
	{colony.ErrInventoryFull, "inventory_full"},
	{colony.ErrNoDeathPending, "no_death_pending"},
	{colony.ErrInvalidSpeed, "invalid_speed"},
}

// ErrorCode maps an engine error to its stable wire code.
func ErrorCode(err error) string {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return "rejected"
}
