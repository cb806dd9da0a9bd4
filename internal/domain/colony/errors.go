package colony

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidLocation        = errors.New("invalid location")
	ErrAlreadyExcavated       = errors.New("target already excavated")
	ErrExcavationInProgress   = errors.New("target already being excavated")
	ErrStairsNotExcavated     = errors.New("stairs not excavated")
	ErrNotExcavated           = errors.New("target not excavated")
	ErrAlreadyBuilt           = errors.New("room already built")
	ErrConstructionInProgress = errors.New("room under construction")
	ErrNotBuilt               = errors.New("room not built")
	ErrNoFreeHabitant         = errors.New("no free habitant")
	ErrChildLabor             = errors.New("habitant too young to work")
	ErrRoomFull               = errors.New("room is full")
	ErrUnknownRoomType        = errors.New("unknown room type")
	ErrUnknownItem            = errors.New("unknown item")
	ErrUnknownEquipment       = errors.New("unknown equipment")
	ErrUnknownRecipe          = errors.New("unknown recipe")
	ErrRoomLocked             = errors.New("room type locked")
	ErrHabitantNotFound       = errors.New("habitant not found")
	ErrHabitantBusy           = errors.New("habitant busy")
	ErrLastNurserieWorker     = errors.New("last worker of an incubating nurserie")
	ErrNoWorkers              = errors.New("room has no workers")
	ErrEquipmentInstalled     = errors.New("equipment already installed")
	ErrEquipmentNotAllowed    = errors.New("equipment not allowed in room")
	ErrNoNurserie             = errors.New("no operational nurserie")
	ErrIncubationRunning      = errors.New("incubation already running")
	ErrResearchRunning        = errors.New("research already running")
	ErrNotResearchable        = errors.New("room type not researchable")
	ErrWrongRoomType          = errors.New("wrong room type")
	ErrInsufficientResources  = errors.New("insufficient resources")
	ErrInventoryFull          = errors.New("inventory full")
	ErrNoDeathPending         = errors.New("no pending death")
	ErrInvalidSpeed           = errors.New("invalid clock speed")
)

// InsufficientResourcesError carries the exact missing quantity per item.
type InsufficientResourcesError struct {
	Missing map[string]int
}

func (e *InsufficientResourcesError) Error() string {
	keys := make([]string, 0, len(e.Missing))
	for k := range e.Missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, e.Missing[k]))
	}
	return ErrInsufficientResources.Error() + ": " + strings.Join(parts, ",")
}

func (e *InsufficientResourcesError) Unwrap() error {
	return ErrInsufficientResources
}
