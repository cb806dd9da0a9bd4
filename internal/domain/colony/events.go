package colony

import "errors"

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

const (
	EventExcavationStarted     = "excavation_started"
	EventExcavationCompleted   = "excavation_completed"
	EventConstructionStarted   = "construction_started"
	EventConstructionCompleted = "construction_completed"
	EventEquipmentInstalled    = "equipment_installed"
	EventRoomsMerged           = "rooms_merged"
	EventResearchStarted       = "research_started"
	EventRoomTransformed       = "room_transformed"
	EventIncubationStarted     = "incubation_started"
	EventHabitantBorn          = "habitant_born"
	EventHabitantDied          = "habitant_died"
	EventBrownout              = "brownout"
	EventPowerRestored         = "power_restored"
	EventFoodExhausted         = "food_exhausted"
	EventCommandRejected       = "command_rejected"
	EventWeekCompleted         = "week_completed"
)

// DomainEvent is a discrete notification produced by the engine. Delivery is
// the caller's business.
type DomainEvent struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
	Tick     int64          `json:"tick"`
	Payload  map[string]any `json:"payload,omitempty"`
}

func (w *World) event(typ string, sev Severity, title, message string, payload map[string]any) DomainEvent {
	return DomainEvent{
		Type:     typ,
		Title:    title,
		Message:  message,
		Severity: sev,
		Tick:     w.Clock.Tick,
		Payload:  payload,
	}
}

// RejectionEvent turns a failed command into a notification.
func (w *World) RejectionEvent(command string, err error) DomainEvent {
	payload := map[string]any{"command": command, "reason": err.Error()}
	var shortfall *InsufficientResourcesError
	if errors.As(err, &shortfall) {
		missing := make(map[string]any, len(shortfall.Missing))
		for k, v := range shortfall.Missing {
			missing[k] = v
		}
		payload["missing"] = missing
	}
	title := "Action impossible"
	switch {
	case errors.Is(err, ErrChildLabor):
		title = "Child labor forbidden"
	case errors.Is(err, ErrInsufficientResources):
		title = "Insufficient resources"
	}
	return w.event(EventCommandRejected, SeverityError, title, err.Error(), payload)
}
