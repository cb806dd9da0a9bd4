// Package command applies player orders to a colony.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"shelterverse/internal/app/ports"
	"shelterverse/internal/app/shared/worldstate"
	"shelterverse/internal/domain/colony"
)

var (
	ErrInvalidRequest       = errors.New("invalid command request")
	ErrUnsupportedCommand   = errors.New("unsupported command")
	ErrInvalidCommandParams = errors.New("invalid command params")
)

// RejectedError is a command the engine refused. The colony is unchanged and
// Event describes the refusal.
type RejectedError struct {
	Command string
	Code    string
	Event   colony.DomainEvent
	Err     error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: %v", e.Command, e.Err)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

type UseCase struct {
	TxManager  ports.TxManager
	Colonies   ports.ColonyRepository
	Executions ports.CommandExecutionRepository
	Events     ports.EventRepository
	Metrics    ports.SimMetrics
	Rules      worldstate.Rules
	Logger     *slog.Logger
	Now        func() time.Time
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.ColonyID = strings.TrimSpace(req.ColonyID)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	req.Command.Type = strings.TrimSpace(req.Command.Type)
	if req.ColonyID == "" {
		return Response{}, ErrInvalidRequest
	}
	if !isSupported(req.Command.Type) {
		return Response{}, ErrUnsupportedCommand
	}
	if !hasValidParams(req.Command) {
		return Response{}, ErrInvalidCommandParams
	}
	nowFn := u.Now
	if nowFn == nil {
		nowFn = time.Now
	}

	var (
		out      Response
		rejected *RejectedError
	)
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if req.IdempotencyKey != "" && u.Executions != nil {
			exec, err := u.Executions.GetByIdempotencyKey(txCtx, req.ColonyID, req.IdempotencyKey)
			if err == nil && exec != nil {
				out = Response{
					ResultCode: exec.Result.ResultCode,
					Tick:       exec.Result.Tick,
					Events:     exec.Result.Events,
					Replayed:   true,
				}
				return nil
			}
			if err != nil && !errors.Is(err, ports.ErrNotFound) {
				return err
			}
		}

		w, version, err := worldstate.Load(txCtx, u.Colonies, u.Rules, req.ColonyID, false)
		if err != nil {
			return err
		}

		events, cmdErr := apply(w, req.Command)
		if cmdErr != nil {
			evt := w.RejectionEvent(req.Command.Type, cmdErr)
			rejected = &RejectedError{Command: req.Command.Type, Code: ErrorCode(cmdErr), Event: evt, Err: cmdErr}
			out = Response{ResultCode: ResultRejected, Tick: w.Clock.Tick, Version: version, Events: []colony.DomainEvent{evt}}
			return u.Events.Append(txCtx, req.ColonyID, out.Events)
		}

		rec, err := worldstate.Save(txCtx, u.Colonies, req.ColonyID, w, version, nowFn().UTC())
		if err != nil {
			return err
		}
		if len(events) > 0 {
			if err := u.Events.Append(txCtx, req.ColonyID, events); err != nil {
				return err
			}
		}
		out = Response{ResultCode: ResultOK, Tick: w.Clock.Tick, Version: rec.Version, Events: events}

		if req.IdempotencyKey != "" && u.Executions != nil {
			return u.Executions.SaveExecution(txCtx, ports.CommandExecutionRecord{
				ColonyID:       req.ColonyID,
				IdempotencyKey: req.IdempotencyKey,
				CommandType:    req.Command.Type,
				Result:         ports.CommandResult{Events: events, ResultCode: ResultOK, Tick: w.Clock.Tick},
				AppliedAt:      nowFn().UTC(),
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrConflict) && u.Metrics != nil {
			u.Metrics.RecordConflict()
		}
		return Response{}, err
	}

	if rejected != nil {
		if u.Metrics != nil {
			u.Metrics.RecordRejection(rejected.Code)
		}
		u.logger().Info("command rejected",
			"colony_id", req.ColonyID,
			"command", req.Command.Type,
			"code", rejected.Code,
			"reason", rejected.Err.Error(),
		)
		return out, rejected
	}
	if u.Metrics != nil && !out.Replayed {
		u.Metrics.RecordCommand(req.Command.Type)
	}
	return out, nil
}

func apply(w *colony.World, cmd Command) ([]colony.DomainEvent, error) {
	switch cmd.Type {
	case TypeExcavate:
		return w.StartExcavation(cmd.Level, cmd.Position, cmd.RoomIndex)
	case TypeBuild:
		return w.Build(cmd.location(), cmd.RoomType)
	case TypeAssign:
		return w.AssignToRoom(cmd.HabitantID, cmd.location())
	case TypeUnassign:
		return w.Unassign(cmd.HabitantID)
	case TypeInstallEquipment:
		return w.InstallEquipment(cmd.location(), cmd.EquipmentType)
	case TypeStartResearch:
		return w.StartResearch(cmd.location(), cmd.Target)
	case TypeStartIncubation:
		return w.StartIncubation(cmd.location())
	case TypeQueueRefinery:
		return nil, w.QueueRefinery(cmd.location(), cmd.RecipeID)
	case TypeSetDisabled:
		return nil, w.SetRoomDisabled(cmd.location(), cmd.Disabled)
	case TypeSetPaused:
		w.SetPaused(cmd.Paused)
		return nil, nil
	case TypeSetSpeed:
		return nil, w.SetSpeed(cmd.Speed)
	case TypeAcknowledgeDeath:
		return nil, w.AcknowledgeDeath(cmd.HabitantID)
	default:
		return nil, ErrUnsupportedCommand
	}
}

func isSupported(t string) bool {
	switch t {
	case TypeExcavate, TypeBuild, TypeAssign, TypeUnassign, TypeInstallEquipment,
		TypeStartResearch, TypeStartIncubation, TypeQueueRefinery, TypeSetDisabled,
		TypeSetPaused, TypeSetSpeed, TypeAcknowledgeDeath:
		return true
	default:
		return false
	}
}

func hasValidParams(cmd Command) bool {
	validSide := cmd.Side == colony.SideLeft || cmd.Side == colony.SideRight
	switch cmd.Type {
	case TypeExcavate:
		switch cmd.Position {
		case colony.PositionStairs:
			return true
		case colony.PositionLeft, colony.PositionRight:
			return cmd.RoomIndex != nil
		default:
			return false
		}
	case TypeBuild:
		return validSide && cmd.RoomType != ""
	case TypeAssign:
		return validSide && strings.TrimSpace(cmd.HabitantID) != ""
	case TypeUnassign, TypeAcknowledgeDeath:
		return strings.TrimSpace(cmd.HabitantID) != ""
	case TypeInstallEquipment:
		return validSide && cmd.EquipmentType != ""
	case TypeStartResearch:
		return validSide && cmd.Target != ""
	case TypeQueueRefinery:
		return validSide && strings.TrimSpace(cmd.RecipeID) != ""
	case TypeStartIncubation, TypeSetDisabled:
		return validSide
	case TypeSetSpeed:
		return cmd.Speed > 0 && !math.IsInf(cmd.Speed, 1)
	default:
		return true
	}
}

func (u UseCase) logger() *slog.Logger {
	if u.Logger != nil {
		return u.Logger
	}
	return slog.Default()
}
