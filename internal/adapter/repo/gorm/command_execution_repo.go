package gormrepo

import (
	"context"
	"encoding/json"
	"errors"

	"shelterverse/internal/adapter/repo/gorm/model"
	"shelterverse/internal/app/ports"
	"shelterverse/internal/domain/colony"

	"gorm.io/gorm"
)

type CommandExecutionRepo struct {
	db *gorm.DB
}

func NewCommandExecutionRepo(db *gorm.DB) CommandExecutionRepo {
	return CommandExecutionRepo{db: db}
}

func (r CommandExecutionRepo) GetByIdempotencyKey(ctx context.Context, colonyID, key string) (*ports.CommandExecutionRecord, error) {
	var m model.CommandExecution
	err := getDBFromCtx(ctx, r.db).
		Where(&model.CommandExecution{ColonyID: colonyID, IdempotencyKey: key}).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	var events []colony.DomainEvent
	_ = json.Unmarshal(m.Events, &events)
	return &ports.CommandExecutionRecord{
		ColonyID:       m.ColonyID,
		IdempotencyKey: m.IdempotencyKey,
		CommandType:    m.CommandType,
		Result: ports.CommandResult{
			Events:     events,
			ResultCode: m.ResultCode,
			Tick:       m.Tick,
		},
		AppliedAt: m.AppliedAt,
	}, nil
}

func (r CommandExecutionRepo) SaveExecution(ctx context.Context, execution ports.CommandExecutionRecord) error {
	eventsJSON, _ := json.Marshal(execution.Result.Events)
	m := model.CommandExecution{
		ColonyID:       execution.ColonyID,
		IdempotencyKey: execution.IdempotencyKey,
		CommandType:    execution.CommandType,
		ResultCode:     execution.Result.ResultCode,
		Tick:           execution.Result.Tick,
		Events:         eventsJSON,
		AppliedAt:      execution.AppliedAt,
	}
	if err := getDBFromCtx(ctx, r.db).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrConflict
		}
		return err
	}
	return nil
}
