package gormrepo

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"shelterverse/internal/adapter/repo/gorm/model"
	"shelterverse/internal/domain/colony"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db, now: time.Now}
}

func (r EventRepo) Append(ctx context.Context, colonyID string, events []colony.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	now := r.now().UTC()
	rows := make([]model.ColonyEvent, 0, len(events))
	for _, e := range events {
		b, _ := json.Marshal(e.Payload)
		rows = append(rows, model.ColonyEvent{
			ID:         uuid.NewString(),
			ColonyID:   colonyID,
			Type:       e.Type,
			Severity:   string(e.Severity),
			Title:      e.Title,
			Message:    e.Message,
			Tick:       e.Tick,
			Payload:    b,
			OccurredAt: now,
		})
	}
	return getDBFromCtx(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListByColonyID(ctx context.Context, colonyID string, limit int) ([]colony.DomainEvent, error) {
	rows := []model.ColonyEvent{}
	query := getDBFromCtx(ctx, r.db).
		Where(&model.ColonyEvent{ColonyID: colonyID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "seq"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	slices.Reverse(rows)

	out := make([]colony.DomainEvent, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			_ = json.Unmarshal(row.Payload, &payload)
		}
		out = append(out, colony.DomainEvent{
			Type:     row.Type,
			Title:    row.Title,
			Message:  row.Message,
			Severity: colony.Severity(row.Severity),
			Tick:     row.Tick,
			Payload:  payload,
		})
	}
	return out, nil
}
