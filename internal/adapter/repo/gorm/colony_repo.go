package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shelterverse/internal/adapter/repo/gorm/model"
	"shelterverse/internal/app/ports"
	"shelterverse/internal/domain/colony"

	"gorm.io/gorm"
)

type ColonyRepo struct {
	db *gorm.DB
}

func NewColonyRepo(db *gorm.DB) ColonyRepo {
	return ColonyRepo{db: db}
}

func (r ColonyRepo) Get(ctx context.Context, colonyID string) (ports.ColonyRecord, error) {
	var m model.ColonyState
	if err := getDBFromCtx(ctx, r.db).Where("colony_id = ?", colonyID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.ColonyRecord{}, ports.ErrNotFound
		}
		return ports.ColonyRecord{}, err
	}
	var snap colony.Snapshot
	if err := json.Unmarshal(m.Snapshot, &snap); err != nil {
		return ports.ColonyRecord{}, fmt.Errorf("decode colony %s snapshot: %w", colonyID, err)
	}
	return ports.ColonyRecord{
		ColonyID:  m.ColonyID,
		Snapshot:  snap,
		Version:   m.Version,
		UpdatedAt: m.UpdatedAt,
	}, nil
}

func (r ColonyRepo) SaveWithVersion(ctx context.Context, rec ports.ColonyRecord, expectedVersion int64) error {
	body, err := json.Marshal(rec.Snapshot)
	if err != nil {
		return fmt.Errorf("encode colony %s snapshot: %w", rec.ColonyID, err)
	}
	db := getDBFromCtx(ctx, r.db)
	if expectedVersion == 0 {
		// Seeds above MaxInt64 wrap negative in the seed column. The snapshot
		// JSON is authoritative.
		m := model.ColonyState{
			ColonyID:  rec.ColonyID,
			Seed:      int64(rec.Snapshot.Seed),
			Tick:      rec.Snapshot.Clock.Tick,
			Snapshot:  body,
			Version:   rec.Version,
			UpdatedAt: rec.UpdatedAt,
		}
		if err := db.Create(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ports.ErrConflict
			}
			return err
		}
		return nil
	}

	res := db.Model(&model.ColonyState{}).
		Where("colony_id = ? AND version = ?", rec.ColonyID, expectedVersion).
		Updates(map[string]any{
			"tick":       rec.Snapshot.Clock.Tick,
			"snapshot":   body,
			"version":    rec.Version,
			"updated_at": rec.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}
