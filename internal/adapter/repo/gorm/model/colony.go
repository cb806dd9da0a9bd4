// Package model holds the gorm row types. They are maintained by hand;
// tools/modelgen writes schema-derived models elsewhere for comparison.
package model

import "time"

const TableNameColonyState = "colony_states"

type ColonyState struct {
	ColonyID  string    `gorm:"column:colony_id;primaryKey" json:"colony_id"`
	Seed      int64     `gorm:"column:seed;not null" json:"seed"`
	Tick      int64     `gorm:"column:tick;not null" json:"tick"`
	Snapshot  []byte    `gorm:"column:snapshot;type:jsonb;not null" json:"snapshot"`
	Version   int64     `gorm:"column:version;not null" json:"version"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (*ColonyState) TableName() string {
	return TableNameColonyState
}

const TableNameColonyEvent = "colony_events"

type ColonyEvent struct {
	Seq        int64     `gorm:"column:seq;primaryKey;autoIncrement:true" json:"seq"`
	ID         string    `gorm:"column:id;type:uuid;not null" json:"id"`
	ColonyID   string    `gorm:"column:colony_id;not null" json:"colony_id"`
	Type       string    `gorm:"column:type;not null" json:"type"`
	Severity   string    `gorm:"column:severity;not null" json:"severity"`
	Title      string    `gorm:"column:title;not null" json:"title"`
	Message    string    `gorm:"column:message;not null" json:"message"`
	Tick       int64     `gorm:"column:tick;not null" json:"tick"`
	Payload    []byte    `gorm:"column:payload;type:jsonb" json:"payload"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null" json:"occurred_at"`
}

func (*ColonyEvent) TableName() string {
	return TableNameColonyEvent
}

const TableNameCommandExecution = "command_executions"

type CommandExecution struct {
	ColonyID       string    `gorm:"column:colony_id;primaryKey" json:"colony_id"`
	IdempotencyKey string    `gorm:"column:idempotency_key;primaryKey" json:"idempotency_key"`
	CommandType    string    `gorm:"column:command_type;not null" json:"command_type"`
	ResultCode     string    `gorm:"column:result_code;not null" json:"result_code"`
	Tick           int64     `gorm:"column:tick;not null" json:"tick"`
	Events         []byte    `gorm:"column:events;type:jsonb;not null" json:"events"`
	AppliedAt      time.Time `gorm:"column:applied_at;not null" json:"applied_at"`
}

func (*CommandExecution) TableName() string {
	return TableNameCommandExecution
}
