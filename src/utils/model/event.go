package model

import (
	"time"

	"github.com/jackc/pgtype"
	"github.com/lib/pq"
)

const (
	TableEvent = "events"
)

// Journal entry of a gallery operation
type Event struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// Globally unique, sortable by creation time
	EventId string

	Kind         string
	CollectionId int64
	Actor        string
	TokenIds     pq.Int64Array `gorm:"type:bigint[]"`

	// Kind specific fields
	Payload pgtype.JSONB

	CreatedAt time.Time
}

func (Event) TableName() string {
	return TableEvent
}
