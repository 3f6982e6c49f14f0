package model

import (
	"time"

	"github.com/jackc/pgtype"
)

const (
	TableBookSnapshot = "book_snapshots"
)

// Periodic copy of one collection's escrow state
type BookSnapshot struct {
	ID           int64 `gorm:"primaryKey;autoIncrement"`
	CollectionId int64
	Status       pgtype.JSONB
	Bids         pgtype.JSONB
	Asks         pgtype.JSONB
	TakenAt      time.Time
}

func (BookSnapshot) TableName() string {
	return TableBookSnapshot
}
