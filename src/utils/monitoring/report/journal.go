package report

import (
	"go.uber.org/atomic"
)

type JournalErrors struct {
	DbEventInsert    atomic.Uint64 `json:"db_event_insert"`
	DbSnapshotInsert atomic.Uint64 `json:"db_snapshot_insert"`
	EventsDropped    atomic.Uint64 `json:"events_dropped"`
	EventsLost       atomic.Uint64 `json:"events_lost"`
}

type JournalState struct {
	EventsSaved           atomic.Uint64 `json:"events_saved"`
	SnapshotsSaved        atomic.Uint64 `json:"snapshots_saved"`
	LastSnapshotTimestamp atomic.Int64  `json:"last_snapshot_timestamp"`
}

type JournalReport struct {
	State  JournalState  `json:"state"`
	Errors JournalErrors `json:"errors"`
}
