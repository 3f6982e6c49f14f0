package config

import (
	"time"

	"github.com/spf13/viper"
)

// Event journal: persists gallery events and publishes them to Redis
type Journal struct {
	// Save events to the database
	StoreEnabled bool

	// Publish events to Redis
	PublishEnabled bool

	// Redis channel events are published to
	ChannelName string

	// Max number of events saved in one batch
	StoreBatchSize int

	// Max time between batch saves
	StoreFlushInterval time.Duration

	// Max time a failed batch is retried, 0 is no limit
	StoreMaxBackoffInterval time.Duration
	StoreMaxElapsedTime     time.Duration

	// Cron spec of the book snapshot job, empty disables it
	SnapshotSchedule string
}

func setJournalDefaults() {
	viper.SetDefault("Journal.StoreEnabled", "false")
	viper.SetDefault("Journal.PublishEnabled", "false")
	viper.SetDefault("Journal.ChannelName", "gallery.events")
	viper.SetDefault("Journal.StoreBatchSize", "100")
	viper.SetDefault("Journal.StoreFlushInterval", "1s")
	viper.SetDefault("Journal.StoreMaxBackoffInterval", "3s")
	viper.SetDefault("Journal.StoreMaxElapsedTime", "1m")
	viper.SetDefault("Journal.SnapshotSchedule", "@every 5m")
}
