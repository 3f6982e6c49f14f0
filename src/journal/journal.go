package journal

import (
	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/monitoring"
	"github.com/assetkid/gallery/src/utils/publisher"
	"github.com/assetkid/gallery/src/utils/task"

	"gorm.io/gorm"
)

// Persists gallery events, publishes them to Redis and snapshots the books.
//
//	gallery -> sink -> store
//	               \-> redis publisher
//	cron -> snapshotter
type Journal struct {
	*task.Task

	sink *Sink
}

func NewJournal(config *config.Config, db *gorm.DB, source BookSource, monitor monitoring.Monitor) (self *Journal) {
	self = new(Journal)

	self.sink = NewSink(config).
		WithMonitor(monitor)

	var store *Store
	if config.Journal.StoreEnabled {
		store = NewStore(config).
			WithDB(db).
			WithMonitor(monitor).
			WithInputChannel(self.sink.Output())
	}

	var redisPublisher *publisher.RedisPublisher[*gallery.Event]
	if config.Journal.PublishEnabled {
		redisPublisher = publisher.NewRedisPublisher[*gallery.Event](config, config.Redis, "journal-redis-publisher").
			WithChannelName(config.Journal.ChannelName).
			WithMonitor(monitor).
			WithInputChannel(self.sink.Output())
	}

	var snapshotter *Snapshotter
	if config.Journal.StoreEnabled && config.Journal.SnapshotSchedule != "" {
		snapshotter = NewSnapshotter(config).
			WithDB(db).
			WithSource(source).
			WithMonitor(monitor)
	}

	self.Task = task.NewTask(config, "journal").
		WithSubtask(self.sink.Task)

	if store != nil {
		self.Task = self.Task.WithSubtask(store.Task)
	}
	if redisPublisher != nil {
		self.Task = self.Task.WithSubtask(redisPublisher.Task)
	}
	if snapshotter != nil {
		self.Task = self.Task.WithSubtask(snapshotter.Task)
	}

	return
}

func (self *Journal) OnEvent(event *gallery.Event) {
	self.sink.OnEvent(event)
}
