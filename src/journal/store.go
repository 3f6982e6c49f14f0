package journal

import (
	"encoding/json"

	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/model"
	"github.com/assetkid/gallery/src/utils/monitoring"
	"github.com/assetkid/gallery/src/utils/task"

	"github.com/jackc/pgtype"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Saves gallery events to the database in batches
type Store struct {
	*task.Processor[*gallery.Event, *model.Event]

	db      *gorm.DB
	monitor monitoring.Monitor
}

func NewStore(config *config.Config) (self *Store) {
	self = new(Store)

	self.Processor = task.NewProcessor[*gallery.Event, *model.Event](config, "journal-store").
		WithBatchSize(config.Journal.StoreBatchSize).
		WithOnFlush(config.Journal.StoreFlushInterval, self.flush).
		WithOnProcess(self.process).
		WithOnDropped(self.onDropped).
		WithBackoff(config.Journal.StoreMaxElapsedTime, config.Journal.StoreMaxBackoffInterval)

	return
}

func (self *Store) WithInputChannel(v <-chan *gallery.Event) *Store {
	self.Processor = self.Processor.WithInputChannel(v)
	return self
}

func (self *Store) WithDB(db *gorm.DB) *Store {
	self.db = db
	return self
}

func (self *Store) WithMonitor(monitor monitoring.Monitor) *Store {
	self.monitor = monitor
	return self
}

func toModel(event *gallery.Event) (out *model.Event, err error) {
	out = &model.Event{
		EventId:      event.Id,
		Kind:         string(event.Kind),
		CollectionId: int64(event.CollectionId),
		Actor:        event.Actor.Hex(),
		TokenIds:     make([]int64, 0, len(event.TokenIds)),
		Payload:      pgtype.JSONB{Status: pgtype.Null},
		CreatedAt:    event.CreatedAt,
	}

	for _, id := range event.TokenIds {
		out.TokenIds = append(out.TokenIds, int64(id))
	}

	if event.Payload != nil {
		var payload []byte
		payload, err = json.Marshal(event.Payload)
		if err != nil {
			return
		}
		out.Payload = pgtype.JSONB{Bytes: payload, Status: pgtype.Present}
	}
	return
}

func (self *Store) process(event *gallery.Event) (out []*model.Event, err error) {
	e, err := toModel(event)
	if err != nil {
		self.monitor.GetReport().Journal.Errors.DbEventInsert.Inc()
		return
	}
	return []*model.Event{e}, nil
}

func (self *Store) flush(events []*model.Event) (err error) {
	// Runs after Stop too, when the remaining events are drained
	err = self.db.WithContext(self.CtxRunning).
		Table(model.TableEvent).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		CreateInBatches(events, len(events)).
		Error
	if err != nil {
		self.Log.WithError(err).WithField("len", len(events)).Warn("Failed to save events")
		self.monitor.GetReport().Journal.Errors.DbEventInsert.Inc()
		return
	}

	self.monitor.GetReport().Journal.State.EventsSaved.Add(uint64(len(events)))
	self.Log.WithField("len", len(events)).Debug("Events saved")
	return nil
}

func (self *Store) onDropped(events []*model.Event) {
	self.monitor.GetReport().Journal.Errors.EventsLost.Add(uint64(len(events)))
}
