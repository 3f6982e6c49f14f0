package journal

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/model"
	"github.com/assetkid/gallery/src/utils/monitoring"
	"github.com/assetkid/gallery/src/utils/task"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgtype"
	"github.com/robfig/cron"
	"gorm.io/gorm"
)

// Read access to the books of all collections
type BookSource interface {
	Collections() []gallery.CollectionInfo
	ContractStatus(collectionId uint64) (escrow.ContractStatus, error)
	Book(collectionId uint64, isBid bool) ([]escrow.Order, error)
}

// Periodically saves the state of every escrow
type Snapshotter struct {
	*task.Task

	db      *gorm.DB
	source  BookSource
	monitor monitoring.Monitor
	cron    *cron.Cron
}

func NewSnapshotter(config *config.Config) (self *Snapshotter) {
	self = new(Snapshotter)

	self.cron = cron.New()

	self.Task = task.NewTask(config, "journal-snapshot").
		WithOnBeforeStart(self.schedule).
		WithOnStop(self.cron.Stop)

	return
}

func (self *Snapshotter) WithDB(db *gorm.DB) *Snapshotter {
	self.db = db
	return self
}

func (self *Snapshotter) WithSource(source BookSource) *Snapshotter {
	self.source = source
	return self
}

func (self *Snapshotter) WithMonitor(monitor monitoring.Monitor) *Snapshotter {
	self.monitor = monitor
	return self
}

func (self *Snapshotter) schedule() (err error) {
	err = self.cron.AddFunc(self.Config.Journal.SnapshotSchedule, func() {
		err := self.Snapshot()
		if err != nil {
			self.Log.WithError(err).Error("Failed to save book snapshots")
		}
	})
	if err != nil {
		return
	}

	self.cron.Start()
	return
}

func jsonb(v interface{}) (out pgtype.JSONB, err error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return
	}
	return pgtype.JSONB{Bytes: buf, Status: pgtype.Present}, nil
}

func (self *Snapshotter) snapshot(collectionId uint64, now time.Time) (out *model.BookSnapshot, err error) {
	status, err := self.source.ContractStatus(collectionId)
	if err != nil {
		return
	}
	bids, err := self.source.Book(collectionId, true)
	if err != nil {
		return
	}
	asks, err := self.source.Book(collectionId, false)
	if err != nil {
		return
	}

	out = &model.BookSnapshot{
		CollectionId: int64(collectionId),
		TakenAt:      now,
	}
	out.Status, err = jsonb(status)
	if err != nil {
		return
	}
	out.Bids, err = jsonb(bids)
	if err != nil {
		return
	}
	out.Asks, err = jsonb(asks)
	return
}

// Saves one snapshot per tradable collection
func (self *Snapshotter) Snapshot() (err error) {
	now := time.Now().UTC()

	var snapshots []*model.BookSnapshot
	for _, c := range self.source.Collections() {
		if c.Escrow == (common.Address{}) {
			// Genesis assets
			continue
		}

		s, err := self.snapshot(c.CollectionId, now)
		if errors.Is(err, gallery.ErrUnknownCollection) {
			// Burned in the meantime
			continue
		}
		if err != nil {
			return err
		}
		snapshots = append(snapshots, s)
	}

	if len(snapshots) == 0 {
		return
	}

	err = self.db.WithContext(self.Ctx).
		Table(model.TableBookSnapshot).
		Create(snapshots).
		Error
	if err != nil {
		self.monitor.GetReport().Journal.Errors.DbSnapshotInsert.Inc()
		return
	}

	self.monitor.GetReport().Journal.State.SnapshotsSaved.Add(uint64(len(snapshots)))
	self.monitor.GetReport().Journal.State.LastSnapshotTimestamp.Store(now.Unix())
	self.Log.WithField("len", len(snapshots)).Debug("Book snapshots saved")
	return
}
