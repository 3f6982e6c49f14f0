package node

import (
	"fmt"

	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/gateway"
	"github.com/assetkid/gallery/src/journal"
	"github.com/assetkid/gallery/src/ledger"
	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/model"
	monitor_gallery "github.com/assetkid/gallery/src/utils/monitoring/gallery"
	"github.com/assetkid/gallery/src/utils/task"

	"gorm.io/gorm"
)

type Controller struct {
	*task.Task

	Gallery *gallery.Gallery
}

// Main class that puts the gallery together.
// Sets up the ledger, mints the genesis supply and serves the gateway.
//
//	gateway -> gallery -> ledger
//	           gallery events -> monitor, journal, gateway cache
func NewController(cfg *config.Config) (self *Controller, err error) {
	self = new(Controller)

	self.Task = task.NewTask(cfg, "controller")

	monitor := monitor_gallery.NewMonitor().
		WithMaxHistorySize(30)

	var db *gorm.DB
	if cfg.Ledger.IsPostgres() || cfg.Journal.StoreEnabled {
		db, err = model.NewConnection(self.Ctx, cfg, "gallery")
		if err != nil {
			return
		}
	}

	var l ledger.Ledger
	switch cfg.Ledger.Backend {
	case "", config.LedgerBackendMemory:
		self.Log.Warn("Balances are kept in memory, they won't survive a restart")
		l = ledger.NewMemory()
	case config.LedgerBackendPostgres:
		l = ledger.NewPostgres(db)
	default:
		err = fmt.Errorf("unknown ledger backend: %s", cfg.Ledger.Backend)
		return
	}

	self.Gallery = gallery.New(cfg, l)

	eventJournal := journal.NewJournal(cfg, db, self.Gallery, monitor)

	server := gateway.NewServer(cfg).
		WithGallery(self.Gallery).
		WithMonitor(monitor)

	self.Gallery.
		WithEventSink(monitor).
		WithEventSink(eventJournal).
		WithEventSink(server)

	self.Task = self.Task.
		WithOnBeforeStart(self.genesis).
		WithSubtask(monitor.Task).
		WithSubtask(eventJournal.Task).
		WithSubtask(server.Task)

	return
}

func (self *Controller) genesis() error {
	return self.Gallery.Genesis(self.Ctx)
}
