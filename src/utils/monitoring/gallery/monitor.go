package monitor_gallery

import (
	"math"
	"net/http"
	"time"

	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/utils/monitoring/report"
	"github.com/assetkid/gallery/src/utils/task"

	"github.com/gammazero/deque"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Stores and computes monitor counters. Receives every gallery event.
type Monitor struct {
	*task.Task

	Report report.Report

	historySize int

	collector *Collector

	// Event rate
	EventCounts *deque.Deque[uint64]
	UnitCounts  *deque.Deque[uint64]
}

func NewMonitor() (self *Monitor) {
	self = new(Monitor)

	self.Report = report.Report{
		Run:            &report.RunReport{},
		Gallery:        &report.GalleryReport{},
		Journal:        &report.JournalReport{},
		RedisPublisher: &report.RedisPublisherReport{},
		Gateway:        &report.GatewayReport{},
	}

	// Initialization
	self.Report.Run.State.StartTimestamp.Store(time.Now().Unix())

	self.collector = NewCollector().WithMonitor(self)

	self.Task = task.NewTask(nil, "monitor").
		WithPeriodicSubtaskFunc(time.Minute, self.monitorEvents)

	return self.WithMaxHistorySize(10)
}

func (self *Monitor) WithMaxHistorySize(maxHistorySize int) *Monitor {
	self.historySize = maxHistorySize

	self.EventCounts = deque.New[uint64](self.historySize)
	self.UnitCounts = deque.New[uint64](self.historySize)

	return self
}

func (self *Monitor) GetReport() *report.Report {
	return &self.Report
}

func (self *Monitor) GetPrometheusCollector() (collector prometheus.Collector) {
	return self.collector
}

func round(f float64) float64 {
	return math.Round(f*100) / 100
}

func (self *Monitor) OnEvent(event *gallery.Event) {
	state := &self.Report.Gallery.State
	state.EventsEmitted.Inc()
	state.LastEventTimestamp.Store(event.CreatedAt.Unix())

	switch event.Kind {
	case gallery.EventSimpleCollectableCreated, gallery.EventTierCollectableCreated:
		state.CollectionsCreated.Inc()
	case gallery.EventCollectionApproved:
		state.CollectionsApproved.Inc()
	case gallery.EventCollectionBurned:
		state.CollectionsBurned.Inc()
	case gallery.EventTierExchange:
		state.TierExchanges.Inc()
	case gallery.EventOfferCancelled:
		state.OffersCancelled.Inc()
	case gallery.EventCommercialized:
		state.CampaignsOpened.Inc()
	case gallery.EventCommercializationCanceled:
		state.CampaignsCancelled.Inc()
	case gallery.EventSupported:
		state.Supports.Inc()
	case gallery.EventSFTClaimed, gallery.EventBIAClaimed:
		state.Claims.Inc()
	case gallery.EventOfferSubmitted:
		state.OffersSubmitted.Inc()
		offer, ok := event.Payload.(*gallery.Offer)
		if !ok || offer.SubmitResult == nil {
			return
		}
		if offer.Evicted != nil {
			state.OffersEvicted.Inc()
		}
		for _, fill := range offer.Fills {
			state.Fills.Inc()
			state.UnitsTraded.Add(fill.Amount)
			state.SurplusKept.Add(fill.Surplus)
		}
	}
}

func push(d *deque.Deque[uint64], v uint64, size int) float64 {
	d.PushBack(v)
	if d.Len() > size {
		d.PopFront()
	}
	return round(float64(d.Back()-d.Front()) / float64(d.Len()))
}

// Measure event rate
func (self *Monitor) monitorEvents() (err error) {
	state := &self.Report.Gallery.State
	state.AverageEventsPerMinute.Store(push(self.EventCounts, state.EventsEmitted.Load(), self.historySize))
	state.AverageUnitsTradedPerMinute.Store(push(self.UnitCounts, state.UnitsTraded.Load(), self.historySize))
	return
}

func (self *Monitor) IsOK() bool {
	// Journal that keeps dropping events is unhealthy
	return self.Report.Journal.Errors.EventsDropped.Load() == 0 &&
		self.Report.Journal.Errors.EventsLost.Load() == 0 &&
		self.Report.RedisPublisher.Errors.PersistentFailure.Load() == 0
}

func (self *Monitor) OnGetState(c *gin.Context) {
	self.Report.Run.State.UpForSeconds.Store(uint64(time.Now().Unix() - self.Report.Run.State.StartTimestamp.Load()))
	c.JSON(http.StatusOK, &self.Report)
}

func (self *Monitor) OnGetHealth(c *gin.Context) {
	if self.IsOK() {
		c.Status(http.StatusOK)
	} else {
		c.Status(http.StatusServiceUnavailable)
	}
}
