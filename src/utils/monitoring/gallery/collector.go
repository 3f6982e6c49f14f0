package monitor_gallery

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

type metric struct {
	desc      *prometheus.Desc
	valueType prometheus.ValueType
	load      func() float64
}

type Collector struct {
	monitor *Monitor
	metrics []metric
}

func NewCollector() *Collector {
	return new(Collector)
}

func (self *Collector) WithMonitor(m *Monitor) *Collector {
	self.monitor = m

	labels := prometheus.Labels{
		"app": "gallery",
	}

	counter := func(name string, v *atomic.Uint64) {
		self.metrics = append(self.metrics, metric{
			desc:      prometheus.NewDesc(name, "", nil, labels),
			valueType: prometheus.CounterValue,
			load:      func() float64 { return float64(v.Load()) },
		})
	}
	gauge := func(name string, load func() float64) {
		self.metrics = append(self.metrics, metric{
			desc:      prometheus.NewDesc(name, "", nil, labels),
			valueType: prometheus.GaugeValue,
			load:      load,
		})
	}

	r := &m.Report
	gauge("start_timestamp", func() float64 { return float64(r.Run.State.StartTimestamp.Load()) })
	gauge("last_event_timestamp", func() float64 { return float64(r.Gallery.State.LastEventTimestamp.Load()) })
	gauge("average_events_per_minute", r.Gallery.State.AverageEventsPerMinute.Load)
	gauge("average_units_traded_per_minute", r.Gallery.State.AverageUnitsTradedPerMinute.Load)
	gauge("redis_queue_size", func() float64 { return float64(r.RedisPublisher.State.QueueSize.Load()) })

	counter("collections_created", &r.Gallery.State.CollectionsCreated)
	counter("collections_approved", &r.Gallery.State.CollectionsApproved)
	counter("collections_burned", &r.Gallery.State.CollectionsBurned)
	counter("tier_exchanges", &r.Gallery.State.TierExchanges)
	counter("offers_submitted", &r.Gallery.State.OffersSubmitted)
	counter("offers_cancelled", &r.Gallery.State.OffersCancelled)
	counter("offers_evicted", &r.Gallery.State.OffersEvicted)
	counter("fills", &r.Gallery.State.Fills)
	counter("units_traded", &r.Gallery.State.UnitsTraded)
	counter("surplus_kept", &r.Gallery.State.SurplusKept)
	counter("campaigns_opened", &r.Gallery.State.CampaignsOpened)
	counter("campaigns_cancelled", &r.Gallery.State.CampaignsCancelled)
	counter("supports", &r.Gallery.State.Supports)
	counter("claims", &r.Gallery.State.Claims)
	counter("events_emitted", &r.Gallery.State.EventsEmitted)

	counter("journal_events_saved", &r.Journal.State.EventsSaved)
	counter("journal_snapshots_saved", &r.Journal.State.SnapshotsSaved)
	counter("redis_messages_published", &r.RedisPublisher.State.MessagesPublished)
	counter("redis_bytes_published", &r.RedisPublisher.State.BytesPublished)
	counter("gateway_requests", &r.Gateway.State.Requests)
	counter("gateway_cache_hits", &r.Gateway.State.CacheHits)
	counter("gateway_cache_misses", &r.Gateway.State.CacheMisses)

	// Errors
	counter("error_panics", &r.Run.Errors.NumPanics)
	counter("error_db_event_insert", &r.Journal.Errors.DbEventInsert)
	counter("error_db_snapshot_insert", &r.Journal.Errors.DbSnapshotInsert)
	counter("error_events_dropped", &r.Journal.Errors.EventsDropped)
	counter("error_events_lost", &r.Journal.Errors.EventsLost)
	counter("error_redis_publish", &r.RedisPublisher.Errors.Publish)
	counter("error_redis_persistent", &r.RedisPublisher.Errors.PersistentFailure)
	counter("error_redis_marshal", &r.RedisPublisher.Errors.Marshal)
	counter("error_gateway_rate_limited", &r.Gateway.Errors.RateLimited)
	counter("error_gateway_bad_request", &r.Gateway.Errors.BadRequests)
	counter("error_gateway_rejected", &r.Gateway.Errors.Rejected)
	counter("error_gateway_server", &r.Gateway.Errors.ServerErrors)

	return self
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range self.metrics {
		ch <- m.desc
	}
}

// Collect implements required collect function for all promehteus collectors
func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range self.metrics {
		ch <- prometheus.MustNewConstMetric(m.desc, m.valueType, m.load())
	}
}
