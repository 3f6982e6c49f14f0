package report

import (
	"go.uber.org/atomic"
)

type GalleryState struct {
	CollectionsCreated  atomic.Uint64 `json:"collections_created"`
	CollectionsApproved atomic.Uint64 `json:"collections_approved"`
	CollectionsBurned   atomic.Uint64 `json:"collections_burned"`
	TierExchanges       atomic.Uint64 `json:"tier_exchanges"`

	OffersSubmitted atomic.Uint64 `json:"offers_submitted"`
	OffersCancelled atomic.Uint64 `json:"offers_cancelled"`
	OffersEvicted   atomic.Uint64 `json:"offers_evicted"`
	Fills           atomic.Uint64 `json:"fills"`
	UnitsTraded     atomic.Uint64 `json:"units_traded"`
	SurplusKept     atomic.Uint64 `json:"surplus_kept"`

	CampaignsOpened    atomic.Uint64 `json:"campaigns_opened"`
	CampaignsCancelled atomic.Uint64 `json:"campaigns_cancelled"`
	Supports           atomic.Uint64 `json:"supports"`
	Claims             atomic.Uint64 `json:"claims"`

	EventsEmitted               atomic.Uint64  `json:"events_emitted"`
	LastEventTimestamp          atomic.Int64   `json:"last_event_timestamp"`
	AverageEventsPerMinute      atomic.Float64 `json:"average_events_per_minute"`
	AverageUnitsTradedPerMinute atomic.Float64 `json:"average_units_traded_per_minute"`
}

type GalleryReport struct {
	State GalleryState `json:"state"`
}
