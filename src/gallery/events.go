package gallery

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/xid"
)

type EventKind string

const (
	EventSimpleCollectableCreated  EventKind = "simple_collectable_created"
	EventTierCollectableCreated    EventKind = "tier_collectable_created"
	EventTierExchange              EventKind = "tier_exchange"
	EventCollectionBurned          EventKind = "collection_burned"
	EventOfferSubmitted            EventKind = "offer_submitted"
	EventOfferCancelled            EventKind = "offer_cancelled"
	EventCommercialized            EventKind = "commercialized"
	EventCommercializationCanceled EventKind = "commercialization_cancelled"
	EventSupported                 EventKind = "supported"
	EventSupportWithdrawn          EventKind = "support_withdrawn"
	EventCollectionApproved        EventKind = "collection_approved"
	EventSFTClaimed                EventKind = "sft_claimed"
	EventBIAClaimed                EventKind = "bia_claimed"
	EventBookCompacted             EventKind = "book_compacted"
	EventSurplusSwept              EventKind = "surplus_swept"
	EventAddressFunded             EventKind = "address_funded"
	EventMetadataUpdated           EventKind = "metadata_updated"
	EventApprovalForAll            EventKind = "approval_for_all"
)

// Record of one successful gallery mutation
type Event struct {
	Id           string         `json:"id"`
	Kind         EventKind      `json:"kind"`
	CollectionId uint64         `json:"collection_id"`
	Actor        common.Address `json:"actor"`
	TokenIds     []uint64       `json:"token_ids,omitempty"`
	Payload      interface{}    `json:"payload,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func newEvent(kind EventKind, collectionId uint64, actor common.Address) *Event {
	return &Event{
		Id:           xid.New().String(),
		Kind:         kind,
		CollectionId: collectionId,
		Actor:        actor,
		CreatedAt:    time.Now().UTC(),
	}
}

func (self *Event) WithTokenIds(ids []uint64) *Event {
	self.TokenIds = ids
	return self
}

func (self *Event) WithPayload(payload interface{}) *Event {
	self.Payload = payload
	return self
}

// Used by redis client
func (self *Event) MarshalBinary() (data []byte, err error) {
	return json.Marshal(self)
}

// Receives every event after the mutation was applied.
// Called synchronously, implementations must not block.
type EventSink interface {
	OnEvent(event *Event)
}

type EventSinkFunc func(event *Event)

func (self EventSinkFunc) OnEvent(event *Event) {
	self(event)
}
