package escrow

import (
	"context"
	"math/bits"
	"sync"

	"github.com/assetkid/gallery/src/ledger"
	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Order book and support campaign of one collection.
//
// All mutations of one Escrow are serialized by its mutex. Collateral is held by the escrow's
// own address on the ledger. Every mutation runs inside ledger.Atomic and restores the
// book and campaign if the ledger work fails, so a failed call leaves no trace.
type Escrow struct {
	mtx sync.Mutex
	log *logrus.Entry

	config config.Escrow
	ledger ledger.Ledger

	// Collection and the token traded in the book
	collectionId uint64
	asset        uint64

	// Account holding collateral
	address common.Address

	// Gallery, approved by holders to move their assets
	operator common.Address

	creator common.Address

	state
}

// Everything that is rolled back together
type state struct {
	approved bool
	bids     *book
	asks     *book
	campaign *campaign

	// Bid/ask price difference kept from fills
	surplus uint64
}

func (self *state) clone() state {
	return state{
		approved: self.approved,
		bids:     self.bids.clone(),
		asks:     self.asks.clone(),
		campaign: self.campaign.clone(),
		surplus:  self.surplus,
	}
}

type Params struct {
	CollectionId uint64
	Asset        uint64
	Address      common.Address
	Operator     common.Address
	Creator      common.Address
}

func New(config config.Escrow, l ledger.Ledger, params Params) (self *Escrow) {
	self = new(Escrow)
	self.config = config
	self.ledger = l
	self.collectionId = params.CollectionId
	self.asset = params.Asset
	self.address = params.Address
	self.operator = params.Operator
	self.creator = params.Creator

	capacity := config.BookCapacity
	if capacity <= 0 {
		capacity = 50
	}
	self.bids = newBook(true, capacity)
	self.asks = newBook(false, capacity)
	self.campaign = newCampaign()

	self.log = logger.NewSublogger("escrow").WithField("collection_id", params.CollectionId)
	return
}

func (self *Escrow) Address() common.Address {
	return self.address
}

func (self *Escrow) CollectionId() uint64 {
	return self.collectionId
}

// Runs f with the lock held inside a ledger unit of work.
// On error escrow state is restored and the ledger changes are discarded.
func (self *Escrow) mutate(ctx context.Context, f func(tx ledger.Ledger) error) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	saved := self.state.clone()
	err = self.ledger.Atomic(ctx, f)
	if err != nil {
		self.state = saved
	}
	return
}

// Moves assets out of the escrow account
func (self *Escrow) pay(ctx context.Context, tx ledger.Ledger, to common.Address, asset uint64, amount uint64) error {
	if amount == 0 {
		return nil
	}
	return tx.Transfer(ctx, self.address, self.address, to, asset, amount)
}

// Moves assets into the escrow account, the gallery acts as operator
func (self *Escrow) take(ctx context.Context, tx ledger.Ledger, from common.Address, asset uint64, amount uint64) error {
	return tx.Transfer(ctx, self.operator, from, self.address, asset, amount)
}

func (self *Escrow) sides(isBid bool) (own, opposite *book) {
	if isBid {
		return self.bids, self.asks
	}
	return self.asks, self.bids
}

func mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ledger.ErrAmountOverflow
	}
	return lo, nil
}

func sortAddresses(v []common.Address) {
	slices.SortFunc(v, func(a, b common.Address) int {
		return a.Cmp(b)
	})
}

type ContractStatus struct {
	CollectionId uint64 `json:"collection_id"`
	Approved     bool   `json:"approved"`

	// Creator may still open a campaign
	Commercializable bool `json:"commercializable"`

	// Campaign is taking support
	CommercializationOpen bool `json:"commercialization_open"`

	CampaignState CampaignState `json:"campaign_state"`
	InitialAsk    uint64        `json:"initial_ask"`
	UnitPrice     uint64        `json:"unit_price"`
	TotalSupport  uint64        `json:"total_support"`
	SurplusHeld   uint64        `json:"surplus_held"`

	Capacity     int `json:"capacity"`
	BidSlotsUsed int `json:"bid_slots_used"`
	AskSlotsUsed int `json:"ask_slots_used"`
	ActiveBids   int `json:"active_bids"`
	ActiveAsks   int `json:"active_asks"`
}

func (self *Escrow) Status() ContractStatus {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	return ContractStatus{
		CollectionId:          self.collectionId,
		Approved:              self.approved,
		Commercializable:      !self.approved && self.campaign.State == CampaignNotStarted,
		CommercializationOpen: self.campaign.State == CampaignOpen,
		CampaignState:         self.campaign.State,
		InitialAsk:            self.campaign.InitialAsk,
		UnitPrice:             self.campaign.UnitPrice,
		TotalSupport:          self.campaign.TotalSupport,
		SurplusHeld:           self.surplus,
		Capacity:              self.bids.capacity,
		BidSlotsUsed:          len(self.bids.slots),
		AskSlotsUsed:          len(self.asks.slots),
		ActiveBids:            self.bids.activeCount(),
		ActiveAsks:            self.asks.activeCount(),
	}
}

func (self *Escrow) IsApproved() bool {
	self.mtx.Lock()
	defer self.mtx.Unlock()
	return self.approved
}

// Reads one slot of the book. Slots never used read as an empty inactive order.
func (self *Escrow) ArrayInfo(slot int, isBid bool) (Order, error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	own, _ := self.sides(isBid)
	return own.at(slot)
}

// Copy of all used slots of one side
func (self *Escrow) Book(isBid bool) []Order {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	own, _ := self.sides(isBid)
	return slices.Clone(own.slots)
}

func (self *Escrow) SupportInfo(holder common.Address) SupportRecord {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	r, ok := self.campaign.records[holder]
	if !ok {
		return SupportRecord{}
	}
	return *r
}

// Anything still held on behalf of someone: orders, campaign units, support payments or surplus
func (self *Escrow) HoldsCustody() bool {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.bids.activeCount() > 0 || self.asks.activeCount() > 0 || self.surplus > 0 {
		return true
	}

	c := self.campaign
	switch c.State {
	case CampaignOpen:
		return true
	case CampaignApproved:
		if !c.CreatorClaimed && c.InitialAsk > c.TotalSupport {
			return true
		}
	}
	for _, r := range c.records {
		if r.Paid > 0 || (c.State == CampaignApproved && !r.Claimed && r.Amount > 0) {
			return true
		}
	}
	return false
}
