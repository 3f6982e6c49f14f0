package gallery

import (
	"context"
	"sync"
	"testing"

	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/ledger"
	"github.com/assetkid/gallery/src/utils/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var (
	creator   = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
	collector = common.HexToAddress("0x90F79bf6EB2c4f870365E785982E1f101E93b906")

	digest = common.HexToHash("0xa85ac9d365ca47ee0c7570f8979a4f78b4e3b16c9422db94864a6c25637c662e")
)

func TestGalleryTestSuite(t *testing.T) {
	suite.Run(t, new(GalleryTestSuite))
}

type GalleryTestSuite struct {
	suite.Suite
	ctx     context.Context
	config  *config.Config
	ledger  *ledger.Memory
	gallery *Gallery

	mtx    sync.Mutex
	events []*Event
}

func (s *GalleryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.config = config.Default()
}

func (s *GalleryTestSuite) SetupTest() {
	s.events = nil
	s.ledger = ledger.NewMemory()
	s.gallery = New(s.config, s.ledger).WithEventSink(EventSinkFunc(func(event *Event) {
		s.mtx.Lock()
		defer s.mtx.Unlock()
		s.events = append(s.events, event)
	}))
	require.Nil(s.T(), s.gallery.Genesis(s.ctx))
}

func (s *GalleryTestSuite) admin() common.Address {
	return s.gallery.Admin()
}

func (s *GalleryTestSuite) balance(holder common.Address, asset uint64) uint64 {
	v, err := s.ledger.BalanceOf(s.ctx, holder, asset)
	require.Nil(s.T(), err)
	return v
}

func (s *GalleryTestSuite) lastEvent() *Event {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	require.NotEmpty(s.T(), s.events)
	return s.events[len(s.events)-1]
}

func (s *GalleryTestSuite) createTier(subsequent ...uint64) *TierCollectable {
	var tiers [MaxTiers]uint64
	copy(tiers[:], subsequent)
	result, err := s.gallery.CreateTierCollectable(s.ctx, creator, 10, tiers, nil)
	require.Nil(s.T(), err)
	return result
}

func (s *GalleryTestSuite) approve(collectionId uint64) {
	_, err := s.gallery.ApproveCollection(s.ctx, s.admin(), collectionId)
	require.Nil(s.T(), err)
}

func (s *GalleryTestSuite) TestGenesis() {
	wallet := s.gallery.Wallet()
	require.Equal(s.T(), uint64(1_000_000_000), s.balance(wallet, ledger.AssetBIA))
	require.Equal(s.T(), uint64(50), s.balance(wallet, ledger.AssetFFT))

	for asset, kind := range map[uint64]CollectionType{ledger.AssetBIA: CollectionBIA, ledger.AssetFFT: CollectionFFT} {
		info, err := s.gallery.TokenInfo(asset)
		require.Nil(s.T(), err)
		require.Equal(s.T(), Whole, info.Percentage)
		require.Equal(s.T(), common.Address{}, info.Escrow)
		require.Equal(s.T(), common.Address{}, info.Assembler)
		require.Equal(s.T(), kind, info.CollectionType)
		require.Equal(s.T(), s.gallery.Address(), info.Creator)

		owner, err := s.gallery.CollectionOwner(asset)
		require.Nil(s.T(), err)
		require.Equal(s.T(), s.gallery.Address(), owner)
	}
	require.Equal(s.T(), 0, s.gallery.UnapprovedCount())

	// Supply is not minted twice
	require.Nil(s.T(), s.gallery.Genesis(s.ctx))
	require.Equal(s.T(), uint64(50), s.balance(wallet, ledger.AssetFFT))
}

func (s *GalleryTestSuite) TestGenesisOnUsedLedger() {
	// Only genesis assets, nothing to restore
	restarted := New(s.config, s.ledger)
	require.Nil(s.T(), restarted.Genesis(s.ctx))
	require.Equal(s.T(), uint64(1_000_000_000), s.balance(restarted.Wallet(), ledger.AssetBIA))

	result, err := restarted.CreateSimpleCollectable(s.ctx, creator, [MaxTiers]uint64{1}, [MaxTiers]uint64{Whole}, nil)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), result.CollectionId)

	// Tokens 2 and up are now held but unknown to a fresh gallery
	again := New(s.config, s.ledger)
	err = again.Genesis(s.ctx)
	require.ErrorIs(s.T(), err, ErrStateNotRestorable)
	_, err = again.TokenInfo(ledger.AssetBIA)
	require.Error(s.T(), err)

	// The gallery that created them keeps working
	require.Nil(s.T(), restarted.Genesis(s.ctx))
	info, err := restarted.TokenInfo(2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), creator, info.Creator)
}

func (s *GalleryTestSuite) TestCreateSimpleCollectable() {
	result, err := s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{30, 6, 4},
		[MaxTiers]uint64{10, 50, 100},
		[]common.Hash{digest})
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), result.CollectionId)
	require.Equal(s.T(), []uint64{2, 3, 4}, result.TokenIds)
	require.Equal(s.T(), Whole, result.Share)

	require.Equal(s.T(), uint64(30), s.balance(creator, 2))
	require.Equal(s.T(), uint64(6), s.balance(creator, 3))
	require.Equal(s.T(), uint64(4), s.balance(creator, 4))

	event := s.lastEvent()
	require.Equal(s.T(), EventSimpleCollectableCreated, event.Kind)
	require.Equal(s.T(), uint64(2), event.CollectionId)
	require.Equal(s.T(), creator, event.Actor)
	require.Equal(s.T(), []uint64{2, 3, 4}, event.TokenIds)
	require.NotEmpty(s.T(), event.Id)

	info, err := s.gallery.TokenInfo(3)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), info.CollectionId)
	require.Equal(s.T(), uint64(50), info.Percentage)
	require.Equal(s.T(), CollectionSimple, info.CollectionType)
	require.NotEqual(s.T(), common.Address{}, info.Escrow)
	require.False(s.T(), info.Approved)
	require.Equal(s.T(), 1, s.gallery.UnapprovedCount())

	id, err := s.gallery.TokenByMetadata(digest)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), id)

	// Next collection continues the ids
	result, err = s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{30, 7, 1},
		[MaxTiers]uint64{15, 50, 200},
		nil)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(5), result.CollectionId)
	require.Equal(s.T(), []uint64{5, 6, 7}, result.TokenIds)
}

func (s *GalleryTestSuite) TestCreateSimpleCollectableOverflow() {
	_, err := s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{30, 7, 4},
		[MaxTiers]uint64{10, 50, 100},
		nil)
	require.ErrorIs(s.T(), err, ErrTierPercentageOverflow)

	_, err = s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{1 << 63, 2},
		[MaxTiers]uint64{4, 1},
		nil)
	require.ErrorIs(s.T(), err, ErrTierPercentageOverflow)

	_, err = s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{30, 0, 4},
		[MaxTiers]uint64{10, 50, 100},
		nil)
	require.ErrorIs(s.T(), err, ErrInvalidCollectable)

	_, err = s.gallery.CreateSimpleCollectable(s.ctx, creator, [MaxTiers]uint64{}, [MaxTiers]uint64{}, nil)
	require.ErrorIs(s.T(), err, ErrInvalidCollectable)

	// Nothing minted, ids not consumed
	require.Equal(s.T(), uint64(0), s.balance(creator, 2))
	result, err := s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{1},
		[MaxTiers]uint64{1000},
		nil)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), result.CollectionId)
}

func (s *GalleryTestSuite) TestDuplicateMetadata() {
	_, err := s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{1, 1},
		[MaxTiers]uint64{10, 10},
		[]common.Hash{digest, digest})
	require.ErrorIs(s.T(), err, ErrInvalidCollectable)

	_, err = s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{1},
		[MaxTiers]uint64{10},
		[]common.Hash{digest})
	require.Nil(s.T(), err)

	_, err = s.gallery.CreateTierCollectable(s.ctx, creator, 10, [MaxTiers]uint64{50}, []common.Hash{digest})
	require.ErrorIs(s.T(), err, ErrInvalidCollectable)
}

func (s *GalleryTestSuite) TestCreateTierCollectable() {
	result := s.createTier(50, 250, 500, 1000)
	require.Equal(s.T(), uint64(2), result.CollectionId)
	require.Equal(s.T(), []uint64{2, 3, 4, 5, 6}, result.TokenIds)

	info, err := s.gallery.TokenInfo(2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), result.Assembler, info.Assembler)
	require.Equal(s.T(), result.Escrow, info.Escrow)
	require.Equal(s.T(), CollectionTier, info.CollectionType)
	require.NotEqual(s.T(), info.Escrow, info.Assembler)

	require.Equal(s.T(), uint64(100), s.balance(creator, 2))
	for id, expected := range map[uint64]uint64{3: 20, 4: 4, 5: 2, 6: 1} {
		require.Equal(s.T(), uint64(0), s.balance(creator, id))
		require.Equal(s.T(), expected, s.balance(result.Assembler, id))
	}
	require.Equal(s.T(), uint64(0), s.balance(result.Assembler, 2))

	event := s.lastEvent()
	require.Equal(s.T(), EventTierCollectableCreated, event.Kind)
	require.Equal(s.T(), []uint64{2, 3, 4, 5, 6}, event.TokenIds)

	// Addresses are never reused
	other := s.createTier(50)
	require.NotEqual(s.T(), result.Assembler, other.Assembler)
	require.NotEqual(s.T(), result.Escrow, other.Escrow)
}

func (s *GalleryTestSuite) TestInvalidTiers() {
	for _, tc := range []struct {
		base       uint64
		subsequent [MaxTiers]uint64
	}{
		{10, [MaxTiers]uint64{100, 250, 500}},
		{10, [MaxTiers]uint64{100, 600}},
		{0, [MaxTiers]uint64{}},
		{3, [MaxTiers]uint64{}},
		{10, [MaxTiers]uint64{50, 50}},
		{10, [MaxTiers]uint64{50, 0, 250}},
		{100, [MaxTiers]uint64{50}},
		{10, [MaxTiers]uint64{2000}},
	} {
		_, err := s.gallery.CreateTierCollectable(s.ctx, creator, tc.base, tc.subsequent, nil)
		require.ErrorIs(s.T(), err, ErrInvalidTier, "base %d tiers %v", tc.base, tc.subsequent)
	}
	require.Equal(s.T(), uint64(0), s.balance(creator, 2))
}

func (s *GalleryTestSuite) TestExchangeNeedsApproval() {
	s.createTier(50, 250, 500)
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, creator, true))

	_, err := s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 25, 4)
	require.ErrorIs(s.T(), err, escrow.ErrCollectionNotApproved)

	s.approve(2)
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, creator, false))
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 25, 4)
	require.ErrorIs(s.T(), err, ledger.ErrInsufficientApproval)
	require.Equal(s.T(), uint64(100), s.balance(creator, 2))
}

func (s *GalleryTestSuite) TestExchangeUpAndDown() {
	tier := s.createTier(50, 250, 500, 1000)
	s.approve(2)
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, creator, true))

	result, err := s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 25, 4)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(1), result.Received)
	require.Equal(s.T(), uint64(75), s.balance(creator, 2))
	require.Equal(s.T(), uint64(1), s.balance(creator, 4))
	require.Equal(s.T(), uint64(25), s.balance(tier.Assembler, 2))

	event := s.lastEvent()
	require.Equal(s.T(), EventTierExchange, event.Kind)
	require.Equal(s.T(), []uint64{2, 4}, event.TokenIds)

	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 50, 5)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(25), s.balance(creator, 2))
	require.Equal(s.T(), uint64(1), s.balance(creator, 5))

	// Down again, no rounding
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 5, 1, 2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(75), s.balance(creator, 2))
	require.Equal(s.T(), uint64(0), s.balance(creator, 5))

	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 75, 4)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(4), s.balance(creator, 4))

	// 4 x 25% into 100% and back into quarters
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 4, 4, 6)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(1), s.balance(creator, 6))
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 6, 1, 4)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(4), s.balance(creator, 4))
	require.Equal(s.T(), uint64(1), s.balance(tier.Assembler, 6))
}

func (s *GalleryTestSuite) TestInexactExchange() {
	s.createTier(50, 250, 500)
	s.approve(2)
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, creator, true))

	_, err := s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 24, 4)
	require.ErrorIs(s.T(), err, ErrInexactExchange)

	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 0, 4)
	require.ErrorIs(s.T(), err, ErrInexactExchange)

	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 10, 2)
	require.ErrorIs(s.T(), err, ErrInexactExchange)

	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 25, 9)
	require.ErrorIs(s.T(), err, ErrUnknownToken)

	// Walk through every tier
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 100, 4)
	require.Nil(s.T(), err)
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 4, 2, 5)
	require.Nil(s.T(), err)
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 4, 2, 5)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), s.balance(creator, 5))
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 5, 2, 3)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(20), s.balance(creator, 3))
}

func (s *GalleryTestSuite) TestExchangeSimpleCollectable() {
	_, err := s.gallery.CreateSimpleCollectable(s.ctx, creator, [MaxTiers]uint64{10}, [MaxTiers]uint64{100}, nil)
	require.Nil(s.T(), err)
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 1, 2)
	require.ErrorIs(s.T(), err, ErrInvalidTier)

	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 9, 9, 1, 10)
	require.ErrorIs(s.T(), err, ErrUnknownCollection)
}

func (s *GalleryTestSuite) TestBurnCollection() {
	tier := s.createTier(50, 250, 500, 1000)
	s.approve(2)
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, creator, true))

	// Collector holding a part blocks the burn
	_, err := s.gallery.ExchangeTierToken(s.ctx, creator, 2, 2, 100, 6)
	require.Nil(s.T(), err)
	_, err = s.gallery.ExchangeTierToken(s.ctx, creator, 2, 6, 1, 3)
	require.Nil(s.T(), err)
	require.Nil(s.T(), s.ledger.Transfer(s.ctx, creator, creator, collector, 3, 1))

	_, err = s.gallery.BurnCollection(s.ctx, creator, 2)
	require.ErrorIs(s.T(), err, ErrNotWholeOwner)
	require.Equal(s.T(), uint64(19), s.balance(creator, 3))

	require.Nil(s.T(), s.ledger.Transfer(s.ctx, collector, collector, creator, 3, 1))
	_, err = s.gallery.BurnCollection(s.ctx, collector, 2)
	require.ErrorIs(s.T(), err, ErrNotWholeOwner)

	result, err := s.gallery.BurnCollection(s.ctx, creator, 2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(100), result.Burned[2])
	require.Equal(s.T(), uint64(20), result.Burned[3])

	for _, id := range tier.TokenIds {
		require.Equal(s.T(), uint64(0), s.balance(creator, id))
		require.Equal(s.T(), uint64(0), s.balance(tier.Assembler, id))

		_, err = s.gallery.TokenInfo(id)
		require.ErrorIs(s.T(), err, ErrUnknownToken)
	}
	require.Equal(s.T(), EventCollectionBurned, s.lastEvent().Kind)

	_, err = s.gallery.BurnCollection(s.ctx, creator, 2)
	require.ErrorIs(s.T(), err, ErrUnknownCollection)
}

func (s *GalleryTestSuite) TestBurnWithOpenCustody() {
	_, err := s.gallery.CreateSimpleCollectable(s.ctx, creator, [MaxTiers]uint64{10}, [MaxTiers]uint64{100}, nil)
	require.Nil(s.T(), err)
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, creator, true))
	require.Nil(s.T(), s.gallery.Commercialize(s.ctx, creator, 2, 5, 10, false))

	_, err = s.gallery.BurnCollection(s.ctx, creator, 2)
	require.ErrorIs(s.T(), err, ErrCustodyOpen)

	require.Nil(s.T(), s.gallery.Commercialize(s.ctx, creator, 2, 0, 0, true))
	_, err = s.gallery.BurnCollection(s.ctx, creator, 2)
	require.Nil(s.T(), err)
}

func (s *GalleryTestSuite) TestBurnLessThanWhole() {
	// Half of the work was minted, holding all of it is not holding the whole
	result, err := s.gallery.CreateSimpleCollectable(s.ctx, creator, [MaxTiers]uint64{5}, [MaxTiers]uint64{100}, nil)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(500), result.Share)

	_, err = s.gallery.BurnCollection(s.ctx, creator, 2)
	require.ErrorIs(s.T(), err, ErrNotWholeOwner)
	require.Equal(s.T(), uint64(5), s.balance(creator, 2))

	info, err := s.gallery.TokenInfo(2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), info.CollectionId)
}

func (s *GalleryTestSuite) TestAdminOnly() {
	s.createTier(50)

	_, err := s.gallery.ApproveCollection(s.ctx, creator, 2)
	require.ErrorIs(s.T(), err, ErrNotAdmin)
	require.ErrorIs(s.T(), s.gallery.SetBiaMetadata(creator, "x"), ErrNotAdmin)
	require.ErrorIs(s.T(), s.gallery.SetFftMetadata(creator, "x"), ErrNotAdmin)
	_, err = s.gallery.CompactBook(s.ctx, creator, 2)
	require.ErrorIs(s.T(), err, ErrNotAdmin)
	_, err = s.gallery.SweepSurplus(s.ctx, creator, 2, creator)
	require.ErrorIs(s.T(), err, ErrNotAdmin)
	require.ErrorIs(s.T(), s.gallery.FundAddress(s.ctx, creator, creator, 1), ErrNotAdmin)

	_, err = s.gallery.ApproveCollection(s.ctx, s.admin(), 7)
	require.ErrorIs(s.T(), err, ErrUnknownCollection)

	// Genesis assets are not traded
	_, err = s.gallery.ApproveCollection(s.ctx, s.admin(), ledger.AssetBIA)
	require.ErrorIs(s.T(), err, ErrUnknownCollection)

	s.approve(2)
	_, err = s.gallery.ApproveCollection(s.ctx, s.admin(), 2)
	require.ErrorIs(s.T(), err, escrow.ErrAlreadyApproved)
	require.Equal(s.T(), 0, s.gallery.UnapprovedCount())
}

func (s *GalleryTestSuite) TestFundAddress() {
	require.Nil(s.T(), s.gallery.FundAddress(s.ctx, s.admin(), collector, 1000))
	require.Equal(s.T(), uint64(1000), s.balance(collector, ledger.AssetBIA))
	require.Equal(s.T(), uint64(1_000_000_000-1000), s.balance(s.gallery.Wallet(), ledger.AssetBIA))
	require.Equal(s.T(), EventAddressFunded, s.lastEvent().Kind)

	err := s.gallery.FundAddress(s.ctx, s.admin(), collector, 0)
	require.ErrorIs(s.T(), err, escrow.ErrInvalidAmount)

	err = s.gallery.FundAddress(s.ctx, s.admin(), collector, 2_000_000_000)
	require.ErrorIs(s.T(), err, ledger.ErrInsufficientBalance)
}

func (s *GalleryTestSuite) TestFundLimit() {
	cfg := *s.config
	cfg.Gallery.MaxFundAmount = 10
	g := New(&cfg, s.ledger)
	require.Nil(s.T(), g.Genesis(s.ctx))

	require.ErrorIs(s.T(), g.FundAddress(s.ctx, g.Admin(), collector, 11), ErrFundLimit)
	require.Nil(s.T(), g.FundAddress(s.ctx, g.Admin(), collector, 10))
}

func (s *GalleryTestSuite) TestTradeAndSupportFlow() {
	s.createTier(50)
	require.Nil(s.T(), s.gallery.FundAddress(s.ctx, s.admin(), collector, 10000))
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, creator, true))
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, collector, true))

	// Campaign before approval
	require.Nil(s.T(), s.gallery.Commercialize(s.ctx, creator, 2, 50, 100, false))
	record, err := s.gallery.Support(s.ctx, collector, 2, 2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(200), record.Paid)

	info, err := s.gallery.SupportInfo(2, collector)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), info.Amount)

	_, err = s.gallery.SubmitOffer(s.ctx, collector, 2, 1, 10, true)
	require.ErrorIs(s.T(), err, escrow.ErrCollectionNotApproved)

	result, err := s.gallery.ApproveCollection(s.ctx, s.admin(), 2)
	require.Nil(s.T(), err)
	require.True(s.T(), result.Settled)
	require.Equal(s.T(), uint64(200), s.balance(creator, ledger.AssetBIA))

	claimed, err := s.gallery.ClaimSFT(s.ctx, collector, 2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), claimed)
	_, err = s.gallery.ClaimSFT(s.ctx, collector, 2)
	require.ErrorIs(s.T(), err, escrow.ErrNothingToClaim)
	paid, err := s.gallery.ClaimBIA(s.ctx, creator, 2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(0), paid)
	require.Equal(s.T(), uint64(200), s.balance(creator, ledger.AssetBIA))
	_, err = s.gallery.ClaimBIA(s.ctx, creator, 2)
	require.ErrorIs(s.T(), err, escrow.ErrNothingToClaim)

	// Trading
	submit, err := s.gallery.SubmitOffer(s.ctx, collector, 2, 20, 5, true)
	require.Nil(s.T(), err)
	require.Equal(s.T(), 0, submit.Slot)
	require.Equal(s.T(), EventOfferSubmitted, s.lastEvent().Kind)

	submit, err = s.gallery.SubmitOffer(s.ctx, creator, 2, 10, 5, false)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(10), submit.Filled())

	order, err := s.gallery.ArrayInfo(2, 0, true)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(10), order.Amount)
	require.True(s.T(), order.Active)

	book, err := s.gallery.Book(2, true)
	require.Nil(s.T(), err)
	require.Len(s.T(), book, 1)

	status, err := s.gallery.ContractStatus(2)
	require.Nil(s.T(), err)
	require.True(s.T(), status.Approved)
	require.Equal(s.T(), 1, status.ActiveBids)

	cancelled, err := s.gallery.CancelOffer(s.ctx, collector, 2, true)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(10), cancelled.Amount)
	require.Equal(s.T(), EventOfferCancelled, s.lastEvent().Kind)

	compaction, err := s.gallery.CompactBook(s.ctx, s.admin(), 2)
	require.Nil(s.T(), err)
	require.Empty(s.T(), compaction.Bids)

	_, err = s.gallery.SweepSurplus(s.ctx, s.admin(), 2, s.admin())
	require.ErrorIs(s.T(), err, escrow.ErrNothingToClaim)
}

func (s *GalleryTestSuite) TestTokenURI() {
	uri, err := s.gallery.TokenURI(ledger.AssetBIA)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "", uri)

	require.Nil(s.T(), s.gallery.SetBiaMetadata(s.admin(), "https://ipfs.io/ipfs/bia/metadata.json"))
	require.Nil(s.T(), s.gallery.SetFftMetadata(s.admin(), "https://ipfs.io/ipfs/fft/metadata.json"))

	uri, err = s.gallery.TokenURI(ledger.AssetBIA)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "https://ipfs.io/ipfs/bia/metadata.json", uri)
	uri, err = s.gallery.TokenURI(ledger.AssetFFT)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "https://ipfs.io/ipfs/fft/metadata.json", uri)

	_, err = s.gallery.CreateSimpleCollectable(s.ctx, creator,
		[MaxTiers]uint64{1, 1},
		[MaxTiers]uint64{10, 10},
		[]common.Hash{digest})
	require.Nil(s.T(), err)

	uri, err = s.gallery.TokenURI(2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "ipfs://bafybeifille5gzoki7xay5lq7clzut3ywtr3c3euelnzjbsknqswg7dgfy", uri)

	metadata, err := s.gallery.MetadataId(2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), digest, metadata)

	// No digest
	uri, err = s.gallery.TokenURI(3)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "", uri)

	_, err = s.gallery.TokenURI(99)
	require.ErrorIs(s.T(), err, ErrUnknownToken)
}

func (s *GalleryTestSuite) TestMetadataCid() {
	c, err := MetadataCid(common.HexToHash("0x9be311107159657ffe70682e3b33dcaf994ed60bb0afd954dbdd8afa12f139e5"))
	require.Nil(s.T(), err)
	require.Equal(s.T(), "bafybeie34mira4kzmv7744dify5thxfptfhnmc5qv7mvjw65rl5bf4jz4u", c.String())
}

func (s *GalleryTestSuite) TestCollections() {
	s.createTier(50)
	collections := s.gallery.Collections()
	require.Len(s.T(), collections, 3)
	require.Equal(s.T(), CollectionBIA, collections[0].CollectionType)
	require.Equal(s.T(), CollectionFFT, collections[1].CollectionType)
	require.Equal(s.T(), []uint64{2, 3}, collections[2].TokenIds)
	require.False(s.T(), collections[2].Approved)
}

func (s *GalleryTestSuite) TestIndependentCollectionsConcurrently() {
	s.createTier(50)
	s.createTier(50)
	s.approve(2)
	s.approve(4)

	require.Nil(s.T(), s.gallery.FundAddress(s.ctx, s.admin(), collector, 100000))
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, creator, true))
	require.Nil(s.T(), s.gallery.SetApprovalForAll(s.ctx, collector, true))

	var wg sync.WaitGroup
	for _, id := range []uint64{2, 4} {
		wg.Add(1)
		go func(id uint64) {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				_, err := s.gallery.SubmitOffer(s.ctx, creator, id, 1, 10, false)
				require.Nil(s.T(), err)
				_, err = s.gallery.SubmitOffer(s.ctx, collector, id, 1, 10, true)
				require.Nil(s.T(), err)
			}
		}(id)
	}
	wg.Wait()

	require.Equal(s.T(), uint64(20), s.balance(collector, 2))
	require.Equal(s.T(), uint64(20), s.balance(collector, 4))
	require.Equal(s.T(), uint64(100000-400), s.balance(collector, ledger.AssetBIA))
	require.Equal(s.T(), uint64(400), s.balance(creator, ledger.AssetBIA))
}
