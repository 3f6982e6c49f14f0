package escrow

import (
	"context"
	"testing"

	"github.com/assetkid/gallery/src/ledger"
	"github.com/assetkid/gallery/src/utils/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestSupportTestSuite(t *testing.T) {
	suite.Run(t, new(SupportTestSuite))
}

type SupportTestSuite struct {
	suite.Suite
	ctx    context.Context
	ledger *ledger.Memory
	escrow *Escrow
}

func (s *SupportTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ledger = ledger.NewMemory()
	s.escrow = New(config.Default().Escrow, s.ledger, Params{
		CollectionId: testAsset,
		Asset:        testAsset,
		Address:      escrowAcc,
		Operator:     gallery,
		Creator:      creator,
	})

	require.Nil(s.T(), s.ledger.Mint(s.ctx, creator, testAsset, 100))
	require.Nil(s.T(), s.ledger.Mint(s.ctx, collector, ledger.AssetBIA, 1000))
	require.Nil(s.T(), s.ledger.SetApprovalForAll(s.ctx, creator, gallery, true))
	require.Nil(s.T(), s.ledger.SetApprovalForAll(s.ctx, collector, gallery, true))
}

func (s *SupportTestSuite) balance(holder common.Address, asset uint64) uint64 {
	v, err := s.ledger.BalanceOf(s.ctx, holder, asset)
	require.Nil(s.T(), err)
	return v
}

func (s *SupportTestSuite) open() {
	require.Nil(s.T(), s.escrow.Commercialize(s.ctx, creator, 50, 100, false))
}

func (s *SupportTestSuite) TestCommercializeMovesUnits() {
	status := s.escrow.Status()
	require.True(s.T(), status.Commercializable)
	require.False(s.T(), status.CommercializationOpen)

	s.open()

	require.Equal(s.T(), uint64(50), s.balance(creator, testAsset))
	require.Equal(s.T(), uint64(50), s.balance(escrowAcc, testAsset))

	status = s.escrow.Status()
	require.False(s.T(), status.Commercializable)
	require.True(s.T(), status.CommercializationOpen)
	require.Equal(s.T(), CampaignOpen, status.CampaignState)
	require.Equal(s.T(), uint64(50), status.InitialAsk)
	require.Equal(s.T(), uint64(100), status.UnitPrice)
}

func (s *SupportTestSuite) TestCommercializeTwiceFails() {
	s.open()
	err := s.escrow.Commercialize(s.ctx, creator, 10, 100, false)
	require.ErrorIs(s.T(), err, ErrCampaignAlreadyOpen)
}

func (s *SupportTestSuite) TestCommercializeChecks() {
	err := s.escrow.Commercialize(s.ctx, collector, 10, 100, false)
	require.ErrorIs(s.T(), err, ErrNotCreator)

	err = s.escrow.Commercialize(s.ctx, creator, 101, 100, false)
	require.ErrorIs(s.T(), err, ledger.ErrInsufficientBalance)
	require.Equal(s.T(), CampaignNotStarted, s.escrow.Status().CampaignState)

	_, err = s.escrow.Approve(s.ctx)
	require.Nil(s.T(), err)
	err = s.escrow.Commercialize(s.ctx, creator, 10, 100, false)
	require.ErrorIs(s.T(), err, ErrAlreadyApproved)
}

func (s *SupportTestSuite) TestSupportAndApprove() {
	s.open()

	record, err := s.escrow.Support(s.ctx, collector, 2)
	require.Nil(s.T(), err)
	require.Equal(s.T(), SupportRecord{Amount: 2, Paid: 200}, record)
	require.Equal(s.T(), uint64(800), s.balance(collector, ledger.AssetBIA))
	require.Equal(s.T(), uint64(200), s.balance(escrowAcc, ledger.AssetBIA))

	result, err := s.escrow.Approve(s.ctx)
	require.Nil(s.T(), err)
	require.True(s.T(), result.Settled)
	require.Equal(s.T(), uint64(200), result.CreatorPaid)
	require.Equal(s.T(), uint64(200), s.balance(creator, ledger.AssetBIA))
	require.Equal(s.T(), uint64(0), s.balance(escrowAcc, ledger.AssetBIA))

	// Creator was paid on approval, the claim settles nothing more and only works once
	creatorClaim, err := s.escrow.ClaimBIA(s.ctx, creator)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(0), creatorClaim)
	require.Equal(s.T(), uint64(200), s.balance(creator, ledger.AssetBIA))

	_, err = s.escrow.ClaimBIA(s.ctx, creator)
	require.ErrorIs(s.T(), err, ErrNothingToClaim)

	_, err = s.escrow.ClaimBIA(s.ctx, collector)
	require.ErrorIs(s.T(), err, ErrNothingToClaim)

	claimed, err := s.escrow.ClaimSFT(s.ctx, collector)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(2), claimed)
	require.Equal(s.T(), uint64(2), s.balance(collector, testAsset))

	// Second claim changes nothing
	_, err = s.escrow.ClaimSFT(s.ctx, collector)
	require.ErrorIs(s.T(), err, ErrNothingToClaim)
	require.Equal(s.T(), uint64(2), s.balance(collector, testAsset))

	claimed, err = s.escrow.ClaimSFT(s.ctx, creator)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(48), claimed)
	require.Equal(s.T(), uint64(98), s.balance(creator, testAsset))
	require.Equal(s.T(), uint64(0), s.balance(escrowAcc, testAsset))
	require.False(s.T(), s.escrow.HoldsCustody())

	_, err = s.escrow.WithdrawSupport(s.ctx, collector)
	require.ErrorIs(s.T(), err, ErrNotWithdrawable)
}

func (s *SupportTestSuite) TestOverCommitted() {
	s.open()
	require.Nil(s.T(), s.ledger.Mint(s.ctx, collector, ledger.AssetBIA, 10000))

	_, err := s.escrow.Support(s.ctx, collector, 51)
	require.ErrorIs(s.T(), err, ErrOverCommitted)

	_, err = s.escrow.Support(s.ctx, collector, 50)
	require.Nil(s.T(), err)

	_, err = s.escrow.Support(s.ctx, collector, 1)
	require.ErrorIs(s.T(), err, ErrOverCommitted)
	require.Equal(s.T(), uint64(50), s.escrow.Status().TotalSupport)
}

func (s *SupportTestSuite) TestSupportNeedsOpenCampaign() {
	_, err := s.escrow.Support(s.ctx, collector, 1)
	require.ErrorIs(s.T(), err, ErrCampaignNotOpen)
}

func (s *SupportTestSuite) TestSupportWithoutFundsFails() {
	s.open()
	_, err := s.escrow.Support(s.ctx, collector, 11)
	require.ErrorIs(s.T(), err, ledger.ErrInsufficientBalance)
	require.Equal(s.T(), SupportRecord{}, s.escrow.SupportInfo(collector))
	require.Equal(s.T(), uint64(0), s.escrow.Status().TotalSupport)
}

func (s *SupportTestSuite) TestWithdrawWhileOpen() {
	s.open()
	_, err := s.escrow.Support(s.ctx, collector, 2)
	require.Nil(s.T(), err)

	refunded, err := s.escrow.WithdrawSupport(s.ctx, collector)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(200), refunded)
	require.Equal(s.T(), uint64(1000), s.balance(collector, ledger.AssetBIA))
	require.Equal(s.T(), SupportRecord{}, s.escrow.SupportInfo(collector))
	require.Equal(s.T(), uint64(0), s.escrow.Status().TotalSupport)

	_, err = s.escrow.WithdrawSupport(s.ctx, collector)
	require.ErrorIs(s.T(), err, ErrNothingToClaim)
}

func (s *SupportTestSuite) TestCancel() {
	s.open()
	_, err := s.escrow.Support(s.ctx, collector, 2)
	require.Nil(s.T(), err)

	err = s.escrow.Commercialize(s.ctx, collector, 0, 0, true)
	require.ErrorIs(s.T(), err, ErrNotCreator)

	require.Nil(s.T(), s.escrow.Commercialize(s.ctx, creator, 0, 0, true))
	require.Equal(s.T(), uint64(100), s.balance(creator, testAsset))
	require.Equal(s.T(), CampaignCancelled, s.escrow.Status().CampaignState)

	// Payment stays in escrow until the supporter takes it back
	require.Equal(s.T(), uint64(200), s.balance(escrowAcc, ledger.AssetBIA))

	claimed, err := s.escrow.ClaimBIA(s.ctx, collector)
	require.Nil(s.T(), err)
	require.Equal(s.T(), uint64(200), claimed)
	require.Equal(s.T(), uint64(1000), s.balance(collector, ledger.AssetBIA))
	require.Equal(s.T(), SupportRecord{}, s.escrow.SupportInfo(collector))

	_, err = s.escrow.ClaimBIA(s.ctx, collector)
	require.ErrorIs(s.T(), err, ErrNothingToClaim)
	_, err = s.escrow.WithdrawSupport(s.ctx, collector)
	require.ErrorIs(s.T(), err, ErrNothingToClaim)

	// Terminal
	err = s.escrow.Commercialize(s.ctx, creator, 0, 0, true)
	require.ErrorIs(s.T(), err, ErrCampaignNotOpen)
	err = s.escrow.Commercialize(s.ctx, creator, 10, 10, false)
	require.ErrorIs(s.T(), err, ErrCampaignClosed)
	_, err = s.escrow.Support(s.ctx, collector, 1)
	require.ErrorIs(s.T(), err, ErrCampaignNotOpen)
}

func (s *SupportTestSuite) TestApproveTwiceFails() {
	_, err := s.escrow.Approve(s.ctx)
	require.Nil(s.T(), err)
	_, err = s.escrow.Approve(s.ctx)
	require.ErrorIs(s.T(), err, ErrAlreadyApproved)
}
