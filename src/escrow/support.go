package escrow

import (
	"context"

	"github.com/assetkid/gallery/src/ledger"

	"github.com/ethereum/go-ethereum/common"
)

// Opens the campaign by moving amount units from the creator into escrow.
// With cancel set it closes an open campaign instead: units go back to the creator
// and supporters may take back their payments.
func (self *Escrow) Commercialize(ctx context.Context, caller common.Address, amount, price uint64, cancel bool) error {
	if caller != self.creator {
		return ErrNotCreator
	}
	if cancel {
		return self.cancelCampaign(ctx)
	}
	if amount == 0 || price == 0 {
		return ErrInvalidAmount
	}

	err := self.mutate(ctx, func(tx ledger.Ledger) error {
		c := self.campaign
		switch {
		case c.State == CampaignOpen:
			return ErrCampaignAlreadyOpen
		case c.State != CampaignNotStarted:
			return ErrCampaignClosed
		case self.approved:
			return ErrAlreadyApproved
		}

		// Price times the whole ask must be representable, support is checked against it
		_, err := mul(amount, price)
		if err != nil {
			return err
		}

		err = self.take(ctx, tx, self.creator, self.asset, amount)
		if err != nil {
			return err
		}

		c.State = CampaignOpen
		c.InitialAsk = amount
		c.UnitPrice = price
		return nil
	})
	if err != nil {
		return err
	}

	self.log.WithField("amount", amount).WithField("price", price).Info("Campaign opened")
	return nil
}

func (self *Escrow) cancelCampaign(ctx context.Context) error {
	err := self.mutate(ctx, func(tx ledger.Ledger) error {
		c := self.campaign
		if c.State != CampaignOpen {
			return ErrCampaignNotOpen
		}

		err := self.pay(ctx, tx, self.creator, self.asset, c.InitialAsk)
		if err != nil {
			return err
		}

		c.State = CampaignCancelled
		return nil
	})
	if err != nil {
		return err
	}

	self.log.Info("Campaign cancelled")
	return nil
}

// Pays amount*price into escrow and records the support
func (self *Escrow) Support(ctx context.Context, supporter common.Address, amount uint64) (record SupportRecord, err error) {
	if amount == 0 {
		return SupportRecord{}, ErrInvalidAmount
	}

	err = self.mutate(ctx, func(tx ledger.Ledger) error {
		c := self.campaign
		if c.State != CampaignOpen {
			return ErrCampaignNotOpen
		}

		total := c.TotalSupport + amount
		if total < amount || total > c.InitialAsk {
			return ErrOverCommitted
		}

		cost, err := mul(amount, c.UnitPrice)
		if err != nil {
			return err
		}
		err = self.take(ctx, tx, supporter, ledger.AssetBIA, cost)
		if err != nil {
			return err
		}

		r := c.record(supporter)
		r.Amount += amount
		r.Paid += cost
		c.TotalSupport = total
		record = *r
		return nil
	})
	return
}

// Refunds the supporter's whole payment while the campaign is open or after it was cancelled
func (self *Escrow) WithdrawSupport(ctx context.Context, supporter common.Address) (refunded uint64, err error) {
	err = self.mutate(ctx, func(tx ledger.Ledger) error {
		c := self.campaign
		switch c.State {
		case CampaignApproved:
			return ErrNotWithdrawable
		case CampaignNotStarted:
			return ErrCampaignNotOpen
		}

		refunded, err = self.refundSupport(ctx, tx, supporter)
		return err
	})
	return
}

func (self *Escrow) refundSupport(ctx context.Context, tx ledger.Ledger, supporter common.Address) (refunded uint64, err error) {
	c := self.campaign
	r, ok := c.records[supporter]
	if !ok || r.Paid == 0 {
		return 0, ErrNothingToClaim
	}

	err = self.pay(ctx, tx, supporter, ledger.AssetBIA, r.Paid)
	if err != nil {
		return
	}

	refunded = r.Paid
	if c.State == CampaignOpen {
		c.TotalSupport -= r.Amount
	}
	delete(c.records, supporter)
	return
}

type ApproveResult struct {
	// Campaign was open and got settled
	Settled bool `json:"settled"`

	// Payment asset moved to the creator
	CreatorPaid uint64 `json:"creator_paid"`

	// Supporters that may claim units
	Supporters []common.Address `json:"supporters"`
}

// Opens the book for trading. An open campaign is settled: supporter payments go to the creator
// and every supporter may claim their units.
func (self *Escrow) Approve(ctx context.Context) (result ApproveResult, err error) {
	err = self.mutate(ctx, func(tx ledger.Ledger) error {
		if self.approved {
			return ErrAlreadyApproved
		}
		self.approved = true

		c := self.campaign
		if c.State != CampaignOpen {
			return nil
		}

		paid := c.totalPaid()
		err := self.pay(ctx, tx, self.creator, ledger.AssetBIA, paid)
		if err != nil {
			return err
		}

		for _, r := range c.records {
			r.Paid = 0
		}
		c.State = CampaignApproved

		result = ApproveResult{
			Settled:     true,
			CreatorPaid: paid,
			Supporters:  c.supporters(),
		}
		return nil
	})
	if err != nil {
		return
	}

	self.log.WithField("settled", result.Settled).WithField("creator_paid", result.CreatorPaid).Info("Collection approved")
	return
}

// Hands out units after approval: supporters get what they supported,
// the creator gets the part of the initial ask nobody supported.
func (self *Escrow) ClaimSFT(ctx context.Context, holder common.Address) (claimed uint64, err error) {
	err = self.mutate(ctx, func(tx ledger.Ledger) error {
		c := self.campaign
		if c.State != CampaignApproved {
			return ErrNothingToClaim
		}

		r, ok := c.records[holder]
		if ok && !r.Claimed && r.Amount > 0 {
			claimed += r.Amount
			r.Claimed = true
		}

		if holder == self.creator && !c.CreatorClaimed {
			claimed += c.InitialAsk - c.TotalSupport
			c.CreatorClaimed = true
		}

		if claimed == 0 {
			return ErrNothingToClaim
		}
		return self.pay(ctx, tx, holder, self.asset, claimed)
	})
	return
}

// Returns the payment of a supporter after the campaign was cancelled.
// The creator is paid on approval, so the creator's one claim after approval moves nothing.
func (self *Escrow) ClaimBIA(ctx context.Context, holder common.Address) (claimed uint64, err error) {
	err = self.mutate(ctx, func(tx ledger.Ledger) error {
		if self.campaign.State == CampaignApproved && holder == self.creator {
			if self.campaign.CreatorClaimedBIA {
				return ErrNothingToClaim
			}
			self.campaign.CreatorClaimedBIA = true
			return nil
		}

		if self.campaign.State != CampaignCancelled {
			return ErrNothingToClaim
		}
		claimed, err = self.refundSupport(ctx, tx, holder)
		return err
	})
	return
}
