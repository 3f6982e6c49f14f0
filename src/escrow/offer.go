package escrow

import (
	"context"

	"github.com/assetkid/gallery/src/ledger"

	"github.com/ethereum/go-ethereum/common"
)

// One match between the incoming order and a resting order
type Fill struct {
	Buyer  common.Address `json:"buyer"`
	Seller common.Address `json:"seller"`

	// Slot of the resting order on the opposite side
	RestingSlot int `json:"resting_slot"`

	// Units exchanged, paid at the ask price
	Amount uint64 `json:"amount"`
	Price  uint64 `json:"price"`

	// (bid price - ask price) * amount
	Surplus uint64 `json:"surplus"`
}

type Eviction struct {
	Slot  int   `json:"slot"`
	Order Order `json:"order"`
}

type SubmitResult struct {
	IsBid bool `json:"is_bid"`

	Fills []Fill `json:"fills"`

	// Slot of the unmatched remainder, -1 if the order was fully filled
	Slot      int    `json:"slot"`
	Remaining uint64 `json:"remaining"`

	// Order pushed out of a full book
	Evicted *Eviction `json:"evicted,omitempty"`
}

func (self *SubmitResult) Filled() (sum uint64) {
	for _, f := range self.Fills {
		sum += f.Amount
	}
	return
}

// Matches the order against the opposite side, settles every fill and books the remainder.
// Bids are matched by asks priced at or below them, asks by bids priced at or above them,
// in slot order.
func (self *Escrow) SubmitOffer(ctx context.Context, holder common.Address, amount, price uint64, isBid bool) (result *SubmitResult, err error) {
	if amount == 0 || price == 0 {
		return nil, ErrInvalidAmount
	}

	err = self.mutate(ctx, func(tx ledger.Ledger) (err error) {
		if !self.approved {
			return ErrCollectionNotApproved
		}

		own, opposite := self.sides(isBid)
		if own.activeSlot(holder) >= 0 {
			return ErrDuplicateOrder
		}

		// Collateral goes to escrow first, fills are paid out of it
		if isBid {
			cost, err := mul(amount, price)
			if err != nil {
				return err
			}
			err = self.take(ctx, tx, holder, ledger.AssetBIA, cost)
			if err != nil {
				return err
			}
		} else {
			err = self.take(ctx, tx, holder, self.asset, amount)
			if err != nil {
				return err
			}
		}

		result = &SubmitResult{IsBid: isBid, Slot: -1}
		remaining := amount

		for slot := range opposite.slots {
			if remaining == 0 {
				break
			}

			resting := &opposite.slots[slot]
			if !resting.Active || !opposite.crosses(resting, price) {
				continue
			}

			fill := Fill{RestingSlot: slot, Amount: min(remaining, resting.Amount)}
			var bidPrice uint64
			if isBid {
				fill.Buyer, fill.Seller = holder, resting.Holder
				fill.Price, bidPrice = resting.Price, price
			} else {
				fill.Buyer, fill.Seller = resting.Holder, holder
				fill.Price, bidPrice = price, resting.Price
			}

			err = self.settle(ctx, tx, &fill, bidPrice)
			if err != nil {
				return
			}

			resting.Amount -= fill.Amount
			if resting.Amount == 0 {
				resting.Active = false
			}
			remaining -= fill.Amount
			result.Fills = append(result.Fills, fill)
		}

		result.Remaining = remaining
		if remaining == 0 {
			return nil
		}

		slot, evicted, err := own.insert(Order{
			Holder: holder,
			Price:  price,
			Amount: remaining,
			Active: true,
		})
		if err != nil {
			return
		}
		result.Slot = slot

		if evicted != nil {
			result.Evicted = &Eviction{Slot: slot, Order: *evicted}
			err = self.refund(ctx, tx, isBid, evicted)
			if err != nil {
				return
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	self.log.WithField("holder", holder.Hex()).
		WithField("is_bid", isBid).
		WithField("amount", amount).
		WithField("price", price).
		WithField("filled", result.Filled()).
		WithField("slot", result.Slot).
		Debug("Offer submitted")
	return
}

// Pays one fill out of escrow. The buyer's collateral was taken at the bid price,
// the seller is paid the ask price and the difference stays as surplus.
func (self *Escrow) settle(ctx context.Context, tx ledger.Ledger, fill *Fill, bidPrice uint64) (err error) {
	err = self.pay(ctx, tx, fill.Buyer, self.asset, fill.Amount)
	if err != nil {
		return
	}

	proceeds, err := mul(fill.Amount, fill.Price)
	if err != nil {
		return
	}
	err = self.pay(ctx, tx, fill.Seller, ledger.AssetBIA, proceeds)
	if err != nil {
		return
	}

	fill.Surplus, err = mul(fill.Amount, bidPrice-fill.Price)
	if err != nil {
		return
	}

	if self.config.SurplusToOperator {
		return self.pay(ctx, tx, self.operator, ledger.AssetBIA, fill.Surplus)
	}
	self.surplus += fill.Surplus
	return nil
}

// Returns the collateral still held for an order
func (self *Escrow) refund(ctx context.Context, tx ledger.Ledger, isBid bool, order *Order) error {
	if !isBid {
		return self.pay(ctx, tx, order.Holder, self.asset, order.Amount)
	}

	value, err := mul(order.Amount, order.Price)
	if err != nil {
		return err
	}
	return self.pay(ctx, tx, order.Holder, ledger.AssetBIA, value)
}

// Withdraws the holder's active order on one side and returns its collateral.
// The slot stays used.
func (self *Escrow) CancelOffer(ctx context.Context, holder common.Address, isBid bool) (cancelled Order, err error) {
	err = self.mutate(ctx, func(tx ledger.Ledger) error {
		own, _ := self.sides(isBid)
		slot := own.activeSlot(holder)
		if slot < 0 {
			return ErrNoActiveOrder
		}

		cancelled = own.slots[slot]
		own.slots[slot].Active = false
		own.slots[slot].Amount = 0

		return self.refund(ctx, tx, isBid, &cancelled)
	})
	return
}

// Frees slots of inactive orders on both sides. Active orders keep their relative order.
// Collateral doesn't move, only slots do.
func (self *Escrow) Compact(ctx context.Context) (bids, asks map[int]int, err error) {
	err = self.mutate(ctx, func(tx ledger.Ledger) error {
		bids = self.bids.compact()
		asks = self.asks.compact()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	self.log.WithField("bids", len(bids)).WithField("asks", len(asks)).Info("Book compacted")
	return
}

// Pays out the surplus kept from fills
func (self *Escrow) SweepSurplus(ctx context.Context, to common.Address) (amount uint64, err error) {
	err = self.mutate(ctx, func(tx ledger.Ledger) (err error) {
		amount = self.surplus
		if amount == 0 {
			return ErrNothingToClaim
		}
		err = self.pay(ctx, tx, to, ledger.AssetBIA, amount)
		if err != nil {
			return
		}
		self.surplus = 0
		return nil
	})
	return
}
