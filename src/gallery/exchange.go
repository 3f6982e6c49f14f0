package gallery

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/ledger"

	"github.com/ethereum/go-ethereum/common"
)

type Exchange struct {
	CollectionId uint64 `json:"collection_id"`
	SubmitId     uint64 `json:"submit_id"`
	Submitted    uint64 `json:"submitted"`
	ExchangeId   uint64 `json:"exchange_id"`
	Received     uint64 `json:"received"`
}

// Converts amount units of one tier into units of another tier of the same collection.
// The share must convert without remainder. The assembler takes the submitted units and
// pays out the exchanged ones.
func (self *Gallery) ExchangeTierToken(ctx context.Context, caller common.Address, collectionId, submitId, amount, exchangeId uint64) (result *Exchange, err error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	c, err := self.collection(collectionId)
	if err != nil {
		return
	}
	if c.kind != CollectionTier {
		return nil, fmt.Errorf("%w: collection %d has no tiers", ErrInvalidTier, collectionId)
	}
	if !c.approved() {
		return nil, escrow.ErrCollectionNotApproved
	}

	submit, ok := self.registry.tokens[submitId]
	if !ok || submit.collection != c {
		return nil, fmt.Errorf("%w: %d", ErrUnknownToken, submitId)
	}
	target, ok := self.registry.tokens[exchangeId]
	if !ok || target.collection != c {
		return nil, fmt.Errorf("%w: %d", ErrUnknownToken, exchangeId)
	}
	if amount == 0 || submitId == exchangeId {
		return nil, ErrInexactExchange
	}

	hi, value := bits.Mul64(amount, submit.percentage)
	if hi != 0 {
		return nil, ledger.ErrAmountOverflow
	}
	if value%target.percentage != 0 {
		return nil, fmt.Errorf("%w: %d x %d per-mille into %d per-mille", ErrInexactExchange, amount, submit.percentage, target.percentage)
	}

	result = &Exchange{
		CollectionId: collectionId,
		SubmitId:     submitId,
		Submitted:    amount,
		ExchangeId:   exchangeId,
		Received:     value / target.percentage,
	}

	err = self.ledger.Atomic(ctx, func(tx ledger.Ledger) error {
		err := tx.Transfer(ctx, self.address, caller, c.assembler, submitId, result.Submitted)
		if err != nil {
			return err
		}
		return tx.Transfer(ctx, c.assembler, c.assembler, caller, exchangeId, result.Received)
	})
	if err != nil {
		return nil, err
	}

	self.emit(newEvent(EventTierExchange, collectionId, caller).
		WithTokenIds([]uint64{submitId, exchangeId}).
		WithPayload(result))
	return
}
