package gallery

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/assetkid/gallery/src/ledger"

	"github.com/ethereum/go-ethereum/common"
)

type Burn struct {
	CollectionId uint64 `json:"collection_id"`

	// Units burned per token, caller and assembler together
	Burned map[uint64]uint64 `json:"burned"`
}

// Destroys a collection held whole by the caller. Only the caller and the assembler may hold
// its tokens and the escrow must not hold anything on behalf of anyone.
func (self *Gallery) BurnCollection(ctx context.Context, caller common.Address, collectionId uint64) (result *Burn, err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	c, err := self.collection(collectionId)
	if err != nil {
		return
	}
	if c.escrow.HoldsCustody() {
		return nil, ErrCustodyOpen
	}

	result = &Burn{
		CollectionId: collectionId,
		Burned:       make(map[uint64]uint64, len(c.tokens)),
	}

	err = self.ledger.Atomic(ctx, func(tx ledger.Ledger) error {
		var held uint64
		for _, id := range c.tokens {
			holders, err := tx.Holders(ctx, id)
			if err != nil {
				return err
			}

			for _, h := range holders {
				switch h.Holder {
				case caller:
					hi, lo := bits.Mul64(h.Amount, self.registry.tokens[id].percentage)
					held += lo
					if hi != 0 || held < lo {
						return ledger.ErrAmountOverflow
					}
				case c.assembler:
				default:
					return fmt.Errorf("%w: %s holds token %d", ErrNotWholeOwner, h.Holder.Hex(), id)
				}

				err = tx.Burn(ctx, h.Holder, id, h.Amount)
				if err != nil {
					return err
				}
				result.Burned[id] += h.Amount
			}
		}

		// The whole work, not just the share the collection was minted with
		if held != Whole {
			return ErrNotWholeOwner
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	self.registry.remove(c)

	self.log.WithField("collection_id", collectionId).WithField("caller", caller.Hex()).Info("Collection burned")
	self.emit(newEvent(EventCollectionBurned, collectionId, caller).
		WithTokenIds(c.tokens).
		WithPayload(result))
	return
}
