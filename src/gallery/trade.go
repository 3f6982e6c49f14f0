package gallery

import (
	"context"

	"github.com/assetkid/gallery/src/escrow"

	"github.com/ethereum/go-ethereum/common"
)

// Runs f with the collection's escrow while holding the registry read lock
func (self *Gallery) withEscrow(collectionId uint64, f func(e *escrow.Escrow) error) error {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	c, err := self.collection(collectionId)
	if err != nil {
		return err
	}
	return f(c.escrow)
}

type Offer struct {
	Amount uint64 `json:"amount"`
	Price  uint64 `json:"price"`
	IsBid  bool   `json:"is_bid"`
	*escrow.SubmitResult
}

func (self *Gallery) SubmitOffer(ctx context.Context, caller common.Address, collectionId, amount, price uint64, isBid bool) (result *escrow.SubmitResult, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		result, err = e.SubmitOffer(ctx, caller, amount, price, isBid)
		if err != nil {
			return
		}

		self.emit(newEvent(EventOfferSubmitted, collectionId, caller).WithPayload(&Offer{
			Amount:       amount,
			Price:        price,
			IsBid:        isBid,
			SubmitResult: result,
		}))
		return
	})
	return
}

func (self *Gallery) CancelOffer(ctx context.Context, caller common.Address, collectionId uint64, isBid bool) (cancelled escrow.Order, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		cancelled, err = e.CancelOffer(ctx, caller, isBid)
		if err != nil {
			return
		}

		self.emit(newEvent(EventOfferCancelled, collectionId, caller).WithPayload(map[string]interface{}{
			"is_bid": isBid,
			"order":  cancelled,
		}))
		return
	})
	return
}

func (self *Gallery) ArrayInfo(collectionId uint64, slot int, isBid bool) (order escrow.Order, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		order, err = e.ArrayInfo(slot, isBid)
		return
	})
	return
}

func (self *Gallery) Book(collectionId uint64, isBid bool) (orders []escrow.Order, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) error {
		orders = e.Book(isBid)
		return nil
	})
	return
}

func (self *Gallery) ContractStatus(collectionId uint64) (status escrow.ContractStatus, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) error {
		status = e.Status()
		return nil
	})
	return
}
