package gallery

import (
	"context"

	"github.com/assetkid/gallery/src/escrow"

	"github.com/ethereum/go-ethereum/common"
)

func (self *Gallery) Commercialize(ctx context.Context, caller common.Address, collectionId, amount, price uint64, cancel bool) error {
	return self.withEscrow(collectionId, func(e *escrow.Escrow) error {
		err := e.Commercialize(ctx, caller, amount, price, cancel)
		if err != nil {
			return err
		}

		if cancel {
			self.emit(newEvent(EventCommercializationCanceled, collectionId, caller))
			return nil
		}
		self.emit(newEvent(EventCommercialized, collectionId, caller).WithPayload(map[string]uint64{
			"amount": amount,
			"price":  price,
		}))
		return nil
	})
}

func (self *Gallery) Support(ctx context.Context, caller common.Address, collectionId, amount uint64) (record escrow.SupportRecord, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		record, err = e.Support(ctx, caller, amount)
		if err != nil {
			return
		}

		self.emit(newEvent(EventSupported, collectionId, caller).WithPayload(map[string]interface{}{
			"amount": amount,
			"record": record,
		}))
		return
	})
	return
}

func (self *Gallery) WithdrawSupport(ctx context.Context, caller common.Address, collectionId uint64) (refunded uint64, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		refunded, err = e.WithdrawSupport(ctx, caller)
		if err != nil {
			return
		}

		self.emit(newEvent(EventSupportWithdrawn, collectionId, caller).WithPayload(map[string]uint64{"refunded": refunded}))
		return
	})
	return
}

func (self *Gallery) ClaimSFT(ctx context.Context, caller common.Address, collectionId uint64) (claimed uint64, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		claimed, err = e.ClaimSFT(ctx, caller)
		if err != nil {
			return
		}

		self.emit(newEvent(EventSFTClaimed, collectionId, caller).WithPayload(map[string]uint64{"claimed": claimed}))
		return
	})
	return
}

func (self *Gallery) ClaimBIA(ctx context.Context, caller common.Address, collectionId uint64) (claimed uint64, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		claimed, err = e.ClaimBIA(ctx, caller)
		if err != nil {
			return
		}

		self.emit(newEvent(EventBIAClaimed, collectionId, caller).WithPayload(map[string]uint64{"claimed": claimed}))
		return
	})
	return
}

func (self *Gallery) SupportInfo(collectionId uint64, holder common.Address) (record escrow.SupportRecord, err error) {
	err = self.withEscrow(collectionId, func(e *escrow.Escrow) error {
		record = e.SupportInfo(holder)
		return nil
	})
	return
}
