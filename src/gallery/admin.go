package gallery

import (
	"context"

	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/ledger"

	"github.com/ethereum/go-ethereum/common"
)

// Opens the collection for trading and settles an open campaign
func (self *Gallery) ApproveCollection(ctx context.Context, caller common.Address, collectionId uint64) (result escrow.ApproveResult, err error) {
	err = self.checkAdmin(caller)
	if err != nil {
		return
	}

	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		result, err = e.Approve(ctx)
		if err != nil {
			return
		}

		self.emit(newEvent(EventCollectionApproved, collectionId, caller).WithPayload(result))
		return
	})
	return
}

func (self *Gallery) SetBiaMetadata(caller common.Address, uri string) error {
	return self.setMetadata(caller, ledger.AssetBIA, uri)
}

func (self *Gallery) SetFftMetadata(caller common.Address, uri string) error {
	return self.setMetadata(caller, ledger.AssetFFT, uri)
}

func (self *Gallery) setMetadata(caller common.Address, asset uint64, uri string) error {
	err := self.checkAdmin(caller)
	if err != nil {
		return err
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()

	if asset == ledger.AssetBIA {
		self.biaURI = uri
	} else {
		self.fftURI = uri
	}

	self.log.WithField("asset", asset).WithField("uri", uri).Info("Genesis metadata updated")
	self.emit(newEvent(EventMetadataUpdated, asset, caller).
		WithTokenIds([]uint64{asset}).
		WithPayload(map[string]string{"uri": uri}))
	return nil
}

type Compaction struct {
	// Old slot to new slot of every active order
	Bids map[int]int `json:"bids"`
	Asks map[int]int `json:"asks"`
}

func (self *Gallery) CompactBook(ctx context.Context, caller common.Address, collectionId uint64) (result *Compaction, err error) {
	err = self.checkAdmin(caller)
	if err != nil {
		return
	}

	err = self.withEscrow(collectionId, func(e *escrow.Escrow) error {
		bids, asks, err := e.Compact(ctx)
		if err != nil {
			return err
		}
		result = &Compaction{Bids: bids, Asks: asks}

		self.emit(newEvent(EventBookCompacted, collectionId, caller).WithPayload(result))
		return nil
	})
	return
}

// Moves the surplus kept from fills to the given address
func (self *Gallery) SweepSurplus(ctx context.Context, caller common.Address, collectionId uint64, to common.Address) (amount uint64, err error) {
	err = self.checkAdmin(caller)
	if err != nil {
		return
	}

	err = self.withEscrow(collectionId, func(e *escrow.Escrow) (err error) {
		amount, err = e.SweepSurplus(ctx, to)
		if err != nil {
			return
		}

		self.emit(newEvent(EventSurplusSwept, collectionId, caller).WithPayload(map[string]interface{}{
			"to":     to,
			"amount": amount,
		}))
		return
	})
	return
}
