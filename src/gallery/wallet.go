package gallery

import (
	"context"
	"fmt"

	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/ledger"

	"github.com/ethereum/go-ethereum/common"
)

// Sends BIA from the project wallet. Admin only.
func (self *Gallery) FundAddress(ctx context.Context, caller, to common.Address, amount uint64) (err error) {
	err = self.checkAdmin(caller)
	if err != nil {
		return
	}

	if amount == 0 {
		return escrow.ErrInvalidAmount
	}

	limit := self.config.Gallery.MaxFundAmount
	if limit > 0 && amount > limit {
		return fmt.Errorf("%w: %d > %d", ErrFundLimit, amount, limit)
	}

	err = self.ledger.Transfer(ctx, self.wallet, self.wallet, to, ledger.AssetBIA, amount)
	if err != nil {
		return
	}

	self.emit(newEvent(EventAddressFunded, ledger.AssetBIA, caller).WithPayload(map[string]interface{}{
		"to":     to,
		"amount": amount,
	}))
	return
}

// Grants or revokes the gallery's custody approval over the owner's assets
func (self *Gallery) SetApprovalForAll(ctx context.Context, owner common.Address, approved bool) (err error) {
	err = self.ledger.SetApprovalForAll(ctx, owner, self.address, approved)
	if err != nil {
		return
	}

	self.emit(newEvent(EventApprovalForAll, 0, owner).WithPayload(map[string]interface{}{
		"operator": self.address,
		"approved": approved,
	}))
	return
}

func (self *Gallery) BalanceOf(ctx context.Context, holder common.Address, asset uint64) (uint64, error) {
	return self.ledger.BalanceOf(ctx, holder, asset)
}
