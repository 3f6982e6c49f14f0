package ledger

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Pending changes on top of a parent view. Not safe for concurrent use.
type overlay struct {
	parent    view
	credit    map[balanceKey]uint64
	debit     map[balanceKey]uint64
	approvals map[approvalKey]bool
}

func newOverlay(parent view) *overlay {
	return &overlay{
		parent:    parent,
		credit:    make(map[balanceKey]uint64),
		debit:     make(map[balanceKey]uint64),
		approvals: make(map[approvalKey]bool),
	}
}

func (self *overlay) touched() []balanceKey {
	out := make([]balanceKey, 0, len(self.credit)+len(self.debit))
	for k := range self.credit {
		out = append(out, k)
	}
	for k := range self.debit {
		if _, ok := self.credit[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

func (self *overlay) balance(k balanceKey) uint64 {
	// Debits never exceed what was visible when they were made
	return self.parent.balance(k) + self.credit[k] - self.debit[k]
}

func (self *overlay) approved(k approvalKey) bool {
	v, ok := self.approvals[k]
	if ok {
		return v
	}
	return self.parent.approved(k)
}

func (self *overlay) holders(asset uint64) map[common.Address]struct{} {
	out := self.parent.holders(asset)
	for k := range self.credit {
		if k.asset == asset {
			out[k.holder] = struct{}{}
		}
	}
	return out
}

func (self *overlay) assets() map[uint64]struct{} {
	out := self.parent.assets()
	for k := range self.credit {
		out[k.asset] = struct{}{}
	}
	return out
}

func (self *overlay) BalanceOf(ctx context.Context, holder common.Address, asset uint64) (uint64, error) {
	return self.balance(balanceKey{holder, asset}), nil
}

func (self *overlay) Holders(ctx context.Context, asset uint64) ([]Holding, error) {
	return holdings(self, asset), nil
}

func (self *overlay) Assets(ctx context.Context) ([]uint64, error) {
	return held(self), nil
}

func (self *overlay) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	return self.approved(approvalKey{owner, operator}), nil
}

func (self *overlay) SetApprovalForAll(ctx context.Context, owner, operator common.Address, approved bool) error {
	self.approvals[approvalKey{owner, operator}] = approved
	return nil
}

func (self *overlay) Transfer(ctx context.Context, operator, from, to common.Address, asset uint64, amount uint64) (err error) {
	if operator != from && !self.approved(approvalKey{from, operator}) {
		return ErrInsufficientApproval
	}
	if amount == 0 {
		return nil
	}

	fromKey := balanceKey{from, asset}
	if self.balance(fromKey) < amount {
		return ErrInsufficientBalance
	}
	if from == to {
		return nil
	}

	toKey := balanceKey{to, asset}
	_, err = add(self.balance(toKey), amount)
	if err != nil {
		return
	}

	self.debit[fromKey] += amount
	self.credit[toKey] += amount
	return nil
}

func (self *overlay) Mint(ctx context.Context, to common.Address, asset uint64, amount uint64) (err error) {
	k := balanceKey{to, asset}
	_, err = add(self.balance(k), amount)
	if err != nil {
		return
	}
	self.credit[k] += amount
	return nil
}

func (self *overlay) Burn(ctx context.Context, from common.Address, asset uint64, amount uint64) error {
	k := balanceKey{from, asset}
	if self.balance(k) < amount {
		return ErrInsufficientBalance
	}
	self.debit[k] += amount
	return nil
}

func (self *overlay) Atomic(ctx context.Context, f func(tx Ledger) error) (err error) {
	child := newOverlay(self)
	err = f(child)
	if err != nil {
		return
	}

	// Child changes were validated against this overlay's view
	for k, v := range child.credit {
		self.credit[k] += v
	}
	for k, v := range child.debit {
		self.debit[k] += v
	}
	for k, v := range child.approvals {
		self.approvals[k] = v
	}
	return nil
}
