package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

type balanceKey struct {
	holder common.Address
	asset  uint64
}

type approvalKey struct {
	owner    common.Address
	operator common.Address
}

// Read access shared by the in-memory ledger and its transactions
type view interface {
	balance(k balanceKey) uint64
	approved(k approvalKey) bool
	holders(asset uint64) map[common.Address]struct{}
	assets() map[uint64]struct{}
}

// In-process ledger. All writes go through overlays committed under the write lock.
type Memory struct {
	mtx       sync.RWMutex
	balances  map[balanceKey]uint64
	approvals map[approvalKey]bool
}

func NewMemory() (self *Memory) {
	self = new(Memory)
	self.balances = make(map[balanceKey]uint64)
	self.approvals = make(map[approvalKey]bool)
	return
}

func (self *Memory) balance(k balanceKey) uint64 {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return self.balances[k]
}

func (self *Memory) approved(k approvalKey) bool {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return self.approvals[k]
}

func (self *Memory) holders(asset uint64) map[common.Address]struct{} {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	out := make(map[common.Address]struct{})
	for k, v := range self.balances {
		if k.asset == asset && v > 0 {
			out[k.holder] = struct{}{}
		}
	}
	return out
}

func (self *Memory) assets() map[uint64]struct{} {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	out := make(map[uint64]struct{})
	for k, v := range self.balances {
		if v > 0 {
			out[k.asset] = struct{}{}
		}
	}
	return out
}

func (self *Memory) BalanceOf(ctx context.Context, holder common.Address, asset uint64) (uint64, error) {
	return self.balance(balanceKey{holder, asset}), nil
}

func (self *Memory) Holders(ctx context.Context, asset uint64) ([]Holding, error) {
	return holdings(self, asset), nil
}

func (self *Memory) Assets(ctx context.Context) ([]uint64, error) {
	return held(self), nil
}

func (self *Memory) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	return self.approved(approvalKey{owner, operator}), nil
}

func (self *Memory) SetApprovalForAll(ctx context.Context, owner, operator common.Address, approved bool) error {
	return self.Atomic(ctx, func(tx Ledger) error {
		return tx.SetApprovalForAll(ctx, owner, operator, approved)
	})
}

func (self *Memory) Transfer(ctx context.Context, operator, from, to common.Address, asset uint64, amount uint64) error {
	return self.Atomic(ctx, func(tx Ledger) error {
		return tx.Transfer(ctx, operator, from, to, asset, amount)
	})
}

func (self *Memory) Mint(ctx context.Context, to common.Address, asset uint64, amount uint64) error {
	return self.Atomic(ctx, func(tx Ledger) error {
		return tx.Mint(ctx, to, asset, amount)
	})
}

func (self *Memory) Burn(ctx context.Context, from common.Address, asset uint64, amount uint64) error {
	return self.Atomic(ctx, func(tx Ledger) error {
		return tx.Burn(ctx, from, asset, amount)
	})
}

func (self *Memory) Atomic(ctx context.Context, f func(tx Ledger) error) (err error) {
	tx := newOverlay(self)
	err = f(tx)
	if err != nil {
		return
	}
	return self.commit(tx)
}

// Applies the overlay. Balances may have changed since the overlay read them,
// so every debit is validated again under the write lock.
func (self *Memory) commit(tx *overlay) error {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	next := make(map[balanceKey]uint64, len(tx.credit)+len(tx.debit))
	for _, k := range tx.touched() {
		sum, err := add(self.balances[k], tx.credit[k])
		if err != nil {
			return err
		}
		if sum < tx.debit[k] {
			return ErrInsufficientBalance
		}
		next[k] = sum - tx.debit[k]
	}

	for k, v := range next {
		if v == 0 {
			delete(self.balances, k)
		} else {
			self.balances[k] = v
		}
	}
	for k, v := range tx.approvals {
		if v {
			self.approvals[k] = true
		} else {
			delete(self.approvals, k)
		}
	}
	return nil
}

func holdings(v view, asset uint64) []Holding {
	out := make([]Holding, 0)
	for holder := range v.holders(asset) {
		amount := v.balance(balanceKey{holder, asset})
		if amount == 0 {
			continue
		}
		out = append(out, Holding{Holder: holder, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Holder.Cmp(out[j].Holder) < 0
	})
	return out
}

func held(v view) []uint64 {
	out := make([]uint64, 0)
	for asset := range v.assets() {
		// Overlay debits may have emptied it
		if len(holdings(v, asset)) == 0 {
			continue
		}
		out = append(out, asset)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
