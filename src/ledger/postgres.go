package ledger

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/assetkid/gallery/src/utils/model"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger kept in the balances and approvals tables.
// Outside of Atomic every call runs in its own database transaction.
type Postgres struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *Postgres {
	return &Postgres{db: db}
}

func toInt64(v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, ErrAmountOverflow
	}
	return int64(v), nil
}

func (self *Postgres) BalanceOf(ctx context.Context, holder common.Address, asset uint64) (uint64, error) {
	var balance model.Balance
	err := self.db.WithContext(ctx).
		Where("holder = ? AND asset = ?", holder.Hex(), int64(asset)).
		Limit(1).
		Find(&balance).
		Error
	if err != nil {
		return 0, err
	}
	return uint64(balance.Amount), nil
}

func (self *Postgres) Holders(ctx context.Context, asset uint64) (out []Holding, err error) {
	var balances []model.Balance
	err = self.db.WithContext(ctx).
		Where("asset = ? AND amount > 0", int64(asset)).
		Order("holder ASC").
		Find(&balances).
		Error
	if err != nil {
		return
	}

	out = make([]Holding, 0, len(balances))
	for _, b := range balances {
		out = append(out, Holding{Holder: common.HexToAddress(b.Holder), Amount: uint64(b.Amount)})
	}
	return
}

func (self *Postgres) Assets(ctx context.Context) (out []uint64, err error) {
	var assets []int64
	err = self.db.WithContext(ctx).
		Model(&model.Balance{}).
		Where("amount > 0").
		Distinct("asset").
		Order("asset ASC").
		Pluck("asset", &assets).
		Error
	if err != nil {
		return
	}

	out = make([]uint64, 0, len(assets))
	for _, a := range assets {
		out = append(out, uint64(a))
	}
	return
}

func (self *Postgres) IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error) {
	var approval model.Approval
	err := self.db.WithContext(ctx).
		Where("owner = ? AND operator = ?", owner.Hex(), operator.Hex()).
		Limit(1).
		Find(&approval).
		Error
	if err != nil {
		return false, err
	}
	return approval.Approved, nil
}

func (self *Postgres) SetApprovalForAll(ctx context.Context, owner, operator common.Address, approved bool) error {
	return self.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner"}, {Name: "operator"}},
			DoUpdates: clause.AssignmentColumns([]string{"approved", "updated_at"}),
		}).
		Create(&model.Approval{
			Owner:     owner.Hex(),
			Operator:  operator.Hex(),
			Approved:  approved,
			UpdatedAt: time.Now(),
		}).
		Error
}

func (self *Postgres) Transfer(ctx context.Context, operator, from, to common.Address, asset uint64, amount uint64) error {
	return self.Atomic(ctx, func(tx Ledger) error {
		return tx.(*Postgres).transfer(ctx, operator, from, to, asset, amount)
	})
}

func (self *Postgres) Mint(ctx context.Context, to common.Address, asset uint64, amount uint64) error {
	return self.Atomic(ctx, func(tx Ledger) error {
		return tx.(*Postgres).credit(ctx, to, asset, amount)
	})
}

func (self *Postgres) Burn(ctx context.Context, from common.Address, asset uint64, amount uint64) error {
	return self.Atomic(ctx, func(tx Ledger) error {
		return tx.(*Postgres).debit(ctx, from, asset, amount)
	})
}

// Nested calls become savepoints
func (self *Postgres) Atomic(ctx context.Context, f func(tx Ledger) error) error {
	return self.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&Postgres{db: tx})
	})
}

func (self *Postgres) transfer(ctx context.Context, operator, from, to common.Address, asset uint64, amount uint64) (err error) {
	if operator != from {
		approved, err := self.IsApprovedForAll(ctx, from, operator)
		if err != nil {
			return err
		}
		if !approved {
			return ErrInsufficientApproval
		}
	}
	if amount == 0 || from == to {
		// Still fails on insufficient balance
		balance, err := self.lock(ctx, from, asset)
		if err != nil {
			return err
		}
		if uint64(balance.Amount) < amount {
			return ErrInsufficientBalance
		}
		return nil
	}

	// Lock rows in a fixed order, concurrent transfers in opposite directions would deadlock otherwise
	first, second := from, to
	if first.Cmp(second) > 0 {
		first, second = second, first
	}
	_, err = self.lock(ctx, first, asset)
	if err != nil {
		return
	}
	_, err = self.lock(ctx, second, asset)
	if err != nil {
		return
	}

	err = self.debit(ctx, from, asset, amount)
	if err != nil {
		return
	}
	return self.credit(ctx, to, asset, amount)
}

// Selects the balance row for update, creating an empty one if needed
func (self *Postgres) lock(ctx context.Context, holder common.Address, asset uint64) (balance model.Balance, err error) {
	err = self.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Balance{Holder: holder.Hex(), Asset: int64(asset), UpdatedAt: time.Now()}).
		Error
	if err != nil {
		return
	}

	err = self.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("holder = ? AND asset = ?", holder.Hex(), int64(asset)).
		First(&balance).
		Error
	return
}

func (self *Postgres) credit(ctx context.Context, holder common.Address, asset uint64, amount uint64) (err error) {
	delta, err := toInt64(amount)
	if err != nil {
		return
	}

	balance, err := self.lock(ctx, holder, asset)
	if err != nil {
		return
	}
	if balance.Amount > math.MaxInt64-delta {
		return ErrAmountOverflow
	}

	return self.db.WithContext(ctx).
		Model(&model.Balance{}).
		Where("holder = ? AND asset = ?", holder.Hex(), int64(asset)).
		Updates(map[string]interface{}{
			"amount":     gorm.Expr("amount + ?", delta),
			"updated_at": time.Now(),
		}).
		Error
}

func (self *Postgres) debit(ctx context.Context, holder common.Address, asset uint64, amount uint64) (err error) {
	delta, err := toInt64(amount)
	if err != nil {
		return ErrInsufficientBalance
	}

	balance, err := self.lock(ctx, holder, asset)
	if err != nil {
		return
	}
	if balance.Amount < delta {
		return ErrInsufficientBalance
	}

	err = self.db.WithContext(ctx).
		Model(&model.Balance{}).
		Where("holder = ? AND asset = ?", holder.Hex(), int64(asset)).
		Updates(map[string]interface{}{
			"amount":     gorm.Expr("amount - ?", delta),
			"updated_at": time.Now(),
		}).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInsufficientBalance
	}
	return
}
