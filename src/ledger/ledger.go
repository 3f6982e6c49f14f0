package ledger

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

// Reserved asset ids. Collection tokens are numbered from FirstCollectionAsset.
const (
	AssetBIA             uint64 = 0
	AssetFFT             uint64 = 1
	FirstCollectionAsset uint64 = 2
)

var (
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientApproval = errors.New("insufficient approval")
	ErrAmountOverflow       = errors.New("amount overflow")
)

type Holding struct {
	Holder common.Address `json:"holder"`
	Amount uint64         `json:"amount"`
}

// Ledger moves the payment asset and collection tokens between holders.
//
// Operator is the account performing a transfer on behalf of the owner. It must be the owner
// itself or an operator the owner approved with SetApprovalForAll.
type Ledger interface {
	BalanceOf(ctx context.Context, holder common.Address, asset uint64) (uint64, error)
	Holders(ctx context.Context, asset uint64) ([]Holding, error)

	// Ids of the assets somebody holds, ascending
	Assets(ctx context.Context) ([]uint64, error)

	IsApprovedForAll(ctx context.Context, owner, operator common.Address) (bool, error)
	SetApprovalForAll(ctx context.Context, owner, operator common.Address, approved bool) error

	Transfer(ctx context.Context, operator, from, to common.Address, asset uint64, amount uint64) error
	Mint(ctx context.Context, to common.Address, asset uint64, amount uint64) error
	Burn(ctx context.Context, from common.Address, asset uint64, amount uint64) error

	// Runs f so that either all of its changes are applied or none is.
	// Calls may be nested, an inner failure only discards the inner changes.
	Atomic(ctx context.Context, f func(tx Ledger) error) error
}

func add(a, b uint64) (uint64, error) {
	c := a + b
	if c < a {
		return 0, ErrAmountOverflow
	}
	return c, nil
}
