package gallery

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/assetkid/gallery/src/ledger"

	"github.com/ethereum/go-ethereum/common"
)

// Max number of quantity/percentage pairs of a simple collectable and of subsequent tiers
const MaxTiers = 10

type SimpleCollectable struct {
	CollectionId uint64   `json:"collection_id"`
	TokenIds     []uint64 `json:"token_ids"`
	Share        uint64   `json:"share"`
}

// Mints one token per (quantity, percentage) pair to the creator.
// Unused pairs are zero and trail the used ones. The collection may not exceed the whole.
func (self *Gallery) CreateSimpleCollectable(ctx context.Context, creator common.Address, quantities, percentages [MaxTiers]uint64, metadata []common.Hash) (result *SimpleCollectable, err error) {
	var (
		share  uint64
		shares []uint64
		counts []uint64
	)
	done := false
	for i := 0; i < MaxTiers; i++ {
		q, p := quantities[i], percentages[i]
		if q == 0 && p == 0 {
			done = true
			continue
		}
		if done {
			return nil, fmt.Errorf("%w: gap before pair %d", ErrInvalidCollectable, i)
		}
		if q == 0 || p == 0 {
			return nil, fmt.Errorf("%w: pair %d has a zero quantity or percentage", ErrInvalidCollectable, i)
		}

		hi, lo := bits.Mul64(q, p)
		share += lo
		if hi != 0 || share < lo || share > Whole {
			return nil, ErrTierPercentageOverflow
		}
		shares = append(shares, p)
		counts = append(counts, q)
	}
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no tokens", ErrInvalidCollectable)
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()

	err = self.checkMetadata(metadata, len(shares))
	if err != nil {
		return
	}

	id := self.registry.next
	err = self.ledger.Atomic(ctx, func(tx ledger.Ledger) error {
		for i, q := range counts {
			err := tx.Mint(ctx, creator, id+uint64(i), q)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return
	}

	c := &collection{
		id:      id,
		kind:    CollectionSimple,
		creator: creator,
		share:   share,
		escrow:  self.newEscrow(id, creator),
	}
	self.registry.add(c, shares, metadata)

	result = &SimpleCollectable{
		CollectionId: id,
		TokenIds:     c.tokens,
		Share:        share,
	}

	self.log.WithField("collection_id", id).WithField("creator", creator.Hex()).Info("Simple collectable created")
	self.emit(newEvent(EventSimpleCollectableCreated, id, creator).
		WithTokenIds(c.tokens).
		WithPayload(result))
	return
}

type TierCollectable struct {
	CollectionId uint64         `json:"collection_id"`
	TokenIds     []uint64       `json:"token_ids"`
	Assembler    common.Address `json:"assembler"`
	Escrow       common.Address `json:"escrow"`
}

// Validates the tier structure and returns all percentages, base first.
// Every percentage divides the whole and is a multiple of the one before it.
func tiers(base uint64, subsequent [MaxTiers]uint64) ([]uint64, error) {
	if base == 0 || base > Whole || Whole%base != 0 {
		return nil, fmt.Errorf("%w: base %d does not divide %d", ErrInvalidTier, base, Whole)
	}

	out := []uint64{base}
	done := false
	for _, d := range subsequent {
		if d == 0 {
			done = true
			continue
		}
		if done {
			return nil, fmt.Errorf("%w: gap between tiers", ErrInvalidTier)
		}

		prev := out[len(out)-1]
		if d > Whole || Whole%d != 0 {
			return nil, fmt.Errorf("%w: tier %d does not divide %d", ErrInvalidTier, d, Whole)
		}
		if d <= prev || d%prev != 0 {
			return nil, fmt.Errorf("%w: tier %d is not a multiple of %d", ErrInvalidTier, d, prev)
		}
		out = append(out, d)
	}
	return out, nil
}

// Mints a tiered collection. The creator gets the whole in base tier units, the assembler gets
// the whole in units of every subsequent tier so holders can exchange between tiers.
func (self *Gallery) CreateTierCollectable(ctx context.Context, creator common.Address, base uint64, subsequent [MaxTiers]uint64, metadata []common.Hash) (result *TierCollectable, err error) {
	percentages, err := tiers(base, subsequent)
	if err != nil {
		return
	}

	self.mtx.Lock()
	defer self.mtx.Unlock()

	err = self.checkMetadata(metadata, len(percentages))
	if err != nil {
		return
	}

	id := self.registry.next
	nonce := self.nonce
	assembler := self.deriveAddress()

	err = self.ledger.Atomic(ctx, func(tx ledger.Ledger) error {
		for i, p := range percentages {
			to := assembler
			if i == 0 {
				to = creator
			}
			err := tx.Mint(ctx, to, id+uint64(i), Whole/p)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		self.nonce = nonce
		return
	}

	c := &collection{
		id:        id,
		kind:      CollectionTier,
		creator:   creator,
		share:     Whole,
		assembler: assembler,
		escrow:    self.newEscrow(id, creator),
	}
	self.registry.add(c, percentages, metadata)

	result = &TierCollectable{
		CollectionId: id,
		TokenIds:     c.tokens,
		Assembler:    assembler,
		Escrow:       c.escrowAddress(),
	}

	self.log.WithField("collection_id", id).WithField("creator", creator.Hex()).WithField("tiers", len(percentages)).Info("Tier collectable created")
	self.emit(newEvent(EventTierCollectableCreated, id, creator).
		WithTokenIds(c.tokens).
		WithPayload(result))
	return
}

// Metadata digests are optional, a non-zero digest may be used by one token only
func (self *Gallery) checkMetadata(metadata []common.Hash, tokens int) error {
	if len(metadata) > tokens {
		return fmt.Errorf("%w: %d metadata digests for %d tokens", ErrInvalidCollectable, len(metadata), tokens)
	}

	seen := make(map[common.Hash]struct{}, len(metadata))
	for _, m := range metadata {
		if m == (common.Hash{}) {
			continue
		}
		_, dup := seen[m]
		_, exists := self.registry.byMetadata[m]
		if dup || exists {
			return fmt.Errorf("%w: metadata %s already used", ErrInvalidCollectable, m.Hex())
		}
		seen[m] = struct{}{}
	}
	return nil
}
