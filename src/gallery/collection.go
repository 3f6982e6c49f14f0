package gallery

import (
	"github.com/assetkid/gallery/src/escrow"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Per-mille share of the whole work
const Whole uint64 = 1000

type CollectionType uint8

const (
	CollectionSimple CollectionType = 1
	CollectionTier   CollectionType = 2
	CollectionBIA    CollectionType = 4
	CollectionFFT    CollectionType = 5
)

func (self CollectionType) String() string {
	switch self {
	case CollectionSimple:
		return "simple"
	case CollectionTier:
		return "tier"
	case CollectionBIA:
		return "bia"
	case CollectionFFT:
		return "fft"
	}
	return "unknown"
}

type TokenInfo struct {
	TokenId        uint64         `json:"token_id"`
	CollectionId   uint64         `json:"collection_id"`
	Percentage     uint64         `json:"percentage"`
	Escrow         common.Address `json:"escrow"`
	Assembler      common.Address `json:"assembler"`
	CollectionType CollectionType `json:"collection_type"`
	Creator        common.Address `json:"creator"`
	MetadataId     common.Hash    `json:"metadata_id"`
	Approved       bool           `json:"approved"`
}

type token struct {
	id         uint64
	percentage uint64
	metadata   common.Hash
	collection *collection
}

type collection struct {
	id      uint64
	kind    CollectionType
	creator common.Address

	// Token ids in creation order, the first one is the collection id
	tokens []uint64

	// Sum of quantity*percentage over all tokens held outside the assembler
	share uint64

	assembler common.Address

	// Nil for genesis assets
	escrow *escrow.Escrow
}

func (self *collection) approved() bool {
	if self.escrow == nil {
		return true
	}
	return self.escrow.IsApproved()
}

func (self *collection) escrowAddress() common.Address {
	if self.escrow == nil {
		return common.Address{}
	}
	return self.escrow.Address()
}

// Tokens and collections known to the gallery. Guarded by the gallery's lock.
type registry struct {
	tokens      map[uint64]*token
	collections map[uint64]*collection
	byMetadata  map[common.Hash]uint64

	// Next token id to assign
	next uint64
}

func newRegistry(first uint64) *registry {
	return &registry{
		tokens:      make(map[uint64]*token),
		collections: make(map[uint64]*collection),
		byMetadata:  make(map[common.Hash]uint64),
		next:        first,
	}
}

func (self *registry) add(c *collection, percentages []uint64, metadata []common.Hash) {
	for i, p := range percentages {
		t := &token{
			id:         c.id + uint64(i),
			percentage: p,
			collection: c,
		}
		if i < len(metadata) {
			t.metadata = metadata[i]
		}
		if t.metadata != (common.Hash{}) {
			self.byMetadata[t.metadata] = t.id
		}
		self.tokens[t.id] = t
		c.tokens = append(c.tokens, t.id)
	}
	self.collections[c.id] = c
	if self.next < c.id+uint64(len(percentages)) {
		self.next = c.id + uint64(len(percentages))
	}
}

func (self *registry) remove(c *collection) {
	for _, id := range c.tokens {
		t := self.tokens[id]
		if t.metadata != (common.Hash{}) && self.byMetadata[t.metadata] == id {
			delete(self.byMetadata, t.metadata)
		}
		delete(self.tokens, id)
	}
	delete(self.collections, c.id)
}

func (self *registry) info(id uint64) (TokenInfo, error) {
	t, ok := self.tokens[id]
	if !ok {
		return TokenInfo{}, ErrUnknownToken
	}
	c := t.collection
	return TokenInfo{
		TokenId:        t.id,
		CollectionId:   c.id,
		Percentage:     t.percentage,
		Escrow:         c.escrowAddress(),
		Assembler:      c.assembler,
		CollectionType: c.kind,
		Creator:        c.creator,
		MetadataId:     t.metadata,
		Approved:       c.approved(),
	}, nil
}

// Collection ids sorted ascending
func (self *registry) collectionIds() []uint64 {
	ids := maps.Keys(self.collections)
	slices.Sort(ids)
	return ids
}
