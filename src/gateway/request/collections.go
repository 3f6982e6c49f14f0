package request

import (
	"github.com/ethereum/go-ethereum/common"
)

type CreateSimpleCollectable struct {
	// Number of tokens of each id, trailing zeros end the list
	Quantities []uint64 `json:"quantities" binding:"required,max=10"`

	// Per-mille share of one token of each id
	Percentages []uint64 `json:"percentages" binding:"required,max=10"`

	// Content digests, one per token id
	Metadata []common.Hash `json:"metadata" binding:"max=10"`
}

type CreateTierCollectable struct {
	// Per-mille share of one base token
	Base uint64 `json:"base"`

	// Per-mille share of one token of every following tier
	Tiers []uint64 `json:"tiers" binding:"max=10"`

	Metadata []common.Hash `json:"metadata" binding:"max=11"`
}

type Exchange struct {
	SubmitId   uint64 `json:"submit_id"`
	Amount     uint64 `json:"amount"`
	ExchangeId uint64 `json:"exchange_id"`
}
