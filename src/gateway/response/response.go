package response

import (
	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/gallery"

	"github.com/ethereum/go-ethereum/common"
)

type Token struct {
	gallery.TokenInfo
	URI string `json:"uri"`
}

type Book struct {
	CollectionId uint64         `json:"collection_id"`
	IsBid        bool           `json:"is_bid"`
	Orders       []escrow.Order `json:"orders"`
}

type Balance struct {
	Holder  common.Address `json:"holder"`
	Asset   uint64         `json:"asset"`
	Balance uint64         `json:"balance"`
}

type Support struct {
	CollectionId uint64         `json:"collection_id"`
	Holder       common.Address `json:"holder"`
	escrow.SupportRecord
}

// Units or payment moved by claims and withdrawals
type Amount struct {
	CollectionId uint64 `json:"collection_id"`
	Amount       uint64 `json:"amount"`
}

type Cancelled struct {
	CollectionId uint64       `json:"collection_id"`
	Order        escrow.Order `json:"order"`
}

type Collections struct {
	Collections []gallery.CollectionInfo `json:"collections"`
}

type Ok struct {
	Ok bool `json:"ok"`
}
