package request

import (
	"github.com/ethereum/go-ethereum/common"
)

type SetApproval struct {
	Approved bool `json:"approved"`
}

type Fund struct {
	To     common.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

type Sweep struct {
	To common.Address `json:"to"`
}

type SetMetadata struct {
	Asset string `json:"asset" binding:"required,oneof=bia fft"`
	URI   string `json:"uri" binding:"required"`
}
