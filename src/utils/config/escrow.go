package config

import (
	"github.com/spf13/viper"
)

type Escrow struct {
	// Number of slots on each side of the book
	BookCapacity int

	// Pay the bid/ask price difference to the gallery on every fill instead of keeping it in escrow
	SurplusToOperator bool
}

func setEscrowDefaults() {
	viper.SetDefault("Escrow.BookCapacity", "50")
	viper.SetDefault("Escrow.SurplusToOperator", "false")
}
