package config

import (
	"github.com/spf13/viper"
)

// Genesis supply minted to the project wallet when the gallery starts
type Genesis struct {
	BiaSupply uint64
	FftSupply uint64
}

func setGenesisDefaults() {
	viper.SetDefault("Genesis.BiaSupply", "1000000000")
	viper.SetDefault("Genesis.FftSupply", "50")
}
