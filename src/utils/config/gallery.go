package config

import (
	"github.com/spf13/viper"
)

type Gallery struct {
	// Address of the gallery. Operator granted custody approval by creators and collectors.
	Address string

	// Operator allowed to approve collections and change genesis metadata
	AdminAddress string

	// Project wallet holding the genesis supply, used to fund new accounts
	WalletAddress string

	// Max BIA a single FundAddress call may move out of the project wallet. 0 is no limit
	MaxFundAmount uint64

	// Prefix of the URI derived from the metadata digest of collection tokens
	MetadataURIPrefix string

	// Size of the channel events are published to
	EventBufferSize int
}

func setGalleryDefaults() {
	viper.SetDefault("Gallery.Address", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	viper.SetDefault("Gallery.AdminAddress", "0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	viper.SetDefault("Gallery.WalletAddress", "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	viper.SetDefault("Gallery.MaxFundAmount", "0")
	viper.SetDefault("Gallery.MetadataURIPrefix", "ipfs://")
	viper.SetDefault("Gallery.EventBufferSize", "1000")
}
