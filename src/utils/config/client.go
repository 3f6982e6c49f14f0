package config

import (
	"time"

	"github.com/spf13/viper"
)

// HTTP client of the gateway, used by the CLI
type Client struct {
	GatewayURL string
	Timeout    time.Duration

	// Used when --from isn't given
	Caller string
}

func setClientDefaults() {
	viper.SetDefault("Client.GatewayURL", "http://localhost:4000")
	viper.SetDefault("Client.Timeout", "10s")
}
