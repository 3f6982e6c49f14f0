package config

import (
	"time"

	"github.com/spf13/viper"
)

type Gateway struct {
	// REST API address
	RESTListenAddress string

	// Max time a request may take
	ServerRequestTimeout time.Duration

	// Requests per second allowed from one client address, 0 disables limiting
	RateLimit float64
	RateBurst int

	// Token info cache
	CacheExpiration      time.Duration
	CacheCleanupInterval time.Duration
}

func setGatewayDefaults() {
	viper.SetDefault("Gateway.RESTListenAddress", "0.0.0.0:4000")
	viper.SetDefault("Gateway.ServerRequestTimeout", "30s")
	viper.SetDefault("Gateway.RateLimit", "50")
	viper.SetDefault("Gateway.RateBurst", "100")
	viper.SetDefault("Gateway.CacheExpiration", "10m")
	viper.SetDefault("Gateway.CacheCleanupInterval", "15m")
}
