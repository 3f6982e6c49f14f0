package config

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var ErrInvalidConfig = errors.New("invalid configuration")

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}

// Catches settings that would only fail once the node is running
func (self *Config) Validate() error {
	for name, address := range map[string]string{
		"Gallery.Address":       self.Gallery.Address,
		"Gallery.AdminAddress":  self.Gallery.AdminAddress,
		"Gallery.WalletAddress": self.Gallery.WalletAddress,
	} {
		if !common.IsHexAddress(address) {
			return invalid("%s is not an address: %q", name, address)
		}
	}

	if self.Client.Caller != "" && !common.IsHexAddress(self.Client.Caller) {
		return invalid("Client.Caller is not an address: %q", self.Client.Caller)
	}

	switch self.Ledger.Backend {
	case "", LedgerBackendMemory, LedgerBackendPostgres:
	default:
		return invalid("unknown Ledger.Backend %q", self.Ledger.Backend)
	}

	if self.Escrow.BookCapacity < 1 {
		return invalid("Escrow.BookCapacity must be positive")
	}

	if self.Gateway.RateLimit > 0 && self.Gateway.RateBurst < 1 {
		return invalid("Gateway.RateBurst must be positive when rate limiting is on")
	}

	if self.Journal.StoreEnabled && self.Journal.StoreBatchSize < 1 {
		return invalid("Journal.StoreBatchSize must be positive")
	}

	return nil
}
