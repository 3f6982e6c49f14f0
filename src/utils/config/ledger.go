package config

import (
	"github.com/spf13/viper"
)

const (
	LedgerBackendMemory   = "memory"
	LedgerBackendPostgres = "postgres"
)

type Ledger struct {
	// Where balances are kept: memory or postgres
	Backend string
}

func setLedgerDefaults() {
	viper.SetDefault("Ledger.Backend", LedgerBackendMemory)
}

func (self *Ledger) IsPostgres() bool {
	return self.Backend == LedgerBackendPostgres
}
