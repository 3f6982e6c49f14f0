package gallery

import (
	"context"
	"fmt"
	"sync"

	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/ledger"
	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

// Gallery mints collections, routes calls to their escrows and runs admin actions.
//
// The registry is guarded by mtx. Operations on one collection hold the read lock for their
// whole duration and serialize on the collection's escrow, so independent collections
// proceed concurrently. Creating and burning collections take the write lock.
type Gallery struct {
	mtx sync.RWMutex
	log *logrus.Entry

	config *config.Config
	ledger ledger.Ledger

	address common.Address
	admin   common.Address
	wallet  common.Address

	registry *registry

	// Nonce used to derive escrow and assembler addresses
	nonce uint64

	biaURI string
	fftURI string

	sinks []EventSink
}

func New(config *config.Config, l ledger.Ledger) (self *Gallery) {
	self = new(Gallery)
	self.config = config
	self.ledger = l
	self.log = logger.NewSublogger("gallery")

	self.address = common.HexToAddress(config.Gallery.Address)
	self.admin = common.HexToAddress(config.Gallery.AdminAddress)
	self.wallet = common.HexToAddress(config.Gallery.WalletAddress)

	self.registry = newRegistry(ledger.FirstCollectionAsset)
	self.nonce = 1
	return
}

// Sinks are registered before the gallery is used
func (self *Gallery) WithEventSink(sink EventSink) *Gallery {
	self.sinks = append(self.sinks, sink)
	return self
}

// Registers the genesis assets and mints their supply to the project wallet.
// Supply is minted only when nobody holds the asset yet, so a durable ledger is not minted twice.
//
// Collections and their books live in memory. A ledger still holding tokens of collections
// this gallery doesn't know would have their ids and escrow addresses handed out again,
// so Genesis fails with ErrStateNotRestorable instead.
func (self *Gallery) Genesis(ctx context.Context) (err error) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	err = self.ledger.Atomic(ctx, func(tx ledger.Ledger) error {
		assets, err := tx.Assets(ctx)
		if err != nil {
			return err
		}
		for _, asset := range assets {
			if asset < ledger.FirstCollectionAsset {
				continue
			}
			if _, ok := self.registry.tokens[asset]; !ok {
				return fmt.Errorf("%w: token %d is held", ErrStateNotRestorable, asset)
			}
		}

		for _, g := range []struct {
			asset  uint64
			supply uint64
		}{
			{ledger.AssetBIA, self.config.Genesis.BiaSupply},
			{ledger.AssetFFT, self.config.Genesis.FftSupply},
		} {
			holders, err := tx.Holders(ctx, g.asset)
			if err != nil {
				return err
			}
			if len(holders) > 0 || g.supply == 0 {
				continue
			}
			err = tx.Mint(ctx, self.wallet, g.asset, g.supply)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return
	}

	self.registry.add(&collection{
		id:      ledger.AssetBIA,
		kind:    CollectionBIA,
		creator: self.address,
		share:   Whole,
	}, []uint64{Whole}, nil)

	self.registry.add(&collection{
		id:      ledger.AssetFFT,
		kind:    CollectionFFT,
		creator: self.address,
		share:   Whole,
	}, []uint64{Whole}, nil)

	self.log.WithField("wallet", self.wallet.Hex()).Info("Genesis assets registered")
	return nil
}

func (self *Gallery) Address() common.Address {
	return self.address
}

func (self *Gallery) Admin() common.Address {
	return self.admin
}

func (self *Gallery) Wallet() common.Address {
	return self.wallet
}

func (self *Gallery) Ledger() ledger.Ledger {
	return self.ledger
}

// Next contract-like address owned by the gallery. Needs the write lock.
func (self *Gallery) deriveAddress() common.Address {
	addr := crypto.CreateAddress(self.address, self.nonce)
	self.nonce++
	return addr
}

func (self *Gallery) newEscrow(collectionId uint64, creator common.Address) *escrow.Escrow {
	return escrow.New(self.config.Escrow, self.ledger, escrow.Params{
		CollectionId: collectionId,
		Asset:        collectionId,
		Address:      self.deriveAddress(),
		Operator:     self.address,
		Creator:      creator,
	})
}

func (self *Gallery) emit(event *Event) {
	for _, sink := range self.sinks {
		sink.OnEvent(event)
	}
}

// Looks up a tradable collection. Needs at least the read lock.
func (self *Gallery) collection(collectionId uint64) (*collection, error) {
	c, ok := self.registry.collections[collectionId]
	if !ok || c.escrow == nil {
		return nil, ErrUnknownCollection
	}
	return c, nil
}

func (self *Gallery) checkAdmin(caller common.Address) error {
	if caller != self.admin {
		return ErrNotAdmin
	}
	return nil
}
