package gallery

import (
	"github.com/ethereum/go-ethereum/common"
)

func (self *Gallery) TokenInfo(tokenId uint64) (TokenInfo, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()
	return self.registry.info(tokenId)
}

// Creator of the collection the token belongs to
func (self *Gallery) CollectionOwner(tokenId uint64) (common.Address, error) {
	info, err := self.TokenInfo(tokenId)
	if err != nil {
		return common.Address{}, err
	}
	return info.Creator, nil
}

func (self *Gallery) MetadataId(tokenId uint64) (common.Hash, error) {
	info, err := self.TokenInfo(tokenId)
	if err != nil {
		return common.Hash{}, err
	}
	return info.MetadataId, nil
}

func (self *Gallery) TokenByMetadata(metadata common.Hash) (uint64, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	id, ok := self.registry.byMetadata[metadata]
	if !ok {
		return 0, ErrUnknownToken
	}
	return id, nil
}

// Number of tradable collections not approved yet
func (self *Gallery) UnapprovedCount() (count int) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	for _, c := range self.registry.collections {
		if !c.approved() {
			count++
		}
	}
	return
}

type CollectionInfo struct {
	CollectionId   uint64         `json:"collection_id"`
	CollectionType CollectionType `json:"collection_type"`
	Creator        common.Address `json:"creator"`
	TokenIds       []uint64       `json:"token_ids"`
	Share          uint64         `json:"share"`
	Escrow         common.Address `json:"escrow"`
	Assembler      common.Address `json:"assembler"`
	Approved       bool           `json:"approved"`
}

// All collections, genesis assets included, ordered by id
func (self *Gallery) Collections() (out []CollectionInfo) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	for _, id := range self.registry.collectionIds() {
		c := self.registry.collections[id]
		out = append(out, CollectionInfo{
			CollectionId:   c.id,
			CollectionType: c.kind,
			Creator:        c.creator,
			TokenIds:       append([]uint64(nil), c.tokens...),
			Share:          c.share,
			Escrow:         c.escrowAddress(),
			Assembler:      c.assembler,
			Approved:       c.approved(),
		})
	}
	return
}
