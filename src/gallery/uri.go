package gallery

import (
	"github.com/assetkid/gallery/src/ledger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// CIDv1 of a dag-pb node whose sha2-256 digest is given
func MetadataCid(digest common.Hash) (cid.Cid, error) {
	mh, err := multihash.Encode(digest.Bytes(), multihash.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.DagProtobuf, mh), nil
}

// URI of the token metadata. Genesis assets use the URI set by the admin,
// collection tokens derive it from their metadata digest. Empty when nothing is set.
func (self *Gallery) TokenURI(tokenId uint64) (string, error) {
	self.mtx.RLock()
	defer self.mtx.RUnlock()

	switch tokenId {
	case ledger.AssetBIA:
		return self.biaURI, nil
	case ledger.AssetFFT:
		return self.fftURI, nil
	}

	t, ok := self.registry.tokens[tokenId]
	if !ok {
		return "", ErrUnknownToken
	}
	if t.metadata == (common.Hash{}) {
		return "", nil
	}

	c, err := MetadataCid(t.metadata)
	if err != nil {
		return "", err
	}
	return self.config.Gallery.MetadataURIPrefix + c.String(), nil
}
