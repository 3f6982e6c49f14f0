package gateway

import (
	"net/http"

	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/gateway/response"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
)

func (self *Server) onGetToken(c *gin.Context) {
	tokenId, err := uintParam(c, "id")
	if err != nil {
		self.badRequest(c, err, "Bad token id")
		return
	}

	info, err := self.tokenInfo(tokenId)
	if err != nil {
		self.fail(c, err, "Failed to get token info")
		return
	}

	uri, err := self.gallery.TokenURI(tokenId)
	if err != nil {
		self.fail(c, err, "Failed to get token uri")
		return
	}

	c.JSON(http.StatusOK, &response.Token{TokenInfo: info, URI: uri})
}

func (self *Server) tokenInfo(tokenId uint64) (info gallery.TokenInfo, err error) {
	key := tokenKey(tokenId)

	cached, ok := self.tokens.Get(key)
	if ok {
		self.monitor.GetReport().Gateway.State.CacheHits.Inc()
		return cached.(gallery.TokenInfo), nil
	}
	self.monitor.GetReport().Gateway.State.CacheMisses.Inc()

	info, err = self.gallery.TokenInfo(tokenId)
	if err != nil {
		return
	}

	self.tokens.SetDefault(key, info)
	return
}

func (self *Server) onGetBalance(c *gin.Context) {
	holder, err := parseAddress(c.Param("holder"), ErrBadParameter)
	if err != nil {
		self.badRequest(c, err, "Bad holder")
		return
	}

	asset, err := uintParam(c, "asset")
	if err != nil {
		self.badRequest(c, err, "Bad asset")
		return
	}

	balance, err := self.gallery.BalanceOf(c.Request.Context(), holder, asset)
	if err != nil {
		self.fail(c, err, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, &response.Balance{
		Holder:  holder,
		Asset:   asset,
		Balance: balance,
	})
}

func (self *Server) onGetTokenByMetadata(c *gin.Context) {
	hash, err := hexutil.Decode(c.Param("hash"))
	if err != nil || len(hash) != common.HashLength {
		self.badRequest(c, ErrBadParameter, "Bad metadata hash")
		return
	}

	tokenId, err := self.gallery.TokenByMetadata(common.BytesToHash(hash))
	if err != nil {
		self.fail(c, err, "Failed to find token")
		return
	}

	info, err := self.tokenInfo(tokenId)
	if err != nil {
		self.fail(c, err, "Failed to get token info")
		return
	}

	uri, err := self.gallery.TokenURI(tokenId)
	if err != nil {
		self.fail(c, err, "Failed to get token uri")
		return
	}

	c.JSON(http.StatusOK, &response.Token{TokenInfo: info, URI: uri})
}
