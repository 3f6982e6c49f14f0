package gateway

import (
	"math"
	"net/http"

	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/gateway/request"
	"github.com/assetkid/gallery/src/gateway/response"
	"github.com/assetkid/gallery/src/utils/binder"
	. "github.com/assetkid/gallery/src/utils/logger"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// Caller and the collection from the path
func (self *Server) target(c *gin.Context) (from common.Address, collectionId uint64, ok bool) {
	from, err := caller(c)
	if err != nil {
		self.badRequest(c, err, "No caller")
		return
	}

	collectionId, err = uintParam(c, "id")
	if err != nil {
		self.badRequest(c, err, "Bad collection id")
		return
	}

	return from, collectionId, true
}

func (self *Server) onCreateSimple(c *gin.Context) {
	creator, err := caller(c)
	if err != nil {
		self.badRequest(c, err, "No caller")
		return
	}

	var in = new(request.CreateSimpleCollectable)
	err = c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	var quantities, percentages [gallery.MaxTiers]uint64
	copy(quantities[:], in.Quantities)
	copy(percentages[:], in.Percentages)

	result, err := self.gallery.CreateSimpleCollectable(c.Request.Context(), creator, quantities, percentages, in.Metadata)
	if err != nil {
		self.fail(c, err, "Failed to create simple collectable")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (self *Server) onCreateTier(c *gin.Context) {
	creator, err := caller(c)
	if err != nil {
		self.badRequest(c, err, "No caller")
		return
	}

	var in = new(request.CreateTierCollectable)
	err = c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	var subsequent [gallery.MaxTiers]uint64
	copy(subsequent[:], in.Tiers)

	result, err := self.gallery.CreateTierCollectable(c.Request.Context(), creator, in.Base, subsequent, in.Metadata)
	if err != nil {
		self.fail(c, err, "Failed to create tier collectable")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (self *Server) onExchange(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	var in = new(request.Exchange)
	err := c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	result, err := self.gallery.ExchangeTierToken(c.Request.Context(), from, collectionId, in.SubmitId, in.Amount, in.ExchangeId)
	if err != nil {
		self.fail(c, err, "Failed to exchange tier tokens")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (self *Server) onBurn(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	result, err := self.gallery.BurnCollection(c.Request.Context(), from, collectionId)
	if err != nil {
		self.fail(c, err, "Failed to burn collection")
		return
	}

	LOG(c).WithField("collection_id", collectionId).Info("Collection burned")
	c.JSON(http.StatusOK, result)
}

func (self *Server) onGetCollections(c *gin.Context) {
	c.JSON(http.StatusOK, &response.Collections{Collections: self.gallery.Collections()})
}

func (self *Server) onGetStatus(c *gin.Context) {
	collectionId, err := uintParam(c, "id")
	if err != nil {
		self.badRequest(c, err, "Bad collection id")
		return
	}

	status, err := self.gallery.ContractStatus(collectionId)
	if err != nil {
		self.fail(c, err, "Failed to get status")
		return
	}

	c.JSON(http.StatusOK, status)
}

func (self *Server) onGetBook(c *gin.Context) {
	collectionId, err := uintParam(c, "id")
	if err != nil {
		self.badRequest(c, err, "Bad collection id")
		return
	}

	isBid, err := sideParam(c)
	if err != nil {
		self.badRequest(c, err, "Side is neither bids nor asks")
		return
	}

	orders, err := self.gallery.Book(collectionId, isBid)
	if err != nil {
		self.fail(c, err, "Failed to get book")
		return
	}

	c.JSON(http.StatusOK, &response.Book{
		CollectionId: collectionId,
		IsBid:        isBid,
		Orders:       orders,
	})
}

func (self *Server) onGetOrder(c *gin.Context) {
	collectionId, err := uintParam(c, "id")
	if err != nil {
		self.badRequest(c, err, "Bad collection id")
		return
	}

	isBid, err := sideParam(c)
	if err != nil {
		self.badRequest(c, err, "Side is neither bids nor asks")
		return
	}

	slot, err := uintParam(c, "slot")
	if err != nil {
		self.badRequest(c, err, "Bad slot")
		return
	}

	order, err := self.gallery.ArrayInfo(collectionId, int(min(slot, math.MaxInt32)), isBid)
	if err != nil {
		self.fail(c, err, "Failed to get order")
		return
	}

	c.JSON(http.StatusOK, &order)
}
