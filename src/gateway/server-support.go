package gateway

import (
	"context"
	"net/http"

	"github.com/assetkid/gallery/src/gateway/request"
	"github.com/assetkid/gallery/src/gateway/response"
	"github.com/assetkid/gallery/src/utils/binder"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

func (self *Server) onCommercialize(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	var in = new(request.Commercialize)
	err := c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	err = self.gallery.Commercialize(c.Request.Context(), from, collectionId, in.Amount, in.Price, in.Cancel)
	if err != nil {
		self.fail(c, err, "Failed to commercialize")
		return
	}

	status, err := self.gallery.ContractStatus(collectionId)
	if err != nil {
		self.fail(c, err, "Failed to get status")
		return
	}

	c.JSON(http.StatusOK, status)
}

func (self *Server) onSupport(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	var in = new(request.Support)
	err := c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	record, err := self.gallery.Support(c.Request.Context(), from, collectionId, in.Amount)
	if err != nil {
		self.fail(c, err, "Failed to support")
		return
	}

	c.JSON(http.StatusOK, &response.Support{
		CollectionId:  collectionId,
		Holder:        from,
		SupportRecord: record,
	})
}

func (self *Server) onGetSupport(c *gin.Context) {
	collectionId, err := uintParam(c, "id")
	if err != nil {
		self.badRequest(c, err, "Bad collection id")
		return
	}

	holder, err := parseAddress(c.Param("holder"), ErrBadParameter)
	if err != nil {
		self.badRequest(c, err, "Bad holder")
		return
	}

	record, err := self.gallery.SupportInfo(collectionId, holder)
	if err != nil {
		self.fail(c, err, "Failed to get support")
		return
	}

	c.JSON(http.StatusOK, &response.Support{
		CollectionId:  collectionId,
		Holder:        holder,
		SupportRecord: record,
	})
}

func (self *Server) onWithdraw(c *gin.Context) {
	self.amount(c, "Failed to withdraw support", self.gallery.WithdrawSupport)
}

func (self *Server) onClaimSFT(c *gin.Context) {
	self.amount(c, "Failed to claim units", self.gallery.ClaimSFT)
}

func (self *Server) onClaimBIA(c *gin.Context) {
	self.amount(c, "Failed to claim payment", self.gallery.ClaimBIA)
}

// Operations without a body that move an amount to the caller
func (self *Server) amount(c *gin.Context, msg string, f func(context.Context, common.Address, uint64) (uint64, error)) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	amount, err := f(c.Request.Context(), from, collectionId)
	if err != nil {
		self.fail(c, err, msg)
		return
	}

	c.JSON(http.StatusOK, &response.Amount{CollectionId: collectionId, Amount: amount})
}
