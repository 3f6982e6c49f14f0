package gateway

import (
	"net/http"

	"github.com/assetkid/gallery/src/gateway/request"
	"github.com/assetkid/gallery/src/gateway/response"
	"github.com/assetkid/gallery/src/utils/binder"
	. "github.com/assetkid/gallery/src/utils/logger"

	"github.com/gin-gonic/gin"
)

func (self *Server) onApprove(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	result, err := self.gallery.ApproveCollection(c.Request.Context(), from, collectionId)
	if err != nil {
		self.fail(c, err, "Failed to approve collection")
		return
	}

	LOG(c).WithField("collection_id", collectionId).WithField("settled", result.Settled).Info("Collection approved")
	c.JSON(http.StatusOK, result)
}

func (self *Server) onCompact(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	result, err := self.gallery.CompactBook(c.Request.Context(), from, collectionId)
	if err != nil {
		self.fail(c, err, "Failed to compact book")
		return
	}

	c.JSON(http.StatusOK, result)
}

func (self *Server) onSweep(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	var in = new(request.Sweep)
	err := c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	amount, err := self.gallery.SweepSurplus(c.Request.Context(), from, collectionId, in.To)
	if err != nil {
		self.fail(c, err, "Failed to sweep surplus")
		return
	}

	c.JSON(http.StatusOK, &response.Amount{CollectionId: collectionId, Amount: amount})
}

func (self *Server) onSetMetadata(c *gin.Context) {
	from, err := caller(c)
	if err != nil {
		self.badRequest(c, err, "No caller")
		return
	}

	var in = new(request.SetMetadata)
	err = c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	if in.Asset == "bia" {
		err = self.gallery.SetBiaMetadata(from, in.URI)
	} else {
		err = self.gallery.SetFftMetadata(from, in.URI)
	}
	if err != nil {
		self.fail(c, err, "Failed to set metadata")
		return
	}

	c.JSON(http.StatusOK, &response.Ok{Ok: true})
}
