package gateway

import (
	"net/http"

	"github.com/assetkid/gallery/src/gateway/request"
	"github.com/assetkid/gallery/src/gateway/response"
	"github.com/assetkid/gallery/src/utils/binder"
	. "github.com/assetkid/gallery/src/utils/logger"

	"github.com/gin-gonic/gin"
)

func (self *Server) onSubmitOffer(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	var in = new(request.SubmitOffer)
	err := c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	result, err := self.gallery.SubmitOffer(c.Request.Context(), from, collectionId, in.Amount, in.Price, in.IsBid)
	if err != nil {
		self.fail(c, err, "Failed to submit offer")
		return
	}

	LOG(c).WithField("collection_id", collectionId).
		WithField("is_bid", in.IsBid).
		WithField("fills", len(result.Fills)).
		WithField("remaining", result.Remaining).
		Debug("Offer submitted")

	c.JSON(http.StatusOK, result)
}

func (self *Server) onCancelOffer(c *gin.Context) {
	from, collectionId, ok := self.target(c)
	if !ok {
		return
	}

	var in = new(request.CancelOffer)
	err := c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	order, err := self.gallery.CancelOffer(c.Request.Context(), from, collectionId, in.IsBid)
	if err != nil {
		self.fail(c, err, "Failed to cancel offer")
		return
	}

	c.JSON(http.StatusOK, &response.Cancelled{CollectionId: collectionId, Order: order})
}
