package gateway

import (
	"net/http"

	"github.com/assetkid/gallery/src/gateway/request"
	"github.com/assetkid/gallery/src/gateway/response"
	"github.com/assetkid/gallery/src/ledger"
	"github.com/assetkid/gallery/src/utils/binder"
	. "github.com/assetkid/gallery/src/utils/logger"

	"github.com/gin-gonic/gin"
)

func (self *Server) onSetApproval(c *gin.Context) {
	owner, err := caller(c)
	if err != nil {
		self.badRequest(c, err, "No caller")
		return
	}

	var in = new(request.SetApproval)
	err = c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	err = self.gallery.SetApprovalForAll(c.Request.Context(), owner, in.Approved)
	if err != nil {
		self.fail(c, err, "Failed to set approval")
		return
	}

	c.JSON(http.StatusOK, &response.Ok{Ok: true})
}

func (self *Server) onFund(c *gin.Context) {
	from, err := caller(c)
	if err != nil {
		self.badRequest(c, err, "No caller")
		return
	}

	var in = new(request.Fund)
	err = c.ShouldBindWith(in, binder.JSON)
	if err != nil {
		self.badRequest(c, err, "Failed to parse request")
		return
	}

	err = self.gallery.FundAddress(c.Request.Context(), from, in.To, in.Amount)
	if err != nil {
		self.fail(c, err, "Failed to fund address")
		return
	}

	LOG(c).WithField("to", in.To.Hex()).WithField("amount", in.Amount).Info("Address funded")

	balance, err := self.gallery.BalanceOf(c.Request.Context(), in.To, ledger.AssetBIA)
	if err != nil {
		self.fail(c, err, "Failed to get balance")
		return
	}

	c.JSON(http.StatusOK, &response.Balance{
		Holder:  in.To,
		Asset:   ledger.AssetBIA,
		Balance: balance,
	})
}
