package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/assetkid/gallery/src/escrow"
	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/ledger"
	. "github.com/assetkid/gallery/src/utils/logger"

	"github.com/gin-gonic/gin"
)

var (
	ErrMissingCaller = errors.New("missing or malformed " + HeaderCaller + " header")
	ErrBadParameter  = errors.New("malformed path parameter")
)

var statuses = []struct {
	status int
	errs   []error
}{
	{http.StatusBadRequest, []error{
		escrow.ErrInvalidAmount,
		escrow.ErrOutOfRange,
		gallery.ErrTierPercentageOverflow,
		gallery.ErrInvalidTier,
		gallery.ErrInvalidCollectable,
		gallery.ErrInexactExchange,
		ledger.ErrAmountOverflow,
	}},
	{http.StatusForbidden, []error{
		gallery.ErrNotAdmin,
		gallery.ErrNotWholeOwner,
		gallery.ErrFundLimit,
		escrow.ErrNotCreator,
		ledger.ErrInsufficientApproval,
	}},
	{http.StatusNotFound, []error{
		gallery.ErrUnknownCollection,
		gallery.ErrUnknownToken,
		escrow.ErrNoActiveOrder,
	}},
	{http.StatusConflict, []error{
		escrow.ErrDuplicateOrder,
		escrow.ErrCollectionNotApproved,
		escrow.ErrBookFullPriceTooLow,
		escrow.ErrBookFullPriceTooHigh,
		escrow.ErrCampaignAlreadyOpen,
		escrow.ErrCampaignClosed,
		escrow.ErrCampaignNotOpen,
		escrow.ErrOverCommitted,
		escrow.ErrNotWithdrawable,
		escrow.ErrNothingToClaim,
		escrow.ErrAlreadyApproved,
		gallery.ErrCustodyOpen,
		ledger.ErrInsufficientBalance,
	}},
	{http.StatusGatewayTimeout, []error{
		context.DeadlineExceeded,
	}},
}

func statusOf(err error) int {
	for _, s := range statuses {
		for _, e := range s.errs {
			if errors.Is(err, e) {
				return s.status
			}
		}
	}
	return http.StatusInternalServerError
}

// Responds with the status matching the error and updates counters
func (self *Server) fail(c *gin.Context, err error, msg string) {
	status := statusOf(err)

	errs := &self.monitor.GetReport().Gateway.Errors
	switch {
	case status == http.StatusBadRequest:
		errs.BadRequests.Inc()
	case status < http.StatusInternalServerError:
		errs.Rejected.Inc()
	default:
		errs.ServerErrors.Inc()
		LOGE(c, err, status).Error(msg)
		return
	}

	LOGE(c, err, status).Debug(msg)
}

func (self *Server) badRequest(c *gin.Context, err error, msg string) {
	self.monitor.GetReport().Gateway.Errors.BadRequests.Inc()
	LOGE(c, err, http.StatusBadRequest).Debug(msg)
}
