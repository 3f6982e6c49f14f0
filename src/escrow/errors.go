package escrow

import "errors"

var (
	ErrInvalidAmount         = errors.New("amount and price must be positive")
	ErrDuplicateOrder        = errors.New("holder already has an active order on this side")
	ErrCollectionNotApproved = errors.New("collection is not approved for trading")
	ErrBookFullPriceTooLow   = errors.New("bid book is full and the price does not beat the lowest bid")
	ErrBookFullPriceTooHigh  = errors.New("ask book is full and the price does not beat the highest ask")
	ErrNoActiveOrder         = errors.New("holder has no active order on this side")
	ErrOutOfRange            = errors.New("slot out of range")

	ErrCampaignAlreadyOpen = errors.New("campaign already open")
	ErrCampaignClosed      = errors.New("campaign already approved or cancelled")
	ErrCampaignNotOpen     = errors.New("campaign is not open")
	ErrOverCommitted       = errors.New("support exceeds the initial ask")
	ErrNotWithdrawable     = errors.New("support can't be withdrawn after approval")
	ErrNothingToClaim      = errors.New("nothing to claim")
	ErrAlreadyApproved     = errors.New("collection already approved")
	ErrNotCreator          = errors.New("only the creator may do this")
)
