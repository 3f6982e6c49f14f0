package gallery

import "errors"

var (
	ErrTierPercentageOverflow = errors.New("collection percentages exceed the whole")
	ErrInvalidTier            = errors.New("invalid tier structure")
	ErrInvalidCollectable     = errors.New("invalid collectable")
	ErrInexactExchange        = errors.New("exchange amount does not convert exactly")
	ErrUnknownCollection      = errors.New("unknown collection")
	ErrUnknownToken           = errors.New("unknown token")
	ErrNotAdmin               = errors.New("caller is not the gallery admin")
	ErrNotWholeOwner          = errors.New("caller does not hold the whole collection")
	ErrCustodyOpen            = errors.New("escrow still holds assets of the collection")
	ErrFundLimit              = errors.New("amount exceeds the funding limit")
	ErrStateNotRestorable     = errors.New("ledger holds collection tokens unknown to the gallery")
)
