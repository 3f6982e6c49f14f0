package gateway

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

// Address the request acts on behalf of. Requests are signed and verified in front of the gateway.
const HeaderCaller = "X-Caller-Address"

func caller(c *gin.Context) (out common.Address, err error) {
	return parseAddress(c.GetHeader(HeaderCaller), ErrMissingCaller)
}

func parseAddress(value string, onErr error) (out common.Address, err error) {
	if !common.IsHexAddress(value) {
		err = onErr
		return
	}
	return common.HexToAddress(value), nil
}

func uintParam(c *gin.Context, name string) (uint64, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, ErrBadParameter
	}
	return v, nil
}

func sideParam(c *gin.Context) (isBid bool, err error) {
	switch c.Param("side") {
	case "bids":
		return true, nil
	case "asks":
		return false, nil
	}
	return false, ErrBadParameter
}
