package report

import (
	"go.uber.org/atomic"
)

type GatewayErrors struct {
	RateLimited  atomic.Uint64 `json:"rate_limited"`
	BadRequests  atomic.Uint64 `json:"bad_requests"`
	Rejected     atomic.Uint64 `json:"rejected"`
	ServerErrors atomic.Uint64 `json:"server_errors"`
}

type GatewayState struct {
	Requests    atomic.Uint64 `json:"requests"`
	CacheHits   atomic.Uint64 `json:"cache_hits"`
	CacheMisses atomic.Uint64 `json:"cache_misses"`
}

type GatewayReport struct {
	State  GatewayState  `json:"state"`
	Errors GatewayErrors `json:"errors"`
}
