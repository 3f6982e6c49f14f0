package gateway

import (
	"context"
	"net/http"

	. "github.com/assetkid/gallery/src/utils/logger"

	"github.com/gin-gonic/gin"
	"github.com/teivah/onecontext"
	"golang.org/x/time/rate"
)

func (self *Server) onRequest(c *gin.Context) {
	self.monitor.GetReport().Gateway.State.Requests.Inc()
	c.Next()
}

// Token bucket per client address
func (self *Server) rateLimit(c *gin.Context) {
	if self.Config.Gateway.RateLimit <= 0 {
		c.Next()
		return
	}

	if !self.limiter(c.ClientIP()).Allow() {
		self.monitor.GetReport().Gateway.Errors.RateLimited.Inc()
		LOGE(c, nil, http.StatusTooManyRequests).Debug("Rate limited")
		return
	}

	c.Next()
}

func (self *Server) limiter(ip string) *rate.Limiter {
	for {
		value, ok := self.limiters.Get(ip)
		if ok {
			return value.(*rate.Limiter)
		}

		limiter := rate.NewLimiter(rate.Limit(self.Config.Gateway.RateLimit), self.Config.Gateway.RateBurst)
		err := self.limiters.Add(ip, limiter, 0)
		if err == nil {
			return limiter
		}
		// Someone else added it in the meantime
	}
}

// Request is cancelled when the client goes away, the timeout passes or the server stops
func (self *Server) withTimeout(c *gin.Context) {
	ctx, cancel := onecontext.Merge(c.Request.Context(), self.CtxRunning)
	defer cancel()

	if self.Config.Gateway.ServerRequestTimeout > 0 {
		var cancelTimeout func()
		ctx, cancelTimeout = context.WithTimeout(ctx, self.Config.Gateway.ServerRequestTimeout)
		defer cancelTimeout()
	}

	c.Request = c.Request.WithContext(ctx)
	c.Next()
}
