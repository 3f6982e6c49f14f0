package gateway

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strconv"

	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/utils/config"
	. "github.com/assetkid/gallery/src/utils/logger"
	"github.com/assetkid/gallery/src/utils/monitoring"
	"github.com/assetkid/gallery/src/utils/task"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rest API of the gallery. Serves gallery operations, monitor counters and metrics.
type Server struct {
	*task.Task

	httpServer *http.Server
	Router     *gin.Engine

	gallery *gallery.Gallery
	monitor monitoring.Monitor
	metrics http.Handler

	// Token id -> gallery.TokenInfo
	tokens *cache.Cache

	// Client address -> *rate.Limiter
	limiters *cache.Cache
}

func NewServer(config *config.Config) (self *Server) {
	self = new(Server)

	self.Task = task.NewTask(config, "gateway").
		WithSubtaskFunc(self.run).
		WithOnStop(self.stop)

	self.tokens = cache.New(config.Gateway.CacheExpiration, config.Gateway.CacheCleanupInterval)
	self.limiters = cache.New(config.Gateway.CacheExpiration, config.Gateway.CacheCleanupInterval)

	if !config.IsDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}
	self.Router = gin.New()
	self.Router.Use(gin.CustomRecovery(self.onPanic))

	self.httpServer = &http.Server{
		Addr:    config.Gateway.RESTListenAddress,
		Handler: self.Router,
	}

	self.routes()

	return
}

func (self *Server) WithGallery(gallery *gallery.Gallery) *Server {
	self.gallery = gallery
	return self
}

func (self *Server) WithMonitor(monitor monitoring.Monitor) *Server {
	self.monitor = monitor

	registry := prometheus.NewRegistry()
	registry.MustRegister(monitor.GetPrometheusCollector())
	self.metrics = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return self
}

func (self *Server) routes() {
	if self.Config.Profiler.Enabled {
		runtime.SetBlockProfileRate(self.Config.Profiler.BlockProfileRate)
		pprof.Register(self.Router)
	}

	v1 := self.Router.Group("v1")
	{
		v1.GET("health", self.onGetHealth)
		v1.GET("state", self.onGetState)
		v1.GET("metrics", self.onGetMetrics)
	}

	api := v1.Group("", self.onRequest, self.rateLimit, self.withTimeout)
	{
		api.GET("tokens/:id", self.onGetToken)
		api.GET("collections", self.onGetCollections)
		api.GET("collections/:id/status", self.onGetStatus)
		api.GET("collections/:id/book/:side", self.onGetBook)
		api.GET("collections/:id/book/:side/:slot", self.onGetOrder)
		api.GET("metadata/:hash", self.onGetTokenByMetadata)
		api.GET("collections/:id/support/:holder", self.onGetSupport)
		api.GET("balances/:holder/:asset", self.onGetBalance)

		api.POST("collections/simple", self.onCreateSimple)
		api.POST("collections/tier", self.onCreateTier)
		api.POST("collections/:id/exchange", self.onExchange)
		api.POST("collections/:id/burn", self.onBurn)

		api.POST("collections/:id/offers", self.onSubmitOffer)
		api.DELETE("collections/:id/offers", self.onCancelOffer)

		api.POST("collections/:id/commercialize", self.onCommercialize)
		api.POST("collections/:id/support", self.onSupport)
		api.POST("collections/:id/withdraw", self.onWithdraw)
		api.POST("collections/:id/claim/sft", self.onClaimSFT)
		api.POST("collections/:id/claim/bia", self.onClaimBIA)

		api.POST("approvals", self.onSetApproval)
		api.POST("wallet/fund", self.onFund)

		admin := api.Group("admin")
		{
			admin.POST("collections/:id/approve", self.onApprove)
			admin.POST("collections/:id/compact", self.onCompact)
			admin.POST("collections/:id/sweep", self.onSweep)
			admin.POST("metadata", self.onSetMetadata)
		}
	}
}

// Drops cached token info of collections whose state changed
func (self *Server) OnEvent(event *gallery.Event) {
	switch event.Kind {
	case gallery.EventCollectionApproved, gallery.EventCollectionBurned:
	default:
		return
	}

	for key, item := range self.tokens.Items() {
		info, ok := item.Object.(gallery.TokenInfo)
		if ok && info.CollectionId == event.CollectionId {
			self.tokens.Delete(key)
		}
	}
}

func (self *Server) onPanic(c *gin.Context, err interface{}) {
	self.monitor.GetReport().Run.Errors.NumPanics.Inc()
	LOGE(c, fmt.Errorf("%v", err), http.StatusInternalServerError).Error("Panic in handler")
}

func (self *Server) onGetHealth(c *gin.Context) {
	self.monitor.OnGetHealth(c)
}

func (self *Server) onGetState(c *gin.Context) {
	self.monitor.OnGetState(c)
}

func (self *Server) onGetMetrics(c *gin.Context) {
	self.metrics.ServeHTTP(c.Writer, c.Request)
}

func (self *Server) run() (err error) {
	err = self.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		self.Log.WithError(err).Error("Failed to start REST server")
		return
	}
	return nil
}

func (self *Server) stop() {
	ctx, cancel := context.WithTimeout(context.Background(), self.Config.StopTimeout)
	defer cancel()

	err := self.httpServer.Shutdown(ctx)
	if err != nil {
		self.Log.WithError(err).Error("Failed to gracefully shutdown REST server")
		return
	}
}

func tokenKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}
