package publisher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding"
	"errors"
	"fmt"
	"time"

	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/monitoring"
	"github.com/assetkid/gallery/src/utils/task"

	"github.com/redis/go-redis/v9"
	"go.uber.org/ratelimit"
)

var ErrBadCaCert = errors.New("failed to append CA cert to pool")

// Publishes every message from the input channel to one Redis channel.
// Messages are marshaled once and published by a pool of workers, each retried with backoff.
type RedisPublisher[In encoding.BinaryMarshaler] struct {
	*task.Task

	redisConfig config.Redis

	monitor monitoring.Monitor
	limiter ratelimit.Limiter

	client      *redis.Client
	channelName string
	input       <-chan In
}

func NewRedisPublisher[In encoding.BinaryMarshaler](config *config.Config, redisConfig config.Redis, name string) (self *RedisPublisher[In]) {
	self = new(RedisPublisher[In])

	self.redisConfig = redisConfig

	if redisConfig.MaxPublishRate > 0 {
		self.limiter = ratelimit.New(redisConfig.MaxPublishRate)
	} else {
		self.limiter = ratelimit.NewUnlimited()
	}

	self.Task = task.NewTask(config, name).
		WithOnBeforeStart(self.connect).
		WithSubtaskFunc(self.run).
		WithWorkerPool(redisConfig.MaxWorkers, redisConfig.MaxQueueSize).
		WithOnAfterStop(self.disconnect)

	return
}

func (self *RedisPublisher[In]) WithInputChannel(v <-chan In) *RedisPublisher[In] {
	self.input = v
	return self
}

func (self *RedisPublisher[In]) WithChannelName(v string) *RedisPublisher[In] {
	self.channelName = v
	return self
}

func (self *RedisPublisher[In]) WithMonitor(monitor monitoring.Monitor) *RedisPublisher[In] {
	self.monitor = monitor
	return self
}

// TLS is used only when all three certificates are set
func tlsConfig(redisConfig config.Redis) (*tls.Config, error) {
	if redisConfig.ClientCert == "" || redisConfig.ClientKey == "" || redisConfig.CaCert == "" {
		return nil, nil
	}

	cert, err := tls.X509KeyPair([]byte(redisConfig.ClientCert), []byte(redisConfig.ClientKey))
	if err != nil {
		return nil, err
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM([]byte(redisConfig.CaCert)) {
		return nil, ErrBadCaCert
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		RootCAs:      pool,
		Certificates: []tls.Certificate{cert},
	}, nil
}

func (self *RedisPublisher[In]) connect() (err error) {
	tlsConfig, err := tlsConfig(self.redisConfig)
	if err != nil {
		self.Log.WithError(err).Error("Bad Redis TLS configuration")
		return
	}

	self.client = redis.NewClient(&redis.Options{
		ClientName:      fmt.Sprintf("gallery/%s", self.Name),
		Addr:            fmt.Sprintf("%s:%d", self.redisConfig.Host, self.redisConfig.Port),
		Username:        self.redisConfig.User,
		Password:        self.redisConfig.Password,
		DB:              self.redisConfig.DB,
		MinIdleConns:    self.redisConfig.MinIdleConns,
		MaxIdleConns:    self.redisConfig.MaxIdleConns,
		ConnMaxIdleTime: self.redisConfig.ConnMaxIdleTime,
		PoolSize:        self.redisConfig.MaxOpenConns,
		ConnMaxLifetime: self.redisConfig.ConnMaxLifetime,
		TLSConfig:       tlsConfig,
	})

	ctx, cancel := context.WithTimeout(self.Ctx, 30*time.Second)
	defer cancel()

	err = self.client.Ping(ctx).Err()
	if err != nil {
		self.Log.WithError(err).WithField("channel", self.channelName).Error("Failed to ping Redis")
		return
	}

	self.Log.WithField("channel", self.channelName).Info("Connected to Redis")
	return
}

func (self *RedisPublisher[In]) disconnect() {
	err := self.client.Close()
	if err != nil {
		self.Log.WithError(err).Error("Failed to close connection")
	}
}

// Runs until the input channel is closed
func (self *RedisPublisher[In]) run() error {
	report := self.monitor.GetReport().RedisPublisher

	for msg := range self.input {
		payload, err := msg.MarshalBinary()
		if err != nil {
			self.Log.WithError(err).Error("Failed to marshal message, dropping")
			report.Errors.Marshal.Inc()
			continue
		}

		self.limiter.Take()
		self.SubmitToWorker(func() { self.publish(payload) })
		report.State.QueueSize.Store(int64(self.GetWorkerQueueSize()))
	}
	return nil
}

func (self *RedisPublisher[In]) publish(payload []byte) {
	report := self.monitor.GetReport().RedisPublisher

	var receivers int64
	err := task.NewRetry().
		WithContext(self.Ctx).
		WithMaxElapsedTime(self.redisConfig.MaxElapsedTime).
		WithMaxInterval(self.redisConfig.MaxInterval).
		WithOnError(func(err error, attempt int) error {
			self.Log.WithError(err).WithField("attempt", attempt).Warn("Failed to publish message, retrying")
			report.Errors.Publish.Inc()
			return err
		}).
		Run(func() (err error) {
			// Running context lets messages queued before stop go out
			receivers, err = self.client.Publish(self.CtxRunning, self.channelName, payload).Result()
			return
		})
	if err != nil {
		self.Log.WithError(err).Error("Failed to publish message, giving up")
		report.Errors.PersistentFailure.Inc()
		return
	}

	report.State.MessagesPublished.Inc()
	report.State.BytesPublished.Add(uint64(len(payload)))
	report.State.LastReceivers.Store(receivers)
	report.State.LastSuccessfulMessageTimestamp.Store(time.Now().Unix())
}
