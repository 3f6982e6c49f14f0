package task

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retries an operation with exponential backoff until it succeeds, the context is done,
// the elapsed time runs out or the error handler gives up.
type Retry struct {
	ctx            context.Context
	maxElapsedTime time.Duration
	maxInterval    time.Duration

	// Called after each failure. Returning backoff.Permanent stops retrying.
	onError func(err error, attempt int) error
}

func NewRetry() *Retry {
	return &Retry{
		ctx: context.Background(),
	}
}

// 0 means no limit
func (self *Retry) WithMaxElapsedTime(maxElapsedTime time.Duration) *Retry {
	self.maxElapsedTime = maxElapsedTime
	return self
}

func (self *Retry) WithMaxInterval(maxInterval time.Duration) *Retry {
	self.maxInterval = maxInterval
	return self
}

func (self *Retry) WithContext(ctx context.Context) *Retry {
	self.ctx = ctx
	return self
}

func (self *Retry) WithOnError(v func(err error, attempt int) error) *Retry {
	self.onError = v
	return self
}

func (self *Retry) Run(f func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = self.maxElapsedTime
	if self.maxInterval > 0 {
		b.MaxInterval = self.maxInterval
		b.InitialInterval = min(b.InitialInterval, self.maxInterval)
	}

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := f()
		if err == nil || self.onError == nil {
			return err
		}
		return self.onError(err, attempt)
	}, backoff.WithContext(b, self.ctx))
}
