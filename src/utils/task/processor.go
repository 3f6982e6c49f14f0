package task

import (
	"context"
	"errors"
	"time"

	"github.com/assetkid/gallery/src/utils/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/gammazero/deque"
)

// Batches items read from a channel:
// - onProcess maps each incoming item to zero or more queued items
// - onFlush handles the queue once it reaches the batch size or the flush interval passes
//
// A batch that can't be flushed within the backoff limits is handed to onDropped and the processor moves on.
// Closing the input channel flushes what's queued and ends the processor.
type Processor[In any, Out any] struct {
	*Task

	input <-chan In

	onProcess func(In) ([]Out, error)
	onFlush   func([]Out) error
	onDropped func([]Out)

	queue deque.Deque[Out]

	batchSize     int
	flushInterval time.Duration

	// Flush backoff, 0 elapsed time means retrying until the processor stops
	maxElapsedTime time.Duration
	maxInterval    time.Duration
}

func NewProcessor[In any, Out any](config *config.Config, name string) (self *Processor[In, Out]) {
	self = new(Processor[In, Out])

	self.flushInterval = time.Second
	self.batchSize = 1
	self.onDropped = func([]Out) {}

	self.Task = NewTask(config, name).
		WithSubtaskFunc(self.run)

	return
}

func (self *Processor[In, Out]) WithBatchSize(batchSize int) *Processor[In, Out] {
	if batchSize < 1 {
		batchSize = 1
	}
	self.batchSize = batchSize
	return self
}

func (self *Processor[In, Out]) WithInputChannel(v <-chan In) *Processor[In, Out] {
	self.input = v
	return self
}

func (self *Processor[In, Out]) WithOnFlush(interval time.Duration, f func([]Out) error) *Processor[In, Out] {
	if interval > 0 {
		self.flushInterval = interval
	}
	self.onFlush = f
	return self
}

func (self *Processor[In, Out]) WithOnProcess(f func(In) ([]Out, error)) *Processor[In, Out] {
	self.onProcess = f
	return self
}

func (self *Processor[In, Out]) WithOnDropped(f func([]Out)) *Processor[In, Out] {
	self.onDropped = f
	return self
}

func (self *Processor[In, Out]) WithBackoff(maxElapsedTime, maxInterval time.Duration) *Processor[In, Out] {
	self.maxElapsedTime = maxElapsedTime
	self.maxInterval = maxInterval
	return self
}

func (self *Processor[In, Out]) flush() {
	size := self.queue.Len()
	if size == 0 {
		return
	}

	batch := make([]Out, 0, size)
	for self.queue.Len() > 0 {
		batch = append(batch, self.queue.PopFront())
	}

	err := NewRetry().
		WithContext(self.Ctx).
		WithMaxElapsedTime(self.maxElapsedTime).
		WithMaxInterval(self.maxInterval).
		WithOnError(func(err error, attempt int) error {
			if errors.Is(err, context.Canceled) && self.IsStopping.Load() {
				return backoff.Permanent(err)
			}
			self.Log.WithError(err).WithField("attempt", attempt).Warn("Failed to flush batch, retrying")
			return err
		}).
		Run(func() error {
			return self.onFlush(batch)
		})
	if err != nil {
		self.Log.WithError(err).WithField("len", len(batch)).Error("Failed to flush batch, dropping")
		self.onDropped(batch)
	}
}

func (self *Processor[In, Out]) run() error {
	// Data doesn't wait longer than the flush interval
	ticker := time.NewTicker(self.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case in, ok := <-self.input:
			if !ok {
				// Source stopped, nothing more will come
				self.flush()
				return nil
			}

			data, err := self.onProcess(in)
			if err != nil {
				self.Log.WithError(err).Error("Failed to process item, skipping")
				continue
			}

			for _, d := range data {
				self.queue.PushBack(d)
			}

			if self.queue.Len() >= self.batchSize {
				self.flush()
			}

		case <-ticker.C:
			self.flush()
		}
	}
}
