package task

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/assetkid/gallery/src/utils/config"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestTaskTestSuite(t *testing.T) {
	suite.Run(t, new(TaskTestSuite))
}

type TaskTestSuite struct {
	suite.Suite
	config *config.Config
}

func (s *TaskTestSuite) SetupSuite() {
	s.config = config.Default()
}

func (s *TaskTestSuite) TestLifecycle() {
	var (
		mtx     sync.Mutex
		started bool
		stopped bool
	)

	task := NewTask(s.config, "test").
		WithOnBeforeStart(func() error {
			mtx.Lock()
			defer mtx.Unlock()
			started = true
			return nil
		}).
		WithOnStop(func() {
			mtx.Lock()
			defer mtx.Unlock()
			stopped = true
		}).
		WithPeriodicSubtaskFunc(10*time.Millisecond, func() error { return nil })

	require.Nil(s.T(), task.Start())
	task.StopWait()

	<-task.CtxRunning.Done()

	mtx.Lock()
	defer mtx.Unlock()
	require.True(s.T(), started)
	require.True(s.T(), stopped)
	require.True(s.T(), task.IsStopping.Load())
}

func (s *TaskTestSuite) TestRetryGivesUpOnPermanent() {
	calls := 0
	errFatal := errors.New("fatal")
	err := NewRetry().
		WithMaxElapsedTime(time.Second).
		WithMaxInterval(5 * time.Millisecond).
		WithOnError(func(err error, _ int) error {
			return backoff.Permanent(err)
		}).
		Run(func() error {
			calls++
			return errFatal
		})
	require.ErrorIs(s.T(), err, errFatal)
	require.Equal(s.T(), 1, calls)
}

func (s *TaskTestSuite) TestRetrySucceeds() {
	calls, attempts := 0, 0
	err := NewRetry().
		WithMaxElapsedTime(time.Second).
		WithMaxInterval(5 * time.Millisecond).
		WithOnError(func(err error, attempt int) error {
			attempts = attempt
			return err
		}).
		Run(func() error {
			calls++
			if calls < 3 {
				return errors.New("not yet")
			}
			return nil
		})
	require.Nil(s.T(), err)
	require.Equal(s.T(), 3, calls)
	require.Equal(s.T(), 2, attempts)
}

func (s *TaskTestSuite) TestProcessorFlushesOnClose() {
	input := make(chan int)

	var (
		mtx     sync.Mutex
		flushed []int
	)

	processor := NewProcessor[int, int](s.config, "processor").
		WithInputChannel(input).
		WithBatchSize(2).
		WithOnProcess(func(in int) ([]int, error) {
			return []int{in * 10}, nil
		}).
		WithOnFlush(time.Hour, func(data []int) error {
			mtx.Lock()
			defer mtx.Unlock()
			flushed = append(flushed, data...)
			return nil
		})

	require.Nil(s.T(), processor.Start())

	for i := 1; i <= 3; i++ {
		input <- i
	}
	close(input)

	<-processor.CtxRunning.Done()

	mtx.Lock()
	defer mtx.Unlock()
	require.Equal(s.T(), []int{10, 20, 30}, flushed)
}

func (s *TaskTestSuite) TestProcessorDropsFailedBatch() {
	input := make(chan int)

	var (
		mtx     sync.Mutex
		dropped []int
		flushed []int
	)

	processor := NewProcessor[int, int](s.config, "processor").
		WithInputChannel(input).
		WithBackoff(20*time.Millisecond, 5*time.Millisecond).
		WithOnProcess(func(in int) ([]int, error) {
			return []int{in}, nil
		}).
		WithOnFlush(time.Hour, func(data []int) error {
			if data[0] == 1 {
				return errors.New("db down")
			}
			mtx.Lock()
			defer mtx.Unlock()
			flushed = append(flushed, data...)
			return nil
		}).
		WithOnDropped(func(data []int) {
			mtx.Lock()
			defer mtx.Unlock()
			dropped = append(dropped, data...)
		})

	require.Nil(s.T(), processor.Start())

	input <- 1
	input <- 2
	close(input)

	<-processor.CtxRunning.Done()

	mtx.Lock()
	defer mtx.Unlock()
	require.Equal(s.T(), []int{1}, dropped)
	require.Equal(s.T(), []int{2}, flushed)
}
