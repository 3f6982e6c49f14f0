package task

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/logger"

	"github.com/sirupsen/logrus"
)

const defaultStopTimeout = 30 * time.Second

// Lifecycle shared by every long running component of the node.
// A task runs its subtask functions and child tasks. It's considered running until all of them return.
type Task struct {
	Config *config.Config
	Log    *logrus.Entry
	Name   string

	IsStopping  *atomic.Bool
	StopChannel chan bool
	stopOnce    sync.Once
	running     sync.WaitGroup

	// Done once nothing runs in the task anymore. For use by the owner of the task.
	CtxRunning    context.Context
	cancelRunning context.CancelFunc

	// Done once Stop is called. For use inside the task.
	Ctx    context.Context
	cancel context.CancelFunc

	workers *workers

	onBeforeStart []func() error
	onStop        []func()
	onAfterStop   []func()
	funcs         []func() error
	children      []*Task
}

func NewTask(config *config.Config, name string) (self *Task) {
	self = &Task{
		Config:      config,
		Name:        name,
		Log:         logger.NewSublogger(name),
		IsStopping:  &atomic.Bool{},
		StopChannel: make(chan bool, 1),
	}
	self.Ctx, self.cancel = context.WithCancel(context.Background())
	self.CtxRunning, self.cancelRunning = context.WithCancel(context.Background())
	return
}

// Called in order during Start, first error aborts starting
func (self *Task) WithOnBeforeStart(f func() error) *Task {
	self.onBeforeStart = append(self.onBeforeStart, f)
	return self
}

// Called once, when Stop is called
func (self *Task) WithOnStop(f func()) *Task {
	self.onStop = append(self.onStop, f)
	return self
}

// Called after everything in the task returned, right before CtxRunning is cancelled
func (self *Task) WithOnAfterStop(f func()) *Task {
	self.onAfterStop = append(self.onAfterStop, f)
	return self
}

// Child is started with the task and stopped with it. Task keeps running until the child finishes.
func (self *Task) WithSubtask(child *Task) *Task {
	if child == nil {
		return self
	}

	child.
		WithOnBeforeStart(func() error {
			self.running.Add(1)
			return nil
		}).
		WithOnAfterStop(self.running.Done)

	self.children = append(self.children, child)
	return self
}

func (self *Task) WithSubtaskFunc(f func() error) *Task {
	self.funcs = append(self.funcs, f)
	return self
}

// Runs f right away and then every period after the previous run finished, until stop or the first error
func (self *Task) WithPeriodicSubtaskFunc(period time.Duration, f func() error) *Task {
	return self.WithSubtaskFunc(func() error {
		for {
			err := f()
			if err != nil {
				return err
			}

			timer := time.NewTimer(period)
			select {
			case <-self.StopChannel:
				timer.Stop()
				return nil
			case <-timer.C:
			}
		}
	})
}

func (self *Task) spawn(f func() error) {
	self.running.Add(1)
	go func() {
		defer self.running.Done()
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			self.Log.WithError(fmt.Errorf("%v", p)).Error("Panic in subtask")
			panic(p)
		}()

		err := f()
		if err != nil {
			self.Log.WithError(err).Error("Subtask failed")
		}
	}()
}

func (self *Task) Start() (err error) {
	for _, f := range self.onBeforeStart {
		err = f()
		if err != nil {
			return
		}
	}

	for _, child := range self.children {
		err = child.Start()
		if err != nil {
			return
		}
	}

	for _, f := range self.funcs {
		self.spawn(f)
	}

	go self.waitForFinish()

	return nil
}

func (self *Task) waitForFinish() {
	// Subtasks are expected to return once StopChannel gets closed
	self.running.Wait()

	for _, f := range self.onAfterStop {
		f()
	}

	self.cancelRunning()
}

func (self *Task) Stop() {
	self.stopOnce.Do(func() {
		self.Log.Info("Stopping...")

		for _, child := range self.children {
			child.Stop()
		}

		close(self.StopChannel)
		self.cancel()
		self.IsStopping.Store(true)

		for _, f := range self.onStop {
			f()
		}
	})
}

// Stops the task and waits until it finishes or the stop timeout passes
func (self *Task) StopWait() {
	timeout := defaultStopTimeout
	if self.Config != nil && self.Config.StopTimeout > 0 {
		timeout = self.Config.StopTimeout
	}

	self.Stop()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-self.CtxRunning.Done():
		self.Log.Info("Task finished")
	case <-timer.C:
		self.Log.WithField("timeout", timeout).Error("Timeout reached, failed to stop")
	}
}
