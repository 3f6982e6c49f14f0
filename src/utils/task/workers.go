package task

import (
	"sync"
	"time"

	"github.com/gammazero/workerpool"
)

type workers struct {
	pool         *workerpool.WorkerPool
	mtx          sync.Mutex
	maxQueueSize int
}

// Pool is drained after all subtasks finish.
// maxQueueSize limits jobs waiting for a free worker, SubmitToWorker blocks above it. 0 means no limit.
func (self *Task) WithWorkerPool(maxWorkers int, maxQueueSize int) *Task {
	self.workers = &workers{
		pool:         workerpool.New(maxWorkers),
		maxQueueSize: maxQueueSize,
	}
	return self.WithOnAfterStop(self.workers.pool.StopWait)
}

// Queues f for the worker pool. Gives up silently once the task is stopping and the queue is full.
func (self *Task) SubmitToWorker(f func()) {
	self.workers.mtx.Lock()
	defer self.workers.mtx.Unlock()

	for self.workers.full() {
		select {
		case <-self.Ctx.Done():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}

	self.workers.pool.Submit(f)
}

// Jobs waiting for a free worker
func (self *Task) GetWorkerQueueSize() int {
	if self.workers == nil {
		return 0
	}
	return self.workers.pool.WaitingQueueSize()
}

func (self *workers) full() bool {
	return self.maxQueueSize > 0 && self.pool.WaitingQueueSize() >= self.maxQueueSize
}
