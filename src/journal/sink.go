package journal

import (
	"sync"

	"github.com/assetkid/gallery/src/gallery"
	"github.com/assetkid/gallery/src/utils/config"
	"github.com/assetkid/gallery/src/utils/monitoring"
	"github.com/assetkid/gallery/src/utils/task"
)

// Buffers gallery events for the journal. Never blocks the gallery:
// events that don't fit into the buffer are dropped and counted.
type Sink struct {
	*task.Task

	monitor monitoring.Monitor

	mtx    sync.Mutex
	closed bool
	input  chan *gallery.Event

	// Fan out
	outputs []chan *gallery.Event
}

func NewSink(config *config.Config) (self *Sink) {
	self = new(Sink)

	size := config.Gallery.EventBufferSize
	if size <= 0 {
		size = 1
	}
	self.input = make(chan *gallery.Event, size)

	self.Task = task.NewTask(config, "journal-sink").
		WithSubtaskFunc(self.run).
		WithOnStop(self.close)

	return
}

func (self *Sink) WithMonitor(monitor monitoring.Monitor) *Sink {
	self.monitor = monitor
	return self
}

// New channel receiving every event. Closed when the sink stops.
func (self *Sink) Output() <-chan *gallery.Event {
	out := make(chan *gallery.Event, cap(self.input))
	self.outputs = append(self.outputs, out)
	return out
}

func (self *Sink) OnEvent(event *gallery.Event) {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if self.closed {
		self.monitor.GetReport().Journal.Errors.EventsDropped.Inc()
		return
	}

	select {
	case self.input <- event:
	default:
		self.monitor.GetReport().Journal.Errors.EventsDropped.Inc()
		self.Log.WithField("id", event.Id).WithField("kind", event.Kind).Warn("Event buffer full, dropping event")
	}
}

func (self *Sink) close() {
	self.mtx.Lock()
	defer self.mtx.Unlock()

	if !self.closed {
		self.closed = true
		close(self.input)
	}
}

func (self *Sink) run() error {
	defer func() {
		for _, out := range self.outputs {
			close(out)
		}
	}()

	// Drains whatever was buffered before stopping
	for event := range self.input {
		for _, out := range self.outputs {
			out <- event
		}
	}
	return nil
}
